package bboltx

import "go.etcd.io/bbolt"

// View executes a read-only operation against the database.
//
// Errors raised via Must() within fn propagate as panics carrying a
// PanicSentinel; use Recover() at the call site to convert them back to
// errors.
func View(db *bbolt.DB, fn func(tx *bbolt.Tx)) {
	Must(db.View(func(tx *bbolt.Tx) error {
		fn(tx)
		return nil
	}))
}

// Update executes a read/write operation against the database in a single
// atomic transaction.
func Update(db *bbolt.DB, fn func(tx *bbolt.Tx)) {
	Must(db.Update(func(tx *bbolt.Tx) error {
		fn(tx)
		return nil
	}))
}
