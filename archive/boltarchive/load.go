package boltarchive

import (
	"context"

	"github.com/lineagekit/lineage/archive"
	"github.com/lineagekit/lineage/internal/x/bboltx"
	"github.com/lineagekit/lineage/record"
	"go.etcd.io/bbolt"
)

// Load returns the record that ref refers to.
func (a *Archive) Load(_ context.Context, ref record.Ref) (rec record.Record, err error) {
	defer bboltx.Recover(&err)

	bboltx.View(a.db, func(tx *bbolt.Tx) {
		b, ok := objectBucket(tx, ref.ObjectID)
		if !ok {
			bboltx.Must(archive.SnapshotNotFoundError{Ref: ref})
		}

		snapshots, ok := bboltx.TryBucket(b, snapshotsBucketKey)
		if !ok {
			bboltx.Must(archive.SnapshotNotFoundError{Ref: ref})
		}

		data := snapshots.Get(marshalUint64(ref.Version))
		if data == nil {
			bboltx.Must(archive.SnapshotNotFoundError{Ref: ref})
		}

		rec, err = unmarshalRecord(ref, data)
		bboltx.Must(err)
	})

	return rec, nil
}

// History returns references to every version of an object, oldest first.
func (a *Archive) History(_ context.Context, id record.ObjectID) (refs []record.Ref, err error) {
	defer bboltx.Recover(&err)

	bboltx.View(a.db, func(tx *bbolt.Tx) {
		b, ok := objectBucket(tx, id)
		if !ok {
			bboltx.Must(archive.ObjectNotFoundError{ObjectID: id})
		}

		snapshots, ok := bboltx.TryBucket(b, snapshotsBucketKey)
		if !ok {
			bboltx.Must(archive.ObjectNotFoundError{ObjectID: id})
		}

		c := snapshots.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			refs = append(refs, record.Ref{
				ObjectID: id,
				Version:  unmarshalUint64(k),
			})
		}
	})

	return refs, nil
}
