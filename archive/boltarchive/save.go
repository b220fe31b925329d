package boltarchive

import (
	"context"

	"github.com/lineagekit/lineage/archive"
	"github.com/lineagekit/lineage/internal/x/bboltx"
	"github.com/lineagekit/lineage/record"
	"go.etcd.io/bbolt"
)

// SaveMany appends a batch of records atomically.
func (a *Archive) SaveMany(_ context.Context, batch archive.Batch) (err error) {
	batch.MustValidate()

	defer bboltx.Recover(&err)

	bboltx.Update(a.db, func(tx *bbolt.Tx) {
		validateBatch(tx, batch)

		for _, rec := range batch {
			saveRecord(tx, rec)
		}
	})

	return nil
}

// validateBatch checks that no record in the batch would leave a gap in its
// object's version chain. The batch is rejected in full if any would.
func validateBatch(tx *bbolt.Tx, batch archive.Batch) {
	next := map[record.ObjectID]uint64{}

	for _, rec := range batch {
		n, ok := next[rec.ObjectID()]
		if !ok {
			if b, found := objectBucket(tx, rec.ObjectID()); found {
				n = nextVersion(b)
			}
		}

		if rec.Version() > n {
			bboltx.Must(archive.VersionGapError{
				Ref:  rec.Ref(),
				Next: n,
			})
		}

		if rec.Version() == n {
			n++
		}

		next[rec.ObjectID()] = n
	}
}

// saveRecord writes one record to the object's snapshot bucket.
func saveRecord(tx *bbolt.Tx, rec record.Record) {
	data, err := marshalRecord(rec)
	bboltx.Must(err)

	k, err := rec.ObjectID().MarshalBinary()
	bboltx.Must(err)

	snapshots := bboltx.CreateBucketIfNotExists(
		tx,
		objectBucketKey,
		k,
		snapshotsBucketKey,
	)

	bboltx.Put(
		snapshots,
		marshalUint64(rec.Version()),
		data,
	)
}
