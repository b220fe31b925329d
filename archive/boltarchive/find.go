package boltarchive

import (
	"context"

	"github.com/lineagekit/lineage/archive"
	"github.com/lineagekit/lineage/internal/x/bboltx"
	"github.com/lineagekit/lineage/record"
	"go.etcd.io/bbolt"
)

// Find returns the latest record of each object matching q.
//
// Objects are scanned in the byte order of their IDs, so repeated queries
// are deterministic.
func (a *Archive) Find(_ context.Context, q archive.FindRequest) (results []record.Record, err error) {
	defer bboltx.Recover(&err)

	bboltx.View(a.db, func(tx *bbolt.Tx) {
		objects, ok := bboltx.TryBucket(tx, objectBucketKey)
		if !ok {
			return
		}

		c := objects.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if v != nil {
				// Not a bucket.
				continue
			}

			rec, ok := latestRecord(objects.Bucket(k), k)
			if !ok {
				continue
			}

			if q.TypeID != "" && rec.TypeID() != q.TypeID {
				continue
			}

			if !q.Criteria.Match(rec.State()) {
				continue
			}

			results = append(results, rec)

			if q.Limit > 0 && len(results) == q.Limit {
				return
			}
		}
	})

	return results, nil
}

// latestRecord loads the latest snapshot within an object's bucket.
func latestRecord(b *bbolt.Bucket, idKey []byte) (record.Record, bool) {
	snapshots, ok := bboltx.TryBucket(b, snapshotsBucketKey)
	if !ok {
		return record.Record{}, false
	}

	k, data := snapshots.Cursor().Last()
	if k == nil {
		return record.Record{}, false
	}

	var id record.ObjectID
	bboltx.Must(id.UnmarshalBinary(idKey))

	rec, err := unmarshalRecord(
		record.Ref{
			ObjectID: id,
			Version:  unmarshalUint64(k),
		},
		data,
	)
	bboltx.Must(err)

	return rec, true
}
