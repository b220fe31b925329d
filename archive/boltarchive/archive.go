package boltarchive

import (
	"context"
	"os"

	"github.com/lineagekit/lineage/internal/x/bboltx"
	"github.com/lineagekit/lineage/record"
	"go.etcd.io/bbolt"
)

var (
	// objectBucketKey is the key for the root bucket of object data.
	//
	// The keys are 16-byte object IDs. The values are buckets holding the
	// object's snapshots and metadata.
	objectBucketKey = []byte("object")

	// snapshotsBucketKey is the key for a child bucket that contains an
	// object's snapshots.
	//
	// The keys are versions encoded as 8-byte big-endian values. The values
	// are records marshaled using CBOR.
	snapshotsBucketKey = []byte("snapshots")

	// metaKey is the key of a value within an object's bucket that contains
	// the object's metadata mapping marshaled using CBOR.
	metaKey = []byte("meta")
)

// Archive is an implementation of archive.Archive that stores records in a
// BoltDB database.
type Archive struct {
	db    *bbolt.DB
	close func() error
}

// New returns an archive that uses an existing open database.
//
// Closing the archive does not close the database.
func New(db *bbolt.DB) *Archive {
	return &Archive{
		db: db,
		close: func() error {
			// Don't actually close the database, since we didn't open it.
			return nil
		},
	}
}

// Open opens the database file at the given path and returns an archive
// that uses it.
//
// If mode is zero, 0600 is used. Closing the archive closes the database.
func Open(
	ctx context.Context,
	path string,
	mode os.FileMode,
	opts *bbolt.Options,
) (*Archive, error) {
	db, err := bboltx.Open(ctx, path, mode, opts)
	if err != nil {
		return nil, err
	}

	return &Archive{
		db:    db,
		close: db.Close,
	}, nil
}

// Close closes the archive.
func (a *Archive) Close() error {
	return a.close()
}

// NewID issues a new object ID.
func (a *Archive) NewID() record.ObjectID {
	return record.NewID()
}

// objectBucket gets the bucket holding an object's data.
func objectBucket(tx *bbolt.Tx, id record.ObjectID) (*bbolt.Bucket, bool) {
	k, err := id.MarshalBinary()
	bboltx.Must(err)

	return bboltx.TryBucket(tx, objectBucketKey, k)
}

// nextVersion returns the version that would extend an object's chain.
func nextVersion(b *bbolt.Bucket) uint64 {
	snapshots := b.Bucket(snapshotsBucketKey)
	if snapshots == nil {
		return 0
	}

	k, _ := snapshots.Cursor().Last()
	if k == nil {
		return 0
	}

	return unmarshalUint64(k) + 1
}
