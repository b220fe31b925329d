package archive

import (
	"errors"
	"fmt"

	"github.com/lineagekit/lineage/record"
)

// ObjectNotFoundError is the error returned when an object ID has never
// been saved to the archive.
type ObjectNotFoundError struct {
	// ObjectID is the unknown ID.
	ObjectID record.ObjectID
}

func (e ObjectNotFoundError) Error() string {
	return fmt.Sprintf(
		"object with ID %s does not exist",
		e.ObjectID,
	)
}

// SnapshotNotFoundError is the error returned when no record exists for a
// reference.
type SnapshotNotFoundError struct {
	// Ref is the unknown reference.
	Ref record.Ref
}

func (e SnapshotNotFoundError) Error() string {
	return fmt.Sprintf(
		"snapshot %s does not exist",
		e.Ref,
	)
}

// VersionGapError is the error returned when appending a record would leave
// a gap in its object's version chain.
type VersionGapError struct {
	// Ref is the reference of the offending record.
	Ref record.Ref

	// Next is the version the chain expects next.
	Next uint64
}

func (e VersionGapError) Error() string {
	return fmt.Sprintf(
		"can not save record %s, the version chain expects version %d next",
		e.Ref,
		e.Next,
	)
}

// IsNotFound returns true if err indicates that an object or snapshot does
// not exist in the archive.
func IsNotFound(err error) bool {
	var o ObjectNotFoundError
	var s SnapshotNotFoundError

	return errors.As(err, &o) || errors.As(err, &s)
}
