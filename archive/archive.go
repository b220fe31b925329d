package archive

import (
	"context"

	"github.com/lineagekit/lineage/record"
)

// An Archive is a storage backend for object records.
//
// Implementations store immutable records keyed by reference, maintain the
// append-only version chain per object ID, and hold a metadata mapping per
// object ID.
type Archive interface {
	// NewID issues a new object ID.
	NewID() record.ObjectID

	// SaveMany appends a batch of records atomically.
	//
	// A record whose reference already exists replaces the stored record;
	// the last write wins. A record that would leave a gap in its version
	// chain causes the entire batch to be rejected with a VersionGapError.
	SaveMany(ctx context.Context, batch Batch) error

	// Load returns the record that ref refers to.
	//
	// It returns a SnapshotNotFoundError if no such record exists.
	Load(ctx context.Context, ref record.Ref) (record.Record, error)

	// History returns references to every version of an object,
	// oldest first.
	//
	// It returns an ObjectNotFoundError if id has never been saved.
	History(ctx context.Context, id record.ObjectID) ([]record.Ref, error)

	// Meta returns the metadata mapping of an object.
	//
	// It returns an ObjectNotFoundError if id has never been saved, and a
	// nil mapping if the object has no metadata.
	Meta(ctx context.Context, id record.ObjectID) (map[string]any, error)

	// SetMeta replaces the metadata mapping of an object.
	//
	// Metadata is keyed by object ID, not by version, so it is shared by
	// all versions of the object unless overwritten.
	SetMeta(ctx context.Context, id record.ObjectID, meta map[string]any) error

	// Find returns the latest record of each object matching q.
	Find(ctx context.Context, q FindRequest) ([]record.Record, error)
}

// FindRequest describes a query against the archive.
type FindRequest struct {
	// TypeID restricts results to objects of one type. Empty matches all
	// types.
	TypeID record.TypeID

	// Criteria restricts results to objects whose latest state matches.
	Criteria Criteria

	// Limit caps the number of results. Zero means unlimited.
	Limit int
}

// Criteria is a set of shallow constraints on an object's encoded state.
//
// A state matches if it is a mapping and each criteria key is present with
// a structurally equal value. Richer query expressions are the concern of
// backend-specific tooling, not of this interface.
type Criteria map[string]any

// Match returns true if state satisfies every constraint in c.
func (c Criteria) Match(state any) bool {
	if len(c) == 0 {
		return true
	}

	m, ok := state.(map[string]any)
	if !ok {
		return false
	}

	for k, want := range c {
		got, ok := m[k]
		if !ok || !equalValue(got, want) {
			return false
		}
	}

	return true
}

func equalValue(a, b any) bool {
	switch a := a.(type) {
	case []any:
		b, ok := b.([]any)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !equalValue(a[i], b[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		b, ok := b.(map[string]any)
		if !ok || len(a) != len(b) {
			return false
		}
		for k := range a {
			bv, ok := b[k]
			if !ok || !equalValue(a[k], bv) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
