package record

import "fmt"

// A TypeID is the globally stable identifier of an application type, as
// assigned by its adapter.
type TypeID string

// A Record is an immutable snapshot of an object's encoded state.
//
// Records are constructed with a Builder and never mutated thereafter. The
// snapshot at Version-1 of the same ObjectID, if any, is the record's
// predecessor.
type Record struct {
	typeID    TypeID
	objectID  ObjectID
	version   uint64
	createdIn ObjectID
	hash      string
	state     any
}

// TypeID returns the identifier of the type the snapshot was taken from.
func (r Record) TypeID() TypeID {
	return r.typeID
}

// ObjectID identifies the version chain this record belongs to.
func (r Record) ObjectID() ObjectID {
	return r.objectID
}

// Version is the position of this record within its version chain.
func (r Record) Version() uint64 {
	return r.version
}

// CreatedIn returns the ID of the context object that created this object,
// if known.
func (r Record) CreatedIn() (ObjectID, bool) {
	return r.createdIn, !r.createdIn.IsZero()
}

// Hash is the content hash of the object at the time the snapshot was taken.
func (r Record) Hash() string {
	return r.hash
}

// State is the encoded state tree of the snapshot.
//
// It consists only of primitives, lists, mappings and encoded-object
// markers, never live object references.
func (r Record) State() any {
	return r.state
}

// Ref returns a reference to this exact snapshot.
func (r Record) Ref() Ref {
	return Ref{
		ObjectID: r.objectID,
		Version:  r.version,
	}
}

// ChildBuilder returns a builder for the record's successor.
//
// The successor continues the same version chain with the next version
// number. Its hash and state must be populated before building.
func (r Record) ChildBuilder() Builder {
	return Builder{
		TypeID:    r.typeID,
		ObjectID:  r.objectID,
		Version:   r.version + 1,
		CreatedIn: r.createdIn,
	}
}

// CopyBuilder returns a builder for an independent copy of this record.
//
// The copy carries the same type, state and hash but starts a new version
// chain under id.
func (r Record) CopyBuilder(id ObjectID) Builder {
	return Builder{
		TypeID:    r.typeID,
		ObjectID:  id,
		Version:   0,
		CreatedIn: r.createdIn,
		Hash:      r.hash,
		State:     r.state,
	}
}

// A Builder constructs an immutable Record.
type Builder struct {
	// TypeID is the identifier of the type being snapshotted.
	TypeID TypeID

	// ObjectID identifies the version chain the record belongs to.
	ObjectID ObjectID

	// Version is the position of the record within its chain.
	Version uint64

	// CreatedIn is the ID of the context object that created the object, if
	// any.
	CreatedIn ObjectID

	// Hash is the content hash of the object being snapshotted.
	Hash string

	// State is the encoded state tree.
	State any
}

// Build returns the constructed record.
//
// It panics if the builder does not carry a type ID or an object ID, as
// these indicate invalid use of the historian's internals rather than a
// runtime failure.
func (b Builder) Build() Record {
	if b.TypeID == "" {
		panic(fmt.Sprintf("record for %s has no type ID", b.ObjectID))
	}

	if b.ObjectID.IsZero() {
		panic(fmt.Sprintf("record of type %s has no object ID", b.TypeID))
	}

	return Record{
		typeID:    b.TypeID,
		objectID:  b.ObjectID,
		version:   b.Version,
		createdIn: b.CreatedIn,
		hash:      b.Hash,
		state:     b.State,
	}
}

// Ref returns a reference to the record under construction.
func (b Builder) Ref() Ref {
	return Ref{
		ObjectID: b.ObjectID,
		Version:  b.Version,
	}
}
