package record

import "fmt"

// A Ref refers to exactly one immutable snapshot of an object.
//
// The zero-value Ref is used to persist a nil object reference.
type Ref struct {
	// ObjectID identifies the object's version chain.
	ObjectID ObjectID

	// Version is the position of the snapshot within the chain.
	Version uint64
}

// IsZero returns true if r is the zero-value.
func (r Ref) IsZero() bool {
	return r == Ref{}
}

func (r Ref) String() string {
	return fmt.Sprintf("%s@%d", r.ObjectID, r.Version)
}
