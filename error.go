package lineage

import "fmt"

// InvalidStateError is the error returned when an encoded state tree
// contains a value whose shape is not a primitive, a list or a mapping.
type InvalidStateError struct {
	// Value is the offending value.
	Value any
}

func (e InvalidStateError) Error() string {
	return fmt.Sprintf(
		"encoded state contains a value of unsupported type %T",
		e.Value,
	)
}

// UnknownObjectError is the error returned when an operation refers to a
// live object that this historian has never saved or loaded.
type UnknownObjectError struct{}

func (e UnknownObjectError) Error() string {
	return "the object is not known to this historian"
}

// VersionOutOfRangeError is the error returned when a history selector
// names a version index outside the object's version chain.
type VersionOutOfRangeError struct {
	// Index is the requested index, which may be negative.
	Index int

	// Versions is the number of versions in the chain.
	Versions int
}

func (e VersionOutOfRangeError) Error() string {
	return fmt.Sprintf(
		"version index %d is out of range for a chain of %d version(s)",
		e.Index,
		e.Versions,
	)
}
