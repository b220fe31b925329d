package kind

import (
	"fmt"
	"reflect"

	"github.com/lineagekit/lineage/record"
)

// UnknownTypeError is the error returned when no registered adapter matches
// a type or type ID.
type UnknownTypeError struct {
	// TypeID is the unmatched type ID, if the lookup was by ID.
	TypeID record.TypeID

	// Type is the unmatched Go type, if the lookup was by type.
	Type reflect.Type
}

func (e UnknownTypeError) Error() string {
	if e.Type != nil {
		return fmt.Sprintf(
			"no adapter is registered for type %s",
			e.Type,
		)
	}

	return fmt.Sprintf(
		"no adapter is registered under the type ID '%s'",
		e.TypeID,
	)
}

// IncompatibleTypeError is the error returned when a type can not be
// registered because it neither implements Savable nor is paired with an
// adapter.
type IncompatibleTypeError struct {
	// Type is the Go type that could not be registered.
	Type reflect.Type
}

func (e IncompatibleTypeError) Error() string {
	return fmt.Sprintf(
		"type %s is neither an adapter nor a savable type",
		e.Type,
	)
}
