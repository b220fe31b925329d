package hashing

import (
	"fmt"
	"reflect"
)

// UnsupportedTypeError is the error returned when a value can not be hashed
// because it is not a primitive and no equator accepts it.
type UnsupportedTypeError struct {
	// Type is the dynamic type of the offending value.
	Type reflect.Type
}

func (e UnsupportedTypeError) Error() string {
	return fmt.Sprintf(
		"values of type %s can not be hashed, no equator is registered for them",
		e.Type,
	)
}
