package kind

import (
	"reflect"

	"github.com/lineagekit/lineage/hashing"
	"github.com/lineagekit/lineage/record"
)

// Savable is the interface implemented by application types that expose
// the historian capability set natively.
//
// Implementations must use pointer receivers; the historian tracks object
// identity by pointer.
type Savable interface {
	// TypeID returns the globally stable identifier of this type.
	TypeID() record.TypeID

	// SaveState returns the instance's state, ready for encoding.
	SaveState(s Saver) (any, error)

	// LoadState populates the instance from its decoded state.
	LoadState(state any, l Loader) error

	// EqualTo returns true if the instance is equal to other.
	EqualTo(other any) bool

	// WriteHashables feeds the instance's hashable contributions to w.
	WriteHashables(w *hashing.Writer) error
}

// Wrap returns an adapter for a type that implements Savable.
//
// proto is a prototype instance, typically a zero-value pointer such as
// &Car{}; only its type is retained.
func Wrap(proto Savable) Adapter {
	return wrapper{
		typeID: proto.TypeID(),
		rt:     reflect.TypeOf(proto),
	}
}

// wrapper adapts a Savable type to the Adapter interface.
type wrapper struct {
	typeID record.TypeID
	rt     reflect.Type
}

func (w wrapper) TypeID() record.TypeID {
	return w.typeID
}

func (w wrapper) ReflectType() reflect.Type {
	return w.rt
}

func (w wrapper) New(any) any {
	return reflect.New(w.rt.Elem()).Interface()
}

func (w wrapper) SaveState(obj any, s Saver) (any, error) {
	return obj.(Savable).SaveState(s)
}

func (w wrapper) LoadState(obj, state any, l Loader) error {
	return obj.(Savable).LoadState(state, l)
}

func (w wrapper) Equal(a, b any) bool {
	return a.(Savable).EqualTo(b)
}

func (w wrapper) WriteHashables(obj any, hw *hashing.Writer) error {
	return obj.(Savable).WriteHashables(hw)
}
