package kind

import (
	"reflect"

	"github.com/lineagekit/lineage/hashing"
	"github.com/lineagekit/lineage/record"
)

// A Registry maps application types to their adapters and type identifiers.
//
// Registering a type also registers it with the equator, so its instances
// participate in content hashing and structural equality.
type Registry struct {
	equator *hashing.Equator
	byType  map[reflect.Type]Adapter
	byID    map[record.TypeID]Adapter
	order   []Adapter
}

// NewRegistry returns an empty registry.
//
// Adapters are registered with e as they are added to the registry.
func NewRegistry(e *hashing.Equator) *Registry {
	return &Registry{
		equator: e,
		byType:  map[reflect.Type]Adapter{},
		byID:    map[record.TypeID]Adapter{},
	}
}

// Register adds an application type to the registry.
//
// v is either an Adapter, or a prototype instance of a type that implements
// Savable. It returns an IncompatibleTypeError if v is neither.
func (r *Registry) Register(v any) (Adapter, error) {
	var a Adapter

	switch v := v.(type) {
	case Adapter:
		a = v
	case Savable:
		a = Wrap(v)
	default:
		return nil, IncompatibleTypeError{
			Type: reflect.TypeOf(v),
		}
	}

	r.byType[a.ReflectType()] = a
	r.byID[a.TypeID()] = a
	r.order = append(r.order, a)
	r.equator.Add(adapterEquator{a})

	return a, nil
}

// MustRegister adds an application type to the registry, or panics if it is
// incompatible.
func (r *Registry) MustRegister(v any) Adapter {
	a, err := r.Register(v)
	if err != nil {
		panic(err)
	}

	return a
}

// ByType returns the adapter registered for t.
//
// If no adapter is registered for t exactly, the first registered adapter
// with an assignment-compatible type is used, in registration order. It
// returns an UnknownTypeError if no adapter matches at all.
func (r *Registry) ByType(t reflect.Type) (Adapter, error) {
	if a, ok := r.byType[t]; ok {
		return a, nil
	}

	for _, a := range r.order {
		if t.AssignableTo(a.ReflectType()) {
			return a, nil
		}
	}

	return nil, UnknownTypeError{
		Type: t,
	}
}

// ByInstance returns the adapter registered for v's dynamic type.
func (r *Registry) ByInstance(v any) (Adapter, error) {
	return r.ByType(reflect.TypeOf(v))
}

// ByID returns the adapter registered under the given type ID.
//
// It returns an UnknownTypeError if no adapter carries that ID.
func (r *Registry) ByID(id record.TypeID) (Adapter, error) {
	if a, ok := r.byID[id]; ok {
		return a, nil
	}

	return nil, UnknownTypeError{
		TypeID: id,
	}
}

// adapterEquator exposes an adapter's hashing and equality capabilities as
// a hashing.TypeEquator.
type adapterEquator struct {
	adapter Adapter
}

func (e adapterEquator) CanEquate(v any) bool {
	return reflect.TypeOf(v).AssignableTo(e.adapter.ReflectType())
}

func (e adapterEquator) WriteHashables(v any, w *hashing.Writer) error {
	return e.adapter.WriteHashables(v, w)
}

func (e adapterEquator) Equate(a, b any) bool {
	return e.adapter.Equal(a, b)
}
