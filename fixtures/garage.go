package fixtures

import (
	"fmt"

	"github.com/lineagekit/lineage/hashing"
	"github.com/lineagekit/lineage/kind"
	"github.com/lineagekit/lineage/record"
)

// Garage is a fixture type holding a reference to another saved object.
type Garage struct {
	Car *Car
}

// TypeID returns the globally stable identifier of this type.
func (g *Garage) TypeID() record.TypeID {
	return "fixtures.garage"
}

// SaveState returns the garage's state, ready for encoding.
//
// The car is stored as a reference, not by value, so it keeps its own
// version chain.
func (g *Garage) SaveState(s kind.Saver) (any, error) {
	ref, err := s.Ref(g.Car)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"car": ref,
	}, nil
}

// LoadState populates the garage from its decoded state.
func (g *Garage) LoadState(state any, l kind.Loader) error {
	m, ok := state.(map[string]any)
	if !ok {
		return fmt.Errorf("expected a mapping, got %T", state)
	}

	ref, _ := m["car"].(record.Ref)

	obj, err := l.Deref(ref)
	if err != nil {
		return err
	}

	if obj != nil {
		g.Car = obj.(*Car)
	}

	return nil
}

// EqualTo returns true if the garage is equal to other.
//
// The car is compared by identity; two garages are equal only if they hold
// the same live car instance.
func (g *Garage) EqualTo(other any) bool {
	o, ok := other.(*Garage)
	return ok && g.Car == o.Car
}

// WriteHashables feeds the garage's hashable contributions to w.
func (g *Garage) WriteHashables(w *hashing.Writer) error {
	return w.WriteAny(g.Car)
}
