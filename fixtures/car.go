// Package fixtures contains application types used by tests throughout the
// module.
package fixtures

import (
	"fmt"

	"github.com/lineagekit/lineage/hashing"
	"github.com/lineagekit/lineage/kind"
	"github.com/lineagekit/lineage/record"
)

// Car is a fixture type with scalar state only.
type Car struct {
	Make   string
	Colour string
}

// TypeID returns the globally stable identifier of this type.
func (c *Car) TypeID() record.TypeID {
	return "fixtures.car"
}

// SaveState returns the car's state, ready for encoding.
func (c *Car) SaveState(kind.Saver) (any, error) {
	return map[string]any{
		"make":   c.Make,
		"colour": c.Colour,
	}, nil
}

// LoadState populates the car from its decoded state.
func (c *Car) LoadState(state any, _ kind.Loader) error {
	m, ok := state.(map[string]any)
	if !ok {
		return fmt.Errorf("expected a mapping, got %T", state)
	}

	c.Make, _ = m["make"].(string)
	c.Colour, _ = m["colour"].(string)

	return nil
}

// EqualTo returns true if the car is equal to other.
func (c *Car) EqualTo(other any) bool {
	o, ok := other.(*Car)
	return ok &&
		c.Make == o.Make &&
		c.Colour == o.Colour
}

// WriteHashables feeds the car's hashable contributions to w.
func (c *Car) WriteHashables(w *hashing.Writer) error {
	w.WriteString(c.Make)
	w.WriteString(c.Colour)
	return nil
}
