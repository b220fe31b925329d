package fixtures

import (
	"fmt"

	"github.com/lineagekit/lineage/hashing"
	"github.com/lineagekit/lineage/kind"
	"github.com/lineagekit/lineage/record"
)

// Loop is a fixture type that may refer to another loop, or to itself.
type Loop struct {
	Name string
	Next *Loop
}

// TypeID returns the globally stable identifier of this type.
func (l *Loop) TypeID() record.TypeID {
	return "fixtures.loop"
}

// SaveState returns the loop's state, ready for encoding.
func (l *Loop) SaveState(s kind.Saver) (any, error) {
	ref, err := s.Ref(l.Next)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"name": l.Name,
		"next": ref,
	}, nil
}

// LoadState populates the loop from its decoded state.
func (l *Loop) LoadState(state any, ld kind.Loader) error {
	m, ok := state.(map[string]any)
	if !ok {
		return fmt.Errorf("expected a mapping, got %T", state)
	}

	l.Name, _ = m["name"].(string)

	ref, _ := m["next"].(record.Ref)

	obj, err := ld.Deref(ref)
	if err != nil {
		return err
	}

	if obj != nil {
		l.Next = obj.(*Loop)
	}

	return nil
}

// EqualTo returns true if the loop is equal to other.
//
// Two loops that each refer to themselves are considered to hold the same
// next loop; otherwise next is compared by identity.
func (l *Loop) EqualTo(other any) bool {
	o, ok := other.(*Loop)
	if !ok || l.Name != o.Name {
		return false
	}

	if l.Next == l && o.Next == o {
		return true
	}

	return l.Next == o.Next
}

// WriteHashables feeds the loop's hashable contributions to w.
func (l *Loop) WriteHashables(w *hashing.Writer) error {
	w.WriteString(l.Name)
	return w.WriteAny(l.Next)
}
