package fixtures

import (
	"fmt"
	"reflect"

	"github.com/lineagekit/lineage/hashing"
	"github.com/lineagekit/lineage/kind"
	"github.com/lineagekit/lineage/record"
)

// Note is a fixture type that does not implement kind.Savable itself,
// standing in for application types whose definition can not be changed.
// It is persisted via NoteAdapter.
type Note struct {
	Text string
}

// NoteAdapter is a standalone adapter for Note.
type NoteAdapter struct{}

// TypeID returns the globally stable identifier of the adapted type.
func (NoteAdapter) TypeID() record.TypeID {
	return "fixtures.note"
}

// ReflectType returns the Go type of the instances this adapter handles.
func (NoteAdapter) ReflectType() reflect.Type {
	return reflect.TypeOf(&Note{})
}

// New returns a new, blank note.
func (NoteAdapter) New(any) any {
	return &Note{}
}

// SaveState returns the note's state, ready for encoding.
func (NoteAdapter) SaveState(obj any, _ kind.Saver) (any, error) {
	return map[string]any{
		"text": obj.(*Note).Text,
	}, nil
}

// LoadState populates a blank note from its decoded state.
func (NoteAdapter) LoadState(obj, state any, _ kind.Loader) error {
	m, ok := state.(map[string]any)
	if !ok {
		return fmt.Errorf("expected a mapping, got %T", state)
	}

	obj.(*Note).Text, _ = m["text"].(string)

	return nil
}

// Equal returns true if two notes hold the same text.
func (NoteAdapter) Equal(a, b any) bool {
	x, ok := a.(*Note)
	y, ok2 := b.(*Note)

	return ok && ok2 && x.Text == y.Text
}

// WriteHashables feeds the note's hashable contributions to w.
func (NoteAdapter) WriteHashables(obj any, w *hashing.Writer) error {
	w.WriteString(obj.(*Note).Text)
	return nil
}
