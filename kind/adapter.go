package kind

import (
	"reflect"

	"github.com/lineagekit/lineage/hashing"
	"github.com/lineagekit/lineage/record"
)

// A Saver turns live object references into persisted references while an
// object's state is being saved.
//
// It is implemented by the historian's referencers; adapters receive one
// per save operation.
type Saver interface {
	// Ref persists obj if necessary and returns a reference to it.
	//
	// A nil obj produces the zero-value Ref.
	Ref(obj any) (record.Ref, error)
}

// A Loader resolves persisted references back to live objects while an
// object's state is being loaded.
type Loader interface {
	// Deref returns the live object that ref refers to.
	//
	// Whether ref resolves to the exact version it names or to the latest
	// version of the same object is a property of the load operation in
	// progress, not of the reference.
	Deref(ref record.Ref) (any, error)
}

// An Adapter supplies the capability set the historian requires of an
// application type: blank construction, state encoding and decoding,
// equality, and hash contribution.
//
// Types may implement the capability set themselves (see Savable) or be
// paired with a standalone Adapter when their definition can not be
// changed.
type Adapter interface {
	// TypeID returns the globally stable identifier of the adapted type.
	TypeID() record.TypeID

	// ReflectType returns the Go type of the instances this adapter
	// handles.
	ReflectType() reflect.Type

	// New returns a new, minimally initialized instance.
	//
	// state is the encoded state the instance will subsequently be
	// populated with via LoadState; most implementations ignore it. The
	// returned instance must not be inspected until LoadState has been
	// called.
	New(state any) any

	// SaveState returns the instance's state, ready for encoding.
	//
	// Live references to other saved objects must be converted with s.Ref;
	// the returned state may otherwise contain primitives, lists, mappings
	// and nested application objects.
	SaveState(obj any, s Saver) (any, error)

	// LoadState populates a blank instance from its decoded state.
	LoadState(obj, state any, l Loader) error

	// Equal returns true if two instances are equal.
	Equal(a, b any) bool

	// WriteHashables feeds the instance's hashable contributions to w.
	WriteHashables(obj any, w *hashing.Writer) error
}
