package hashing

import "reflect"

// A TypeEquator hashes and compares instances of a particular type on
// behalf of the Equator.
type TypeEquator interface {
	// CanEquate returns true if v is an instance of the type this equator
	// handles.
	CanEquate(v any) bool

	// WriteHashables feeds v's hashable contributions to w.
	WriteHashables(v any, w *Writer) error

	// Equate returns true if a and b are equal.
	//
	// Both values are instances of the type this equator handles.
	Equate(a, b any) bool
}

// An Equator produces content hashes and performs structural equality
// checks.
//
// It dispatches to the first registered TypeEquator that accepts a value,
// in registration order, and handles primitives, lists, and mappings
// itself.
type Equator struct {
	equators []TypeEquator
}

// NewEquator returns an equator with the given initial type equators.
func NewEquator(equators ...TypeEquator) *Equator {
	return &Equator{
		equators: append([]TypeEquator(nil), equators...),
	}
}

// Add registers an additional type equator.
//
// Equators added earlier take precedence when several accept the same
// value.
func (e *Equator) Add(te TypeEquator) {
	e.equators = append(e.equators, te)
}

// Hash returns the content hash of v.
func (e *Equator) Hash(v any) (string, error) {
	w := NewWriter(e)
	if err := w.WriteAny(v); err != nil {
		return "", err
	}

	return w.Sum(), nil
}

// Equal returns true if a and b are structurally equal.
//
// Values of different dynamic types are never equal. Values of a type with
// a registered equator are compared by that equator; anything else is
// compared structurally.
func (e *Equator) Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	if te, ok := e.equatorFor(a); ok {
		return te.Equate(a, b)
	}

	return reflect.DeepEqual(a, b)
}

func (e *Equator) equatorFor(v any) (TypeEquator, bool) {
	for _, te := range e.equators {
		if te.CanEquate(v) {
			return te, true
		}
	}

	return nil, false
}
