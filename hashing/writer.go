package hashing

import (
	"hash"
	"hash/fnv"
	"reflect"
	"sort"
	"strconv"

	"github.com/lineagekit/lineage/record"
)

// significantDigits is the precision used when hashing floating point
// values, so that formatting noise beyond the precision of a float64 does
// not produce distinct hashes.
const significantDigits = 14

// A Writer accumulates the hashable contributions of an object into a
// content hash.
//
// Each Write method feeds one primitive value to the hash. WriteAny accepts
// any value that is a primitive, a list, a mapping, or an instance of a
// type with a registered equator. Object graphs that refer back to a value
// already being hashed contribute a fixed cycle marker instead of recursing.
type Writer struct {
	hash    hash.Hash64
	equator *Equator
	seen    map[any]struct{}
}

// NewWriter returns a writer that resolves non-primitive values via e.
func NewWriter(e *Equator) *Writer {
	return &Writer{
		hash:    fnv.New64a(),
		equator: e,
	}
}

// Sum returns the accumulated content hash.
func (w *Writer) Sum() string {
	return strconv.FormatUint(w.hash.Sum64(), 16)
}

// WriteNil feeds a nil marker to the hash.
func (w *Writer) WriteNil() {
	w.write('z', nil)
}

// WriteBool feeds v to the hash.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.write('b', []byte{1})
	} else {
		w.write('b', []byte{0})
	}
}

// WriteInt feeds v to the hash.
func (w *Writer) WriteInt(v int64) {
	w.write('i', strconv.AppendInt(nil, v, 10))
}

// WriteUint feeds v to the hash.
//
// Values representable as an int64 hash identically to WriteInt.
func (w *Writer) WriteUint(v uint64) {
	if v <= 1<<63-1 {
		w.WriteInt(int64(v))
		return
	}

	w.write('u', strconv.AppendUint(nil, v, 10))
}

// WriteFloat feeds v to the hash, truncated to significantDigits of
// precision.
func (w *Writer) WriteFloat(v float64) {
	w.write('f', strconv.AppendFloat(nil, v, 'g', significantDigits, 64))
}

// WriteString feeds v to the hash.
func (w *Writer) WriteString(v string) {
	w.write('s', []byte(v))
}

// WriteBytes feeds v to the hash.
func (w *Writer) WriteBytes(v []byte) {
	w.write('x', v)
}

// WriteID feeds an object ID to the hash.
func (w *Writer) WriteID(id record.ObjectID) {
	data, _ := id.MarshalBinary()
	w.write('o', data)
}

// WriteRef feeds a snapshot reference to the hash.
func (w *Writer) WriteRef(ref record.Ref) {
	data, _ := ref.ObjectID.MarshalBinary()
	w.write('r', data)
	w.WriteUint(ref.Version)
}

// WriteAny feeds an arbitrary value to the hash.
//
// Primitives, lists and mappings are fed element-wise. Any other value is
// delegated to its registered equator. It returns an UnsupportedTypeError
// if no equator accepts the value.
func (w *Writer) WriteAny(v any) error {
	switch v := v.(type) {
	case nil:
		w.WriteNil()
		return nil
	case bool:
		w.WriteBool(v)
		return nil
	case int:
		w.WriteInt(int64(v))
		return nil
	case int8:
		w.WriteInt(int64(v))
		return nil
	case int16:
		w.WriteInt(int64(v))
		return nil
	case int32:
		w.WriteInt(int64(v))
		return nil
	case int64:
		w.WriteInt(v)
		return nil
	case uint:
		w.WriteUint(uint64(v))
		return nil
	case uint8:
		w.WriteUint(uint64(v))
		return nil
	case uint16:
		w.WriteUint(uint64(v))
		return nil
	case uint32:
		w.WriteUint(uint64(v))
		return nil
	case uint64:
		w.WriteUint(v)
		return nil
	case float32:
		w.WriteFloat(float64(v))
		return nil
	case float64:
		w.WriteFloat(v)
		return nil
	case string:
		w.WriteString(v)
		return nil
	case []byte:
		w.WriteBytes(v)
		return nil
	case record.ObjectID:
		w.WriteID(v)
		return nil
	case record.Ref:
		w.WriteRef(v)
		return nil
	case []any:
		w.write('l', nil)
		for _, e := range v {
			if err := w.WriteAny(e); err != nil {
				return err
			}
		}
		w.write('e', nil)
		return nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		w.write('m', nil)
		for _, k := range keys {
			w.WriteString(k)
			if err := w.WriteAny(v[k]); err != nil {
				return err
			}
		}
		w.write('e', nil)
		return nil
	}

	return w.writeObject(v)
}

// writeObject feeds a non-primitive value to the hash via its equator.
func (w *Writer) writeObject(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			w.WriteNil()
			return nil
		}

		// A pointer that is already being hashed marks a cycle in the object
		// graph. Contribute a fixed marker instead of recursing forever.
		if _, ok := w.seen[v]; ok {
			w.write('c', nil)
			return nil
		}

		if w.seen == nil {
			w.seen = map[any]struct{}{}
		}
		w.seen[v] = struct{}{}
		defer delete(w.seen, v)
	}

	if w.equator != nil {
		if e, ok := w.equator.equatorFor(v); ok {
			return e.WriteHashables(v, w)
		}
	}

	return UnsupportedTypeError{
		Type: reflect.TypeOf(v),
	}
}

func (w *Writer) write(tag byte, data []byte) {
	w.hash.Write([]byte{tag})
	w.hash.Write(data)
	w.hash.Write([]byte{0})
}
