package lineage

import (
	"github.com/lineagekit/lineage/kind"
	"github.com/lineagekit/lineage/record"
)

// decode reconstructs a value from an encoded state tree.
//
// A mapping carrying the type-ID marker key is an encoded application
// object and is routed through createFrom; plain mappings and lists are
// decoded element-wise; primitives pass through unchanged. Any other shape
// fails with an InvalidStateError.
func (h *Historian) decode(enc any, r Referencer) (any, error) {
	switch enc := enc.(type) {
	case nil, bool, int64, float64, string, []byte, record.ObjectID, record.Ref:
		return enc, nil
	case []any:
		out := make([]any, len(enc))
		for i, e := range enc {
			dec, err := h.decode(e, r)
			if err != nil {
				return nil, err
			}
			out[i] = dec
		}
		return out, nil
	case map[string]any:
		if id, ok := enc[typeIDKey]; ok {
			typeID, ok := id.(string)
			if !ok {
				return nil, InvalidStateError{
					Value: id,
				}
			}

			a, err := h.registry.ByID(record.TypeID(typeID))
			if err != nil {
				return nil, err
			}

			return h.createFrom(enc[stateKey], a, r, nil)
		}

		out := make(map[string]any, len(enc))
		for k, e := range enc {
			dec, err := h.decode(e, r)
			if err != nil {
				return nil, err
			}
			out[k] = dec
		}
		return out, nil
	}

	return nil, InvalidStateError{
		Value: enc,
	}
}

// createFrom reconstructs an application object from its encoded state
// using two-phase construction.
//
// A blank instance is obtained first and handed to onNew, which typically
// publishes it in the identity cache, before any of its state is decoded.
// Decoding may therefore encounter a reference back to the instance under
// construction and resolve it correctly. The instance must not be inspected
// until createFrom returns.
func (h *Historian) createFrom(
	enc any,
	a kind.Adapter,
	r Referencer,
	onNew func(obj any),
) (any, error) {
	obj := a.New(enc)

	if onNew != nil {
		onNew(obj)
	}

	state, err := h.decode(enc, r)
	if err != nil {
		return nil, err
	}

	if err := a.LoadState(obj, state, r); err != nil {
		return nil, err
	}

	return obj, nil
}
