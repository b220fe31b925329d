package lineage

import (
	"github.com/lineagekit/lineage/record"
)

// Keys of the mapping used to mark an encoded application object within a
// state tree. They are reserved; application state mappings must not use
// them.
const (
	typeIDKey = "$type"
	stateKey  = "$state"
)

// encode converts a value into an encoded state tree.
//
// Primitives pass through unchanged; lists and mappings are encoded
// element-wise. Any other value is encoded as a marker mapping containing
// its adapter's type ID and its recursively-encoded state, so nested
// application objects are encoded to arbitrary depth.
//
// r is the referencer threaded through the save operation in progress; it
// is handed to adapters so that they can convert live references.
func (h *Historian) encode(v any, r Referencer) (any, error) {
	switch v := v.(type) {
	case nil, bool, int64, float64, string, []byte, record.ObjectID, record.Ref:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case float32:
		return float64(v), nil
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			enc, err := h.encode(e, r)
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			enc, err := h.encode(e, r)
			if err != nil {
				return nil, err
			}
			out[k] = enc
		}
		return out, nil
	}

	a, err := h.registry.ByInstance(v)
	if err != nil {
		return nil, err
	}

	state, err := a.SaveState(v, r)
	if err != nil {
		return nil, err
	}

	enc, err := h.encode(state, r)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		typeIDKey: string(a.TypeID()),
		stateKey:  enc,
	}, nil
}
