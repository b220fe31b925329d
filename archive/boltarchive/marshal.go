package boltarchive

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
	"github.com/lineagekit/lineage/internal/x/bboltx"
	"github.com/lineagekit/lineage/record"
)

// Reserved keys used to represent reference values within a CBOR state
// tree, which otherwise carries only primitives, lists and mappings.
const (
	refMarkerKey = "$ref"
	idMarkerKey  = "$oid"
)

// packet is the CBOR representation of a record.
//
// The object ID and version are not part of the packet; they are recovered
// from the record's location within the database.
type packet struct {
	TypeID    string `cbor:"1,keyasint"`
	CreatedIn []byte `cbor:"2,keyasint,omitempty"`
	Hash      string `cbor:"3,keyasint"`
	State     any    `cbor:"4,keyasint,omitempty"`
}

// marshalRecord marshals a record to its binary representation.
func marshalRecord(rec record.Record) ([]byte, error) {
	state, err := toWire(rec.State())
	if err != nil {
		return nil, err
	}

	p := packet{
		TypeID: string(rec.TypeID()),
		Hash:   rec.Hash(),
		State:  state,
	}

	if createdIn, ok := rec.CreatedIn(); ok {
		p.CreatedIn, err = createdIn.MarshalBinary()
		if err != nil {
			return nil, err
		}
	}

	return cbor.Marshal(p)
}

// unmarshalRecord unmarshals a record from its binary representation.
func unmarshalRecord(ref record.Ref, data []byte) (record.Record, error) {
	var p packet
	if err := cbor.Unmarshal(data, &p); err != nil {
		return record.Record{}, err
	}

	state, err := fromWire(p.State)
	if err != nil {
		return record.Record{}, err
	}

	b := record.Builder{
		TypeID:   record.TypeID(p.TypeID),
		ObjectID: ref.ObjectID,
		Version:  ref.Version,
		Hash:     p.Hash,
		State:    state,
	}

	if p.CreatedIn != nil {
		if err := b.CreatedIn.UnmarshalBinary(p.CreatedIn); err != nil {
			return record.Record{}, err
		}
	}

	return b.Build(), nil
}

// toWire rewrites a state tree for CBOR marshaling, replacing reference
// values with marker mappings.
func toWire(v any) (any, error) {
	switch v := v.(type) {
	case nil, bool, int64, float64, string, []byte:
		return v, nil
	case record.ObjectID:
		data, err := v.MarshalBinary()
		if err != nil {
			return nil, err
		}
		return map[string]any{idMarkerKey: data}, nil
	case record.Ref:
		data, err := v.ObjectID.MarshalBinary()
		if err != nil {
			return nil, err
		}
		return map[string]any{refMarkerKey: []any{data, v.Version}}, nil
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			w, err := toWire(e)
			if err != nil {
				return nil, err
			}
			out[i] = w
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			w, err := toWire(e)
			if err != nil {
				return nil, err
			}
			out[k] = w
		}
		return out, nil
	}

	return nil, fmt.Errorf("state contains unmarshalable value of type %T", v)
}

// fromWire rewrites an unmarshaled CBOR tree back into a state tree,
// resolving marker mappings and normalizing numbers and map keys.
func fromWire(v any) (any, error) {
	switch v := v.(type) {
	case nil, bool, int64, float64, string, []byte:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, fmt.Errorf("state contains out-of-range integer %d", v)
		}
		return int64(v), nil
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			d, err := fromWire(e)
			if err != nil {
				return nil, err
			}
			out[i] = d
		}
		return out, nil
	case map[any]any:
		return mappingFromWire(v)
	}

	return nil, fmt.Errorf("state contains unmarshalable value of type %T", v)
}

func mappingFromWire(m map[any]any) (any, error) {
	if len(m) == 1 {
		if data, ok := m[idMarkerKey]; ok {
			var id record.ObjectID
			if err := id.UnmarshalBinary(data.([]byte)); err != nil {
				return nil, err
			}
			return id, nil
		}

		if pair, ok := m[refMarkerKey]; ok {
			return refFromWire(pair)
		}
	}

	out := make(map[string]any, len(m))

	for k, e := range m {
		s, ok := k.(string)
		if !ok {
			return nil, fmt.Errorf("state contains a non-string mapping key of type %T", k)
		}

		d, err := fromWire(e)
		if err != nil {
			return nil, err
		}

		out[s] = d
	}

	return out, nil
}

func refFromWire(v any) (record.Ref, error) {
	pair, ok := v.([]any)
	if !ok || len(pair) != 2 {
		return record.Ref{}, fmt.Errorf("state contains a malformed reference marker")
	}

	var ref record.Ref
	if err := ref.ObjectID.UnmarshalBinary(pair[0].([]byte)); err != nil {
		return record.Ref{}, err
	}

	switch n := pair[1].(type) {
	case uint64:
		ref.Version = n
	case int64:
		ref.Version = uint64(n)
	default:
		return record.Ref{}, fmt.Errorf("state contains a malformed reference version of type %T", n)
	}

	return ref, nil
}

// marshalUint64 marshals a uint64 to its binary representation.
func marshalUint64(v uint64) []byte {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, v)
	return data
}

// unmarshalUint64 unmarshals a uint64 from its binary representation.
func unmarshalUint64(data []byte) uint64 {
	n := len(data)
	if n != 8 {
		bboltx.Must(fmt.Errorf("data is corrupt, expected 8 bytes, got %d", n))
	}

	return binary.BigEndian.Uint64(data)
}
