package boltarchive

import (
	"context"

	"github.com/fxamacker/cbor/v2"
	"github.com/lineagekit/lineage/archive"
	"github.com/lineagekit/lineage/internal/x/bboltx"
	"github.com/lineagekit/lineage/record"
	"go.etcd.io/bbolt"
)

// Meta returns the metadata mapping of an object.
func (a *Archive) Meta(_ context.Context, id record.ObjectID) (meta map[string]any, err error) {
	defer bboltx.Recover(&err)

	bboltx.View(a.db, func(tx *bbolt.Tx) {
		b, ok := objectBucket(tx, id)
		if !ok {
			bboltx.Must(archive.ObjectNotFoundError{ObjectID: id})
		}

		data := b.Get(metaKey)
		if data == nil {
			return
		}

		meta, err = unmarshalMeta(data)
		bboltx.Must(err)
	})

	return meta, nil
}

// SetMeta replaces the metadata mapping of an object.
func (a *Archive) SetMeta(_ context.Context, id record.ObjectID, meta map[string]any) (err error) {
	defer bboltx.Recover(&err)

	bboltx.Update(a.db, func(tx *bbolt.Tx) {
		b, ok := objectBucket(tx, id)
		if !ok {
			bboltx.Must(archive.ObjectNotFoundError{ObjectID: id})
		}

		data, err := marshalMeta(meta)
		bboltx.Must(err)

		bboltx.Put(b, metaKey, data)
	})

	return nil
}

func marshalMeta(meta map[string]any) ([]byte, error) {
	wire, err := toWire(map[string]any(meta))
	if err != nil {
		return nil, err
	}

	return cbor.Marshal(wire)
}

func unmarshalMeta(data []byte) (map[string]any, error) {
	var wire any
	if err := cbor.Unmarshal(data, &wire); err != nil {
		return nil, err
	}

	meta, err := fromWire(wire)
	if err != nil {
		return nil, err
	}

	return meta.(map[string]any), nil
}
