package lineage

import (
	"context"

	"github.com/lineagekit/lineage/record"
)

// Copy persists an independent copy of obj and returns the new live
// instance.
//
// obj is saved first if necessary. The copy carries the same state but
// starts its own version chain at version zero; it shares no history with
// the original.
func (h *Historian) Copy(ctx context.Context, obj any) (any, error) {
	var cp any

	err := h.transact(ctx, func() error {
		r := &liveReferencer{ctx, h}

		rec, err := h.saveObject(ctx, obj, r)
		if err != nil {
			return err
		}

		a, err := h.registry.ByID(rec.TypeID())
		if err != nil {
			return err
		}

		copyRec := rec.CopyBuilder(h.arch.NewID()).Build()

		cp, err = h.createFrom(
			copyRec.State(),
			a,
			r,
			func(o any) {
				h.cache.insert(o, copyRec)
			},
		)
		if err != nil {
			return err
		}

		h.staged = append(h.staged, copyRec)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return cp, nil
}

// ObjectIDOf returns the version-chain ID of a live object known to this
// historian.
func (h *Historian) ObjectIDOf(obj any) (record.ObjectID, error) {
	rec, ok := h.cache.lookupRecord(obj)
	if !ok {
		return record.ObjectID{}, UnknownObjectError{}
	}

	return rec.ObjectID(), nil
}
