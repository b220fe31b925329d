package lineage

import (
	"context"

	"github.com/lineagekit/lineage/archive"
	"github.com/lineagekit/lineage/record"
)

// Find returns the live objects whose latest saved state matches q.
//
// Query mechanics are delegated to the archive; each matching object is
// loaded with live semantics.
func (h *Historian) Find(ctx context.Context, q archive.FindRequest) ([]any, error) {
	var objects []any

	err := h.transact(ctx, func() error {
		recs, err := h.arch.Find(ctx, q)
		if err != nil {
			return err
		}

		r := &liveReferencer{ctx, h}

		for _, rec := range recs {
			obj, err := h.loadObject(ctx, rec.Ref(), r)
			if err != nil {
				return err
			}

			objects = append(objects, obj)
		}

		return nil
	})

	return objects, err
}

// Ref persists obj if necessary and returns a reference to its exact
// current snapshot.
func (h *Historian) Ref(ctx context.Context, obj any) (record.Ref, error) {
	var ref record.Ref

	err := h.transact(ctx, func() error {
		var err error
		ref, err = h.refObject(
			ctx,
			obj,
			&pinnedReferencer{ctx, h},
		)

		return err
	})

	return ref, err
}

// Deref returns the object that ref refers to, loading exactly that
// snapshot.
//
// It is shorthand for LoadSnapshot().
func (h *Historian) Deref(ctx context.Context, ref record.Ref) (any, error) {
	return h.LoadSnapshot(ctx, ref)
}
