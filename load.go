package lineage

import (
	"context"

	"github.com/dogmatiq/dodeca/logging"
	"github.com/lineagekit/lineage/archive"
	"github.com/lineagekit/lineage/record"
)

// Load returns the latest version of the object identified by id.
//
// Nested references are resolved with live semantics, so the whole loaded
// graph reflects the freshest saved state of every object in it.
//
// If this historian already holds a live instance matching the latest
// version, that instance is returned, so repeated loads converge on one
// instance.
func (h *Historian) Load(ctx context.Context, id record.ObjectID) (any, error) {
	var obj any

	err := h.transact(ctx, func() error {
		ref, err := h.latestRef(ctx, id)
		if err != nil {
			return err
		}

		obj, err = h.loadObject(
			ctx,
			ref,
			&liveReferencer{ctx, h},
		)

		return err
	})

	return obj, err
}

// LoadSnapshot returns the object state captured by the exact snapshot that
// ref identifies.
//
// Nested references are resolved with pinned semantics, so the result is
// reproducible regardless of mutation after the snapshot was taken.
func (h *Historian) LoadSnapshot(ctx context.Context, ref record.Ref) (any, error) {
	var obj any

	err := h.transact(ctx, func() error {
		var err error
		obj, err = h.loadObject(
			ctx,
			ref,
			&pinnedReferencer{ctx, h},
		)

		return err
	})

	return obj, err
}

// loadObject returns the live object for an exact reference, decoding its
// record if necessary.
//
// If a live instance already exists for ref, the record is decoded anyway
// and compared against it; an identical result is discarded in favor of the
// existing instance, preserving object identity for callers that hold it.
// A divergent result replaces the existing instance.
func (h *Historian) loadObject(
	ctx context.Context,
	ref record.Ref,
	r Referencer,
) (any, error) {
	if obj, ok := h.cache.findFresh(ref); ok {
		return obj, nil
	}

	rec, err := h.arch.Load(ctx, ref)
	if err != nil {
		return nil, err
	}

	cached, ok := h.cache.lookupByRef(ref)
	if !ok {
		return h.twoStepLoad(ctx, rec, r)
	}

	obj := cached

	err = h.transact(ctx, func() error {
		loaded, err := h.twoStepLoad(ctx, rec, r)
		if err != nil {
			return err
		}

		cachedHash, err := h.equator.Hash(cached)
		if err != nil {
			return err
		}

		if cachedHash == rec.Hash() && h.equator.Equal(cached, loaded) {
			logging.Debug(
				h.logger,
				"keeping the live instance for %s, it matches the snapshot",
				ref,
			)

			// Discard the reload; restoring the checkpoint re-associates
			// ref with the cached instance.
			return errRollback
		}

		obj = loaded

		return nil
	})
	if err != nil {
		return nil, err
	}

	if obj == cached {
		// The instance is confirmed up to date with rec; record that.
		h.cache.insert(cached, rec)
	}

	return obj, nil
}

// twoStepLoad decodes rec into a new live object using two-phase
// construction.
//
// The blank instance is published in the identity cache before its state is
// decoded, so that cyclic references back to the instance under
// construction resolve to it.
func (h *Historian) twoStepLoad(
	ctx context.Context,
	rec record.Record,
	r Referencer,
) (any, error) {
	a, err := h.registry.ByID(rec.TypeID())
	if err != nil {
		return nil, err
	}

	var obj any

	err = h.transact(ctx, func() error {
		obj, err = h.createFrom(
			rec.State(),
			a,
			r,
			func(o any) {
				h.cache.insert(o, rec)
			},
		)

		return err
	})

	return obj, err
}

// latestRef returns the reference of the most recent version of id.
func (h *Historian) latestRef(ctx context.Context, id record.ObjectID) (record.Ref, error) {
	refs, err := h.arch.History(ctx, id)
	if err != nil {
		return record.Ref{}, err
	}

	// Archives report unknown objects with an error, but tolerate one that
	// reports an empty chain instead.
	if len(refs) == 0 {
		return record.Ref{}, archive.ObjectNotFoundError{ObjectID: id}
	}

	return refs[len(refs)-1], nil
}
