package lineage

import (
	"context"

	"github.com/dogmatiq/dodeca/logging"
	"github.com/lineagekit/lineage/archive"
	"github.com/lineagekit/lineage/kind"
	"github.com/lineagekit/lineage/record"
)

// Save persists obj and returns the ID of its version chain.
//
// If obj has never been saved, a new version chain is started at version
// zero. If obj has been saved before and its content has changed, its next
// version is written. If its content is unchanged, no new version is
// written and the existing chain ID is returned.
//
// Nested references within obj are resolved with live semantics: loading
// them later yields the latest version of each nested object.
func (h *Historian) Save(ctx context.Context, obj any) (record.ObjectID, error) {
	var id record.ObjectID

	err := h.transact(ctx, func() error {
		rec, err := h.saveObject(
			ctx,
			obj,
			&liveReferencer{ctx, h},
		)
		if err != nil {
			return err
		}

		id = rec.ObjectID()

		return nil
	})

	return id, err
}

// SaveWithMeta persists obj and attaches meta to its version chain in one
// call.
//
// It is equivalent to Save() followed by SetMeta().
func (h *Historian) SaveWithMeta(
	ctx context.Context,
	obj any,
	meta map[string]any,
) (record.ObjectID, error) {
	id, err := h.Save(ctx, obj)
	if err != nil {
		return record.ObjectID{}, err
	}

	if err := h.arch.SetMeta(ctx, id, meta); err != nil {
		return record.ObjectID{}, err
	}

	return id, nil
}

// SaveAs persists obj under a specific version chain ID, regardless of any
// identity obj currently holds.
//
// If the chain already exists, obj becomes its next version, and any other
// live object currently associated with the chain is evicted from the
// identity cache. If the chain does not exist, it is started at version
// zero under id.
func (h *Historian) SaveAs(
	ctx context.Context,
	obj any,
	id record.ObjectID,
) (record.ObjectID, error) {
	err := h.transact(ctx, func() error {
		// Drop whatever identity obj holds now; it is being reassigned.
		h.cache.evict(obj)

		for o, rec := range h.cache.records {
			if rec.ObjectID() == id {
				h.cache.evict(o)
				break
			}
		}

		r := &liveReferencer{ctx, h}

		ref, err := h.latestRef(ctx, id)
		if err != nil {
			if !archive.IsNotFound(err) {
				return err
			}

			// The chain does not exist yet; start it at version zero under
			// the requested ID.
			a, err := h.registry.ByInstance(obj)
			if err != nil {
				return err
			}

			hash, err := h.equator.Hash(obj)
			if err != nil {
				return err
			}

			_, err = h.twoStepSave(
				ctx,
				obj,
				a,
				record.Builder{
					TypeID:    a.TypeID(),
					ObjectID:  id,
					CreatedIn: h.createdIn,
					Hash:      hash,
				},
				r,
			)

			return err
		}

		prev, err := h.arch.Load(ctx, ref)
		if err != nil {
			return err
		}

		// Adopt the chain's latest record as obj's prior record, so that
		// the ordinary save path versions obj on top of it.
		h.cache.records[obj] = prev
		h.cache.byRef[prev.Ref()] = obj

		_, err = h.saveObject(ctx, obj, r)
		return err
	})
	if err != nil {
		return record.ObjectID{}, err
	}

	return id, nil
}

// SaveSnapshot persists obj and returns a reference to the exact snapshot
// written (or reused).
//
// Nested references within obj are resolved with pinned semantics: the
// snapshot is reproducible regardless of later mutation of the nested
// objects.
func (h *Historian) SaveSnapshot(ctx context.Context, obj any) (record.Ref, error) {
	var ref record.Ref

	err := h.transact(ctx, func() error {
		rec, err := h.saveObject(
			ctx,
			obj,
			&pinnedReferencer{ctx, h},
		)
		if err != nil {
			return err
		}

		ref = rec.Ref()

		return nil
	})

	return ref, err
}

// saveObject persists obj if necessary and returns its current record.
//
// An object already saved or loaded within the current outermost
// transaction is returned as-is. An unchanged object keeps its existing
// record; the speculative reload used to verify that is rolled back.
func (h *Historian) saveObject(
	ctx context.Context,
	obj any,
	r Referencer,
) (record.Record, error) {
	if _, ok := h.cache.lookupFresh(obj); ok {
		rec, _ := h.cache.lookupRecord(obj)
		return rec, nil
	}

	a, err := h.registry.ByInstance(obj)
	if err != nil {
		return record.Record{}, err
	}

	hash, err := h.equator.Hash(obj)
	if err != nil {
		return record.Record{}, err
	}

	prev, ok := h.cache.lookupRecord(obj)
	if !ok {
		return h.twoStepSave(
			ctx,
			obj,
			a,
			record.Builder{
				TypeID:    a.TypeID(),
				ObjectID:  h.arch.NewID(),
				CreatedIn: h.createdIn,
				Hash:      hash,
			},
			r,
		)
	}

	if hash == prev.Hash() {
		unchanged := false

		err := h.transact(ctx, func() error {
			loaded, err := h.twoStepLoad(ctx, prev, r)
			if err != nil {
				return err
			}

			unchanged = h.equator.Equal(obj, loaded)

			// The reload existed only for the comparison; discard it either
			// way so that obj remains the live instance for its reference.
			return errRollback
		})
		if err != nil {
			return record.Record{}, err
		}

		if unchanged {
			logging.Debug(
				h.logger,
				"reusing %s, content is unchanged",
				prev.Ref(),
			)

			h.cache.insert(obj, prev)

			return prev, nil
		}
	}

	b := prev.ChildBuilder()
	b.TypeID = a.TypeID()
	b.Hash = hash

	return h.twoStepSave(ctx, obj, a, b, r)
}

// twoStepSave stages a record for obj using two-phase persistence.
//
// The record's reference is published in the identity cache before obj's
// state is encoded, so that the state may refer back to obj itself, or to
// other objects that in turn refer to obj.
func (h *Historian) twoStepSave(
	ctx context.Context,
	obj any,
	a kind.Adapter,
	b record.Builder,
	r Referencer,
) (record.Record, error) {
	var rec record.Record

	err := h.transact(ctx, func() error {
		h.cache.fresh[obj] = b.Ref()
		h.cache.byRef[b.Ref()] = obj

		state, err := a.SaveState(obj, r)
		if err != nil {
			return err
		}

		enc, err := h.encode(state, r)
		if err != nil {
			return err
		}

		b.State = enc
		rec = b.Build()

		h.cache.records[obj] = rec
		h.staged = append(h.staged, rec)

		logging.Debug(
			h.logger,
			"staged %s as '%s'",
			rec.Ref(),
			rec.TypeID(),
		)

		return nil
	})

	return rec, err
}
