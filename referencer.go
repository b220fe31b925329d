package lineage

import (
	"context"
	"reflect"

	"github.com/lineagekit/lineage/kind"
	"github.com/lineagekit/lineage/record"
)

// A Referencer is the strategy used to turn live object references into
// persisted references and back during one save or load operation.
//
// Every encode and decode call within an operation is threaded through a
// single referencer, so nested objects are resolved with one consistent
// policy.
type Referencer interface {
	kind.Saver
	kind.Loader
}

// pinnedReferencer resolves references to the exact version they name.
//
// It is used by snapshot operations and history replay, guaranteeing that a
// snapshot is reproducible regardless of later mutation.
type pinnedReferencer struct {
	ctx       context.Context
	historian *Historian
}

func (r *pinnedReferencer) Ref(obj any) (record.Ref, error) {
	return r.historian.refObject(r.ctx, obj, r)
}

func (r *pinnedReferencer) Deref(ref record.Ref) (any, error) {
	if ref.IsZero() {
		return nil, nil
	}

	return r.historian.loadObject(r.ctx, ref, r)
}

// liveReferencer resolves references to the latest version of the object
// they name, ignoring the stored version.
//
// It is used by ordinary save and load operations, so navigating an object
// graph always reaches the freshest state of every nested object, matching
// in-memory mutation semantics.
type liveReferencer struct {
	ctx       context.Context
	historian *Historian
}

func (r *liveReferencer) Ref(obj any) (record.Ref, error) {
	return r.historian.refObject(r.ctx, obj, r)
}

func (r *liveReferencer) Deref(ref record.Ref) (any, error) {
	if ref.IsZero() {
		return nil, nil
	}

	// An object saved or loaded within the current outermost transaction is
	// the latest version of its chain, even if its record is staged but not
	// yet flushed, in which case the archive can not resolve it at all.
	if obj, ok := r.historian.cache.findFreshChain(ref.ObjectID); ok {
		return obj, nil
	}

	latest, err := r.historian.latestRef(r.ctx, ref.ObjectID)
	if err != nil {
		return nil, err
	}

	return r.historian.loadObject(r.ctx, latest, r)
}

// refObject persists obj if necessary and returns a reference to it.
//
// An object already saved or loaded within the current outermost
// transaction resolves to its cached reference immediately; in particular,
// this lets an object under construction or mid-save refer back to itself.
func (h *Historian) refObject(ctx context.Context, obj any, r Referencer) (record.Ref, error) {
	if obj == nil {
		return record.Ref{}, nil
	}

	if rv := reflect.ValueOf(obj); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return record.Ref{}, nil
	}

	if ref, ok := h.cache.lookupFresh(obj); ok {
		return ref, nil
	}

	rec, err := h.saveObject(ctx, obj, r)
	if err != nil {
		return record.Ref{}, err
	}

	return rec.Ref(), nil
}
