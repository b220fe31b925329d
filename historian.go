package lineage

import (
	"context"

	"github.com/dogmatiq/dodeca/logging"
	"github.com/lineagekit/lineage/archive"
	"github.com/lineagekit/lineage/hashing"
	"github.com/lineagekit/lineage/kind"
	"github.com/lineagekit/lineage/record"
	"go.uber.org/multierr"
)

// A Historian saves and loads application objects against an archive,
// versioning each object as its content changes.
//
// A historian is not safe for concurrent use; callers must serialize access
// to one instance or use one instance per goroutine. Multiple historians
// may share one archive.
type Historian struct {
	arch      archive.Archive
	registry  *kind.Registry
	equator   *hashing.Equator
	logger    logging.Logger
	createdIn record.ObjectID

	cache  identityCache
	staged archive.Batch
	depth  int
}

// New returns a historian that persists objects to a.
func New(a archive.Archive, options ...HistorianOption) (*Historian, error) {
	opts := resolveHistorianOptions(options...)

	h := &Historian{
		arch:      a,
		equator:   opts.Equator,
		logger:    opts.Logger,
		createdIn: opts.CreatedIn,
		cache:     newIdentityCache(),
	}

	h.registry = kind.NewRegistry(h.equator)

	// Attempt every registration so that a single configuration error
	// reports all incompatible types at once.
	var err error
	for _, t := range opts.Types {
		err = multierr.Append(err, h.Register(t))
	}
	if err != nil {
		return nil, err
	}

	return h, nil
}

// Register adds an application type to the historian's type registry.
//
// v is either a kind.Adapter, or a prototype instance of a type that
// implements kind.Savable. Registered types participate in content hashing
// and structural equality.
func (h *Historian) Register(v any) error {
	a, err := h.registry.Register(v)
	if err != nil {
		return err
	}

	logging.Debug(
		h.logger,
		"registered type '%s' for %s",
		a.TypeID(),
		a.ReflectType(),
	)

	return nil
}

// Hash returns the content hash of obj.
func (h *Historian) Hash(obj any) (string, error) {
	return h.equator.Hash(obj)
}

// Equal returns true if a and b are equal under their type's equality.
func (h *Historian) Equal(a, b any) bool {
	return h.equator.Equal(a, b)
}

// Forget releases the historian's identity-cache entries for obj.
//
// A forgotten object is treated as brand new on its next save, producing a
// fresh version chain. Loading any of its references produces a distinct
// instance.
func (h *Historian) Forget(obj any) {
	h.cache.evict(obj)

	logging.Debug(
		h.logger,
		"released identity-cache entries for an instance of %T",
		obj,
	)
}

// Meta returns the metadata mapping of an object.
//
// Metadata is keyed by object ID and shared by all versions of the object.
func (h *Historian) Meta(ctx context.Context, id record.ObjectID) (map[string]any, error) {
	return h.arch.Meta(ctx, id)
}

// SetMeta replaces the metadata mapping of an object.
func (h *Historian) SetMeta(ctx context.Context, id record.ObjectID, meta map[string]any) error {
	return h.arch.SetMeta(ctx, id, meta)
}

// CreatedIn returns the ID of the context object that created obj, if any
// was recorded when obj was first saved.
//
// obj may be a live object known to this historian, or a record.ObjectID.
func (h *Historian) CreatedIn(ctx context.Context, obj any) (record.ObjectID, bool, error) {
	if id, ok := obj.(record.ObjectID); ok {
		ref, err := h.latestRef(ctx, id)
		if err != nil {
			return record.ObjectID{}, false, err
		}

		rec, err := h.arch.Load(ctx, ref)
		if err != nil {
			return record.ObjectID{}, false, err
		}

		createdIn, ok := rec.CreatedIn()
		return createdIn, ok, nil
	}

	rec, ok := h.cache.lookupRecord(obj)
	if !ok {
		return record.ObjectID{}, false, UnknownObjectError{}
	}

	createdIn, ok := rec.CreatedIn()
	return createdIn, ok, nil
}
