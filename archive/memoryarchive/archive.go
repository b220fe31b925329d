package memoryarchive

import (
	"context"
	"sort"
	"sync"

	"github.com/lineagekit/lineage/archive"
	"github.com/lineagekit/lineage/record"
)

// Archive is an implementation of archive.Archive that stores records in
// memory.
//
// It is safe for concurrent use by multiple historians.
type Archive struct {
	m       sync.RWMutex
	records map[record.Ref]record.Record
	chains  map[record.ObjectID][]record.Ref
	meta    map[record.ObjectID]map[string]any
}

// New returns an empty in-memory archive.
func New() *Archive {
	return &Archive{
		records: map[record.Ref]record.Record{},
		chains:  map[record.ObjectID][]record.Ref{},
		meta:    map[record.ObjectID]map[string]any{},
	}
}

// NewID issues a new object ID.
func (a *Archive) NewID() record.ObjectID {
	return record.NewID()
}

// SaveMany appends a batch of records atomically.
func (a *Archive) SaveMany(_ context.Context, batch archive.Batch) error {
	batch.MustValidate()

	a.m.Lock()
	defer a.m.Unlock()

	// Validate the entire batch before applying any of it, so a rejection
	// leaves the archive untouched.
	next := map[record.ObjectID]uint64{}
	for id, chain := range a.chains {
		next[id] = uint64(len(chain))
	}

	for _, rec := range batch {
		n := next[rec.ObjectID()]

		if rec.Version() > n {
			return archive.VersionGapError{
				Ref:  rec.Ref(),
				Next: n,
			}
		}

		if rec.Version() == n {
			next[rec.ObjectID()] = n + 1
		}
	}

	for _, rec := range batch {
		ref := rec.Ref()

		if _, ok := a.records[ref]; !ok {
			a.chains[rec.ObjectID()] = append(a.chains[rec.ObjectID()], ref)
		}

		a.records[ref] = rec
	}

	return nil
}

// Load returns the record that ref refers to.
func (a *Archive) Load(_ context.Context, ref record.Ref) (record.Record, error) {
	a.m.RLock()
	defer a.m.RUnlock()

	rec, ok := a.records[ref]
	if !ok {
		return record.Record{}, archive.SnapshotNotFoundError{
			Ref: ref,
		}
	}

	return rec, nil
}

// History returns references to every version of an object, oldest first.
func (a *Archive) History(_ context.Context, id record.ObjectID) ([]record.Ref, error) {
	a.m.RLock()
	defer a.m.RUnlock()

	chain, ok := a.chains[id]
	if !ok {
		return nil, archive.ObjectNotFoundError{
			ObjectID: id,
		}
	}

	return append([]record.Ref(nil), chain...), nil
}

// Meta returns the metadata mapping of an object.
func (a *Archive) Meta(_ context.Context, id record.ObjectID) (map[string]any, error) {
	a.m.RLock()
	defer a.m.RUnlock()

	if _, ok := a.chains[id]; !ok {
		return nil, archive.ObjectNotFoundError{
			ObjectID: id,
		}
	}

	meta, ok := a.meta[id]
	if !ok {
		return nil, nil
	}

	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = v
	}

	return out, nil
}

// SetMeta replaces the metadata mapping of an object.
func (a *Archive) SetMeta(_ context.Context, id record.ObjectID, meta map[string]any) error {
	a.m.Lock()
	defer a.m.Unlock()

	if _, ok := a.chains[id]; !ok {
		return archive.ObjectNotFoundError{
			ObjectID: id,
		}
	}

	cp := make(map[string]any, len(meta))
	for k, v := range meta {
		cp[k] = v
	}

	a.meta[id] = cp

	return nil
}

// Find returns the latest record of each object matching q.
//
// Results are ordered by object ID so that repeated queries are
// deterministic.
func (a *Archive) Find(_ context.Context, q archive.FindRequest) ([]record.Record, error) {
	a.m.RLock()
	defer a.m.RUnlock()

	ids := make([]record.ObjectID, 0, len(a.chains))
	for id := range a.chains {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})

	var results []record.Record

	for _, id := range ids {
		chain := a.chains[id]
		rec := a.records[chain[len(chain)-1]]

		if q.TypeID != "" && rec.TypeID() != q.TypeID {
			continue
		}

		if !q.Criteria.Match(rec.State()) {
			continue
		}

		results = append(results, rec)

		if q.Limit > 0 && len(results) == q.Limit {
			break
		}
	}

	return results, nil
}
