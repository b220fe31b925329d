package lineage

import "github.com/lineagekit/lineage/record"

// identityCache is the set of coordinated lookup tables that give
// live-object / record / reference correspondence.
//
// All three tables key or value on object identity: live objects are
// pointers, and two entries are the same object only if they are the same
// pointer.
type identityCache struct {
	// fresh maps live objects that are known to be up to date to their
	// reference. Entries are valid only for the currently executing
	// outermost transaction; the table is cleared in full when that
	// transaction completes.
	fresh map[any]record.Ref

	// records maps live objects to their current record, surviving across
	// transactions. It is consulted to find the previous record when a
	// changed object needs a new version.
	records map[any]record.Record

	// byRef maps references to the live object loaded or saved for them,
	// letting repeated loads of one reference converge on one instance.
	byRef map[record.Ref]any
}

func newIdentityCache() identityCache {
	return identityCache{
		fresh:   map[any]record.Ref{},
		records: map[any]record.Record{},
		byRef:   map[record.Ref]any{},
	}
}

// insert populates all three tables for obj at once.
func (c *identityCache) insert(obj any, rec record.Record) {
	ref := rec.Ref()

	c.fresh[obj] = ref
	c.records[obj] = rec
	c.byRef[ref] = obj
}

// lookupFresh returns the reference of obj, if obj has been saved or loaded
// within the current outermost transaction.
func (c *identityCache) lookupFresh(obj any) (record.Ref, bool) {
	ref, ok := c.fresh[obj]
	return ref, ok
}

// findFresh returns the live object that is known to be up to date for an
// exact reference, if any.
func (c *identityCache) findFresh(ref record.Ref) (any, bool) {
	for obj, r := range c.fresh {
		if r == ref {
			return obj, true
		}
	}

	return nil, false
}

// findFreshChain returns the live object that is known to be up to date for
// a version chain, if any object on that chain has been saved or loaded
// within the current outermost transaction.
//
// Such an object is by definition the chain's latest version, even when its
// record is staged but not yet flushed to the archive.
func (c *identityCache) findFreshChain(id record.ObjectID) (any, bool) {
	for obj, r := range c.fresh {
		if r.ObjectID == id {
			return obj, true
		}
	}

	return nil, false
}

// lookupRecord returns the current record of obj, if it has one.
func (c *identityCache) lookupRecord(obj any) (record.Record, bool) {
	rec, ok := c.records[obj]
	return rec, ok
}

// lookupByRef returns the live object previously loaded or saved for ref,
// if any.
func (c *identityCache) lookupByRef(ref record.Ref) (any, bool) {
	obj, ok := c.byRef[ref]
	return obj, ok
}

// evict removes every entry that refers to obj.
func (c *identityCache) evict(obj any) {
	delete(c.fresh, obj)
	delete(c.records, obj)

	for ref, o := range c.byRef {
		if o == obj {
			delete(c.byRef, ref)
		}
	}
}

// clearFresh discards the fresh table in full, forcing a staleness check on
// the next operation touching any object.
func (c *identityCache) clearFresh() {
	c.fresh = map[any]record.Ref{}
}

// checkpoint captures a restorable snapshot of all three tables.
func (c *identityCache) checkpoint() cacheCheckpoint {
	cp := cacheCheckpoint{
		fresh:   make(map[any]record.Ref, len(c.fresh)),
		records: make(map[any]record.Record, len(c.records)),
		byRef:   make(map[record.Ref]any, len(c.byRef)),
	}

	for k, v := range c.fresh {
		cp.fresh[k] = v
	}
	for k, v := range c.records {
		cp.records[k] = v
	}
	for k, v := range c.byRef {
		cp.byRef[k] = v
	}

	return cp
}

// restore rolls all three tables back to a checkpoint.
func (c *identityCache) restore(cp cacheCheckpoint) {
	c.fresh = cp.fresh
	c.records = cp.records
	c.byRef = cp.byRef
}

// cacheCheckpoint is a snapshot of the identity cache taken when a
// transaction begins.
type cacheCheckpoint struct {
	fresh   map[any]record.Ref
	records map[any]record.Record
	byRef   map[record.Ref]any
}
