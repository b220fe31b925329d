// Package lineage is an object-versioning data store.
//
// It persists application objects into an archive while preserving full
// version history per object, reference identity between live objects and
// their persisted records, and graph structure between saved objects,
// including cycles.
package lineage
