package archivetest

import (
	"github.com/lineagekit/lineage/record"
)

// newRecord builds a record for use in tests.
func newRecord(
	id record.ObjectID,
	version uint64,
	state any,
) record.Record {
	return record.Builder{
		TypeID:   "archivetest.widget",
		ObjectID: id,
		Version:  version,
		Hash:     "d41d8cd98f00b204",
		State:    state,
	}.Build()
}
