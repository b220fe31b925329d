package archive

import (
	"fmt"

	"github.com/lineagekit/lineage/record"
)

// Batch is a set of records that are appended to the archive atomically.
type Batch []record.Record

// MustValidate panics if the batch contains multiple records for the same
// reference.
//
// Such a batch indicates incorrect staging by the caller rather than a
// runtime failure.
func (b Batch) MustValidate() {
	for i, x := range b {
		for _, y := range b[i+1:] {
			if x.Ref() == y.Ref() {
				panic(fmt.Sprintf(
					"batch contains multiple records for the same reference (%s)",
					x.Ref(),
				))
			}
		}
	}
}
