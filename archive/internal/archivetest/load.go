package archivetest

import (
	"context"

	"github.com/google/go-cmp/cmp"
	"github.com/lineagekit/lineage/archive"
	"github.com/lineagekit/lineage/record"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func declareLoadTests(
	ctx *context.Context,
	arch *archive.Archive,
) {
	ginkgo.Describe("func Load()", func() {
		ginkgo.It("round-trips every part of a record", func() {
			id := (*arch).NewID()
			other := (*arch).NewID()

			state := map[string]any{
				"string": "value",
				"int":    int64(-42),
				"float":  1.5,
				"bool":   true,
				"bytes":  []byte{0xde, 0xad},
				"nil":    nil,
				"list":   []any{int64(1), "two", false},
				"nested": map[string]any{"k": "v"},
				"ref":    record.Ref{ObjectID: other, Version: 3},
				"id":     other,
			}

			in := record.Builder{
				TypeID:    "archivetest.widget",
				ObjectID:  id,
				Version:   0,
				CreatedIn: other,
				Hash:      "deadbeef",
				State:     state,
			}.Build()

			err := (*arch).SaveMany(*ctx, archive.Batch{in})
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

			out, err := (*arch).Load(*ctx, in.Ref())
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

			gomega.Expect(out.TypeID()).To(gomega.Equal(in.TypeID()))
			gomega.Expect(out.ObjectID()).To(gomega.Equal(id))
			gomega.Expect(out.Version()).To(gomega.BeEquivalentTo(0))
			gomega.Expect(out.Hash()).To(gomega.Equal("deadbeef"))
			gomega.Expect(cmp.Diff(state, out.State())).To(gomega.BeEmpty())

			createdIn, ok := out.CreatedIn()
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(createdIn).To(gomega.Equal(other))
		})

		ginkgo.It("returns an error if the snapshot does not exist", func() {
			ref := record.Ref{
				ObjectID: (*arch).NewID(),
				Version:  0,
			}

			_, err := (*arch).Load(*ctx, ref)
			gomega.Expect(archive.IsNotFound(err)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("func History()", func() {
		ginkgo.It("returns references to every version, oldest first", func() {
			id := (*arch).NewID()

			err := (*arch).SaveMany(
				*ctx,
				archive.Batch{
					newRecord(id, 0, map[string]any{"n": int64(0)}),
					newRecord(id, 1, map[string]any{"n": int64(1)}),
					newRecord(id, 2, map[string]any{"n": int64(2)}),
				},
			)
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

			refs, err := (*arch).History(*ctx, id)
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
			gomega.Expect(refs).To(gomega.Equal(
				[]record.Ref{
					{ObjectID: id, Version: 0},
					{ObjectID: id, Version: 1},
					{ObjectID: id, Version: 2},
				},
			))
		})

		ginkgo.It("returns an error if the object has never been saved", func() {
			_, err := (*arch).History(*ctx, (*arch).NewID())
			gomega.Expect(archive.IsNotFound(err)).To(gomega.BeTrue())
		})
	})
}
