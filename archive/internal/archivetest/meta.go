package archivetest

import (
	"context"

	"github.com/lineagekit/lineage/archive"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func declareMetaTests(
	ctx *context.Context,
	arch *archive.Archive,
) {
	ginkgo.Describe("func Meta() and SetMeta()", func() {
		ginkgo.It("round-trips a metadata mapping", func() {
			id := (*arch).NewID()

			err := (*arch).SaveMany(
				*ctx,
				archive.Batch{
					newRecord(id, 0, nil),
				},
			)
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

			meta := map[string]any{
				"owner": "alice",
				"rank":  int64(3),
			}

			err = (*arch).SetMeta(*ctx, id, meta)
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

			out, err := (*arch).Meta(*ctx, id)
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
			gomega.Expect(out).To(gomega.Equal(meta))
		})

		ginkgo.It("returns a nil mapping if the object has no metadata", func() {
			id := (*arch).NewID()

			err := (*arch).SaveMany(
				*ctx,
				archive.Batch{
					newRecord(id, 0, nil),
				},
			)
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

			out, err := (*arch).Meta(*ctx, id)
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
			gomega.Expect(out).To(gomega.BeNil())
		})

		ginkgo.It("shares metadata across all versions of the object", func() {
			id := (*arch).NewID()

			err := (*arch).SaveMany(
				*ctx,
				archive.Batch{
					newRecord(id, 0, nil),
				},
			)
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

			err = (*arch).SetMeta(*ctx, id, map[string]any{"owner": "alice"})
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

			err = (*arch).SaveMany(
				*ctx,
				archive.Batch{
					newRecord(id, 1, nil),
				},
			)
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

			out, err := (*arch).Meta(*ctx, id)
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
			gomega.Expect(out).To(gomega.Equal(map[string]any{"owner": "alice"}))
		})

		ginkgo.It("returns an error if the object has never been saved", func() {
			id := (*arch).NewID()

			_, err := (*arch).Meta(*ctx, id)
			gomega.Expect(archive.IsNotFound(err)).To(gomega.BeTrue())

			err = (*arch).SetMeta(*ctx, id, map[string]any{"k": "v"})
			gomega.Expect(archive.IsNotFound(err)).To(gomega.BeTrue())
		})
	})
}
