package archivetest

import (
	"context"
	"errors"

	"github.com/lineagekit/lineage/archive"
	"github.com/lineagekit/lineage/record"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func declareSaveTests(
	ctx *context.Context,
	arch *archive.Archive,
) {
	ginkgo.Describe("func NewID()", func() {
		ginkgo.It("returns distinct non-zero IDs", func() {
			id1 := (*arch).NewID()
			id2 := (*arch).NewID()

			gomega.Expect(id1.IsZero()).To(gomega.BeFalse())
			gomega.Expect(id2.IsZero()).To(gomega.BeFalse())
			gomega.Expect(id1).ToNot(gomega.Equal(id2))
		})
	})

	ginkgo.Describe("func SaveMany()", func() {
		ginkgo.It("persists every record in the batch", func() {
			id1 := (*arch).NewID()
			id2 := (*arch).NewID()

			err := (*arch).SaveMany(
				*ctx,
				archive.Batch{
					newRecord(id1, 0, map[string]any{"n": int64(1)}),
					newRecord(id2, 0, map[string]any{"n": int64(2)}),
				},
			)
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

			rec, err := (*arch).Load(*ctx, record.Ref{ObjectID: id1, Version: 0})
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
			gomega.Expect(rec.State()).To(gomega.Equal(map[string]any{"n": int64(1)}))

			rec, err = (*arch).Load(*ctx, record.Ref{ObjectID: id2, Version: 0})
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
			gomega.Expect(rec.State()).To(gomega.Equal(map[string]any{"n": int64(2)}))
		})

		ginkgo.It("persists consecutive versions within one batch", func() {
			id := (*arch).NewID()

			err := (*arch).SaveMany(
				*ctx,
				archive.Batch{
					newRecord(id, 0, map[string]any{"n": int64(1)}),
					newRecord(id, 1, map[string]any{"n": int64(2)}),
				},
			)
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

			refs, err := (*arch).History(*ctx, id)
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
			gomega.Expect(refs).To(gomega.HaveLen(2))
		})

		ginkgo.It("replaces the stored record when a reference is saved again", func() {
			id := (*arch).NewID()
			ref := record.Ref{ObjectID: id, Version: 0}

			err := (*arch).SaveMany(
				*ctx,
				archive.Batch{
					newRecord(id, 0, map[string]any{"n": int64(1)}),
				},
			)
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

			err = (*arch).SaveMany(
				*ctx,
				archive.Batch{
					newRecord(id, 0, map[string]any{"n": int64(2)}),
				},
			)
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

			rec, err := (*arch).Load(*ctx, ref)
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
			gomega.Expect(rec.State()).To(gomega.Equal(map[string]any{"n": int64(2)}))

			refs, err := (*arch).History(*ctx, id)
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
			gomega.Expect(refs).To(gomega.Equal([]record.Ref{ref}))
		})

		ginkgo.It("rejects a record that would leave a gap in the version chain", func() {
			id := (*arch).NewID()

			err := (*arch).SaveMany(
				*ctx,
				archive.Batch{
					newRecord(id, 1, map[string]any{"n": int64(1)}),
				},
			)

			var gap archive.VersionGapError
			gomega.Expect(errors.As(err, &gap)).To(gomega.BeTrue())
			gomega.Expect(gap.Ref).To(gomega.Equal(record.Ref{ObjectID: id, Version: 1}))
			gomega.Expect(gap.Next).To(gomega.BeEquivalentTo(0))
		})

		ginkgo.It("rejects the entire batch if any record is invalid", func() {
			okID := (*arch).NewID()
			gapID := (*arch).NewID()

			err := (*arch).SaveMany(
				*ctx,
				archive.Batch{
					newRecord(okID, 0, map[string]any{"n": int64(1)}),
					newRecord(gapID, 5, map[string]any{"n": int64(2)}),
				},
			)
			gomega.Expect(err).Should(gomega.HaveOccurred())

			_, err = (*arch).Load(*ctx, record.Ref{ObjectID: okID, Version: 0})
			gomega.Expect(archive.IsNotFound(err)).To(gomega.BeTrue())
		})

		ginkgo.It("panics if the batch contains duplicate references", func() {
			id := (*arch).NewID()

			gomega.Expect(func() {
				batch := archive.Batch{
					newRecord(id, 0, nil),
					newRecord(id, 0, nil),
				}
				batch.MustValidate()
			}).To(gomega.Panic())
		})
	})
}
