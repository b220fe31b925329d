package archivetest

import (
	"context"

	"github.com/lineagekit/lineage/archive"
	"github.com/lineagekit/lineage/record"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func declareFindTests(
	ctx *context.Context,
	arch *archive.Archive,
) {
	ginkgo.Describe("func Find()", func() {
		var widgetID, gadgetID record.ObjectID

		ginkgo.BeforeEach(func() {
			widgetID = (*arch).NewID()
			gadgetID = (*arch).NewID()

			err := (*arch).SaveMany(
				*ctx,
				archive.Batch{
					record.Builder{
						TypeID:   "archivetest.widget",
						ObjectID: widgetID,
						Version:  0,
						Hash:     "w0",
						State:    map[string]any{"colour": "red"},
					}.Build(),
					record.Builder{
						TypeID:   "archivetest.widget",
						ObjectID: widgetID,
						Version:  1,
						Hash:     "w1",
						State:    map[string]any{"colour": "blue"},
					}.Build(),
					record.Builder{
						TypeID:   "archivetest.gadget",
						ObjectID: gadgetID,
						Version:  0,
						Hash:     "g0",
						State:    map[string]any{"colour": "red"},
					}.Build(),
				},
			)
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
		})

		ginkgo.It("filters by type ID", func() {
			recs, err := (*arch).Find(
				*ctx,
				archive.FindRequest{
					TypeID: "archivetest.gadget",
				},
			)
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
			gomega.Expect(recs).To(gomega.HaveLen(1))
			gomega.Expect(recs[0].ObjectID()).To(gomega.Equal(gadgetID))
		})

		ginkgo.It("matches criteria against the latest version only", func() {
			recs, err := (*arch).Find(
				*ctx,
				archive.FindRequest{
					Criteria: archive.Criteria{"colour": "red"},
				},
			)
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
			gomega.Expect(recs).To(gomega.HaveLen(1))
			gomega.Expect(recs[0].ObjectID()).To(gomega.Equal(gadgetID))
		})

		ginkgo.It("caps the number of results at the limit", func() {
			recs, err := (*arch).Find(
				*ctx,
				archive.FindRequest{
					Limit: 1,
				},
			)
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
			gomega.Expect(recs).To(gomega.HaveLen(1))
		})

		ginkgo.It("returns nothing if no object matches", func() {
			recs, err := (*arch).Find(
				*ctx,
				archive.FindRequest{
					TypeID: "archivetest.unknown",
				},
			)
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
			gomega.Expect(recs).To(gomega.BeEmpty())
		})
	})
}
