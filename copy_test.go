package lineage_test

import (
	"context"

	. "github.com/lineagekit/lineage"
	"github.com/lineagekit/lineage/archive/memoryarchive"
	"github.com/lineagekit/lineage/fixtures"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("func Historian.Copy()", func() {
	var (
		ctx  context.Context
		arch *memoryarchive.Archive
		hist *Historian
	)

	BeforeEach(func() {
		ctx = context.Background()
		arch = memoryarchive.New()

		var err error
		hist, err = New(
			arch,
			WithTypes(
				&fixtures.Car{},
				&fixtures.Garage{},
			),
		)
		Expect(err).ShouldNot(HaveOccurred())
	})

	It("returns a distinct instance with equal state", func() {
		car := &fixtures.Car{Make: "ferrari", Colour: "red"}

		obj, err := hist.Copy(ctx, car)
		Expect(err).ShouldNot(HaveOccurred())

		cp := obj.(*fixtures.Car)
		Expect(cp).ToNot(BeIdenticalTo(car))
		Expect(cp.EqualTo(car)).To(BeTrue())
	})

	It("starts a version chain with no shared history", func() {
		car := &fixtures.Car{Make: "ferrari", Colour: "red"}

		id, err := hist.Save(ctx, car)
		Expect(err).ShouldNot(HaveOccurred())

		obj, err := hist.Copy(ctx, car)
		Expect(err).ShouldNot(HaveOccurred())

		copyID, err := hist.ObjectIDOf(obj)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(copyID).ToNot(Equal(id))

		refs, err := arch.History(ctx, copyID)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(refs).To(HaveLen(1))
		Expect(refs[0].Version).To(BeEquivalentTo(0))

		// Mutating the copy versions only the copy's chain.
		obj.(*fixtures.Car).Colour = "blue"

		savedID, err := hist.Save(ctx, obj)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(savedID).To(Equal(copyID))

		refs, err = arch.History(ctx, id)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(refs).To(HaveLen(1))
	})

	It("copies a graph that has never been saved", func() {
		car := &fixtures.Car{Make: "vw", Colour: "red"}
		garage := &fixtures.Garage{Car: car}

		obj, err := hist.Copy(ctx, garage)
		Expect(err).ShouldNot(HaveOccurred())

		cp := obj.(*fixtures.Garage)
		Expect(cp).ToNot(BeIdenticalTo(garage))
		Expect(cp.Car).To(BeIdenticalTo(car))

		// The original graph is persisted as a side effect, on a chain of
		// its own.
		origID, err := hist.ObjectIDOf(garage)
		Expect(err).ShouldNot(HaveOccurred())

		copyID, err := hist.ObjectIDOf(cp)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(copyID).ToNot(Equal(origID))

		refs, err := arch.History(ctx, copyID)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(refs).To(HaveLen(1))
	})

	It("shares nested objects with the original", func() {
		car := &fixtures.Car{Make: "honda", Colour: "silver"}
		garage := &fixtures.Garage{Car: car}

		_, err := hist.Save(ctx, garage)
		Expect(err).ShouldNot(HaveOccurred())

		obj, err := hist.Copy(ctx, garage)
		Expect(err).ShouldNot(HaveOccurred())

		cp := obj.(*fixtures.Garage)
		Expect(cp).ToNot(BeIdenticalTo(garage))
		Expect(cp.Car).To(BeIdenticalTo(car))
	})
})
