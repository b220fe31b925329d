package lineage_test

import (
	"context"

	. "github.com/lineagekit/lineage"
	"github.com/lineagekit/lineage/archive"
	"github.com/lineagekit/lineage/archive/memoryarchive"
	"github.com/lineagekit/lineage/fixtures"
	"github.com/lineagekit/lineage/record"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("func Historian.Save()", func() {
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

	It("appends one version per save with distinct content", func() {
		car := &fixtures.Car{Make: "ferrari", Colour: "red"}

		id, err := hist.Save(ctx, car)
		Expect(err).ShouldNot(HaveOccurred())

		car.Make = "fiat"
		id2, err := hist.Save(ctx, car)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(id2).To(Equal(id))

		car.Colour = "yellow"
		_, err = hist.Save(ctx, car)
		Expect(err).ShouldNot(HaveOccurred())

		refs, err := arch.History(ctx, id)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(refs).To(Equal(
			[]record.Ref{
				{ObjectID: id, Version: 0},
				{ObjectID: id, Version: 1},
				{ObjectID: id, Version: 2},
			},
		))
	})

	It("does not append a version when the object is unchanged", func() {
		car := &fixtures.Car{Make: "ferrari", Colour: "red"}

		id, err := hist.Save(ctx, car)
		Expect(err).ShouldNot(HaveOccurred())

		id2, err := hist.Save(ctx, car)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(id2).To(Equal(id))

		refs, err := arch.History(ctx, id)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(refs).To(HaveLen(1))
	})

	It("keeps earlier versions loadable after mutation", func() {
		car := &fixtures.Car{Make: "ferrari", Colour: "red"}

		id, err := hist.Save(ctx, car)
		Expect(err).ShouldNot(HaveOccurred())

		car.Make = "fiat"
		_, err = hist.Save(ctx, car)
		Expect(err).ShouldNot(HaveOccurred())

		snap, err := hist.LoadSnapshot(
			ctx,
			record.Ref{ObjectID: id, Version: 0},
		)
		Expect(err).ShouldNot(HaveOccurred())

		old := snap.(*fixtures.Car)
		Expect(old).ToNot(BeIdenticalTo(car))
		Expect(old.Make).To(Equal("ferrari"))
		Expect(old.Colour).To(Equal("red"))
	})

	It("saves nested objects under their own version chains", func() {
		car := &fixtures.Car{Make: "honda", Colour: "white"}
		garage := &fixtures.Garage{Car: car}

		garageID, err := hist.Save(ctx, garage)
		Expect(err).ShouldNot(HaveOccurred())

		carID, err := hist.ObjectIDOf(car)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(carID).ToNot(Equal(garageID))

		refs, err := arch.History(ctx, carID)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(refs).To(HaveLen(1))
	})
})

var _ = Describe("func Historian.SaveAs()", func() {
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
			WithTypes(&fixtures.Car{}),
		)
		Expect(err).ShouldNot(HaveOccurred())
	})

	It("starts a version chain under the requested ID", func() {
		id := arch.NewID()
		car := &fixtures.Car{Make: "saab", Colour: "green"}

		saved, err := hist.SaveAs(ctx, car, id)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(saved).To(Equal(id))

		refs, err := arch.History(ctx, id)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(refs).To(Equal(
			[]record.Ref{
				{ObjectID: id, Version: 0},
			},
		))
	})

	It("versions the object on top of an existing chain", func() {
		original := &fixtures.Car{Make: "saab", Colour: "green"}

		id, err := hist.Save(ctx, original)
		Expect(err).ShouldNot(HaveOccurred())

		replacement := &fixtures.Car{Make: "saab", Colour: "blue"}

		_, err = hist.SaveAs(ctx, replacement, id)
		Expect(err).ShouldNot(HaveOccurred())

		refs, err := arch.History(ctx, id)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(refs).To(HaveLen(2))

		loaded, err := hist.Load(ctx, id)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(loaded).To(BeIdenticalTo(replacement))
	})

	It("detaches the object from a chain it was saved under before", func() {
		car := &fixtures.Car{Make: "saab", Colour: "green"}

		originalID, err := hist.Save(ctx, car)
		Expect(err).ShouldNot(HaveOccurred())

		newID := arch.NewID()

		_, err = hist.SaveAs(ctx, car, newID)
		Expect(err).ShouldNot(HaveOccurred())

		refs, err := arch.History(ctx, originalID)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(refs).To(HaveLen(1))

		refs, err = arch.History(ctx, newID)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(refs).To(HaveLen(1))

		// Further saves version the new chain, not the original.
		car.Colour = "black"
		saved, err := hist.Save(ctx, car)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(saved).To(Equal(newID))
	})
})

var _ = Describe("func Historian.SaveSnapshot()", func() {
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

	It("returns a reference to the exact snapshot written", func() {
		car := &fixtures.Car{Make: "ferrari", Colour: "red"}

		ref, err := hist.SaveSnapshot(ctx, car)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(ref.Version).To(BeEquivalentTo(0))

		car.Make = "fiat"
		ref2, err := hist.SaveSnapshot(ctx, car)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(ref2.ObjectID).To(Equal(ref.ObjectID))
		Expect(ref2.Version).To(BeEquivalentTo(1))
	})

	It("pins nested references to the versions current at the time", func() {
		car := &fixtures.Car{Make: "honda", Colour: "red"}
		garage := &fixtures.Garage{Car: car}

		ref, err := hist.SaveSnapshot(ctx, garage)
		Expect(err).ShouldNot(HaveOccurred())

		car.Colour = "blue"
		_, err = hist.Save(ctx, car)
		Expect(err).ShouldNot(HaveOccurred())

		snap, err := hist.LoadSnapshot(ctx, ref)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(snap.(*fixtures.Garage).Car.Colour).To(Equal("red"))
	})
})

var _ = Describe("nested object staging", func() {
	It("stages records for nested saves in one flush", func() {
		ctx := context.Background()
		arch := memoryarchive.New()

		hist, err := New(
			arch,
			WithTypes(
				&fixtures.Car{},
				&fixtures.Garage{},
			),
		)
		Expect(err).ShouldNot(HaveOccurred())

		garage := &fixtures.Garage{
			Car: &fixtures.Car{Make: "vw", Colour: "blue"},
		}

		_, err = hist.Save(ctx, garage)
		Expect(err).ShouldNot(HaveOccurred())

		results, err := arch.Find(ctx, archive.FindRequest{})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(results).To(HaveLen(2))
	})
})
