package lineage_test

import (
	"context"
	"errors"

	. "github.com/lineagekit/lineage"
	"github.com/lineagekit/lineage/archive"
	"github.com/lineagekit/lineage/archive/memoryarchive"
	"github.com/lineagekit/lineage/fixtures"
	"github.com/lineagekit/lineage/record"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("func Historian.History()", func() {
	var (
		ctx  context.Context
		arch *memoryarchive.Archive
		hist *Historian
		id   record.ObjectID
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

		car := &fixtures.Car{Make: "ferrari", Colour: "red"}

		id, err = hist.Save(ctx, car)
		Expect(err).ShouldNot(HaveOccurred())

		car.Colour = "yellow"
		_, err = hist.Save(ctx, car)
		Expect(err).ShouldNot(HaveOccurred())

		car.Colour = "blue"
		_, err = hist.Save(ctx, car)
		Expect(err).ShouldNot(HaveOccurred())
	})

	It("returns every version oldest-first", func() {
		entries, err := hist.History(ctx, id, EntireHistory)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(entries).To(HaveLen(3))

		colours := []string{"red", "yellow", "blue"}
		for i, e := range entries {
			Expect(e.Ref).To(Equal(record.Ref{ObjectID: id, Version: uint64(i)}))
			Expect(e.Object.(*fixtures.Car).Colour).To(Equal(colours[i]))
		}
	})

	It("treats a nil selector as the entire history", func() {
		entries, err := hist.History(ctx, id, nil)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(entries).To(HaveLen(3))
	})

	It("selects a single version by index", func() {
		entries, err := hist.History(ctx, id, Version(1))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Object.(*fixtures.Car).Colour).To(Equal("yellow"))
	})

	It("counts negative indices back from the latest version", func() {
		entries, err := hist.History(ctx, id, Version(-1))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Ref.Version).To(BeEquivalentTo(2))
		Expect(entries[0].Object.(*fixtures.Car).Colour).To(Equal("blue"))
	})

	It("returns an error if the index is out of range", func() {
		_, err := hist.History(ctx, id, Version(5))

		var oor VersionOutOfRangeError
		Expect(errors.As(err, &oor)).To(BeTrue())
		Expect(oor.Index).To(Equal(5))
		Expect(oor.Versions).To(Equal(3))
	})

	It("selects a sub-range of versions", func() {
		entries, err := hist.History(ctx, id, Span(1, 3))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Ref.Version).To(BeEquivalentTo(1))
		Expect(entries[1].Ref.Version).To(BeEquivalentTo(2))
	})

	It("supports negative bounds in a sub-range", func() {
		entries, err := hist.History(ctx, id, Span(-2, 3))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Ref.Version).To(BeEquivalentTo(1))
	})

	It("selects nothing for an empty sub-range", func() {
		entries, err := hist.History(ctx, id, Span(2, 2))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})

	It("returns an error if the object has never been saved", func() {
		_, err := hist.History(ctx, arch.NewID(), EntireHistory)
		Expect(archive.IsNotFound(err)).To(BeTrue())
	})
})
