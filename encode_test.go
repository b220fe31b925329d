package lineage

import (
	"context"
	"errors"

	"github.com/lineagekit/lineage/archive/memoryarchive"
	"github.com/lineagekit/lineage/fixtures"
	"github.com/lineagekit/lineage/record"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("func Historian.encode() and decode()", func() {
	var (
		ctx  context.Context
		hist *Historian
		r    Referencer
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		hist, err = New(
			memoryarchive.New(),
			WithTypes(&fixtures.Car{}),
		)
		Expect(err).ShouldNot(HaveOccurred())

		r = &pinnedReferencer{ctx, hist}
	})

	DescribeTable(
		"it round-trips values that need no conversion",
		func(v any) {
			enc, err := hist.encode(v, r)
			Expect(err).ShouldNot(HaveOccurred())

			dec, err := hist.decode(enc, r)
			Expect(err).ShouldNot(HaveOccurred())

			if v == nil {
				Expect(dec).To(BeNil())
			} else {
				Expect(dec).To(Equal(v))
			}
		},
		Entry("nil", nil),
		Entry("bool", true),
		Entry("integer", int64(-42)),
		Entry("float", 2.5),
		Entry("string", "value"),
		Entry("bytes", []byte{1, 2, 3}),
		Entry("list", []any{int64(1), "two", false}),
		Entry(
			"mapping",
			map[string]any{
				"k":      "v",
				"nested": map[string]any{"n": int64(1)},
			},
		),
		Entry(
			"reference",
			record.Ref{ObjectID: record.NewID(), Version: 2},
		),
		Entry("object ID", record.NewID()),
	)

	It("widens small integers and floats", func() {
		enc, err := hist.encode(int(7), r)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(enc).To(Equal(int64(7)))

		enc, err = hist.encode(float32(0.5), r)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(enc).To(Equal(float64(0.5)))
	})

	It("round-trips a registered application object by value", func() {
		car := &fixtures.Car{Make: "ferrari", Colour: "red"}

		enc, err := hist.encode(car, r)
		Expect(err).ShouldNot(HaveOccurred())

		// The object is encoded as a marker mapping.
		m, ok := enc.(map[string]any)
		Expect(ok).To(BeTrue())
		Expect(m).To(HaveKeyWithValue("$type", "fixtures.car"))
		Expect(m).To(HaveKey("$state"))

		dec, err := hist.decode(enc, r)
		Expect(err).ShouldNot(HaveOccurred())

		loaded := dec.(*fixtures.Car)
		Expect(loaded).ToNot(BeIdenticalTo(car))
		Expect(loaded.EqualTo(car)).To(BeTrue())
	})

	It("returns an error when encoding an unregistered type", func() {
		_, err := hist.encode(struct{ X int }{1}, r)
		Expect(err).Should(HaveOccurred())
	})

	It("returns an error when decoding an unexpected shape", func() {
		_, err := hist.decode(make(chan int), r)

		var invalid InvalidStateError
		Expect(errors.As(err, &invalid)).To(BeTrue())
	})

	It("returns an error when decoding an unknown type marker", func() {
		_, err := hist.decode(
			map[string]any{
				"$type":  "unregistered.type",
				"$state": map[string]any{},
			},
			r,
		)
		Expect(err).Should(HaveOccurred())
	})
})
