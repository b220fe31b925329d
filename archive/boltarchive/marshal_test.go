package boltarchive

import (
	"github.com/lineagekit/lineage/internal/x/bboltx"
	"github.com/lineagekit/lineage/record"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("func marshalRecord() and unmarshalRecord()", func() {
	It("round-trips a record", func() {
		other := record.NewID()

		in := record.Builder{
			TypeID:    "boltarchive.widget",
			ObjectID:  record.NewID(),
			Version:   7,
			CreatedIn: other,
			Hash:      "deadbeef",
			State: map[string]any{
				"name":  "widget",
				"count": int64(-3),
				"ratio": 0.25,
				"raw":   []byte{1, 2, 3},
				"tags":  []any{"a", "b"},
				"ref":   record.Ref{ObjectID: other, Version: 2},
				"owner": other,
			},
		}.Build()

		data, err := marshalRecord(in)
		Expect(err).ShouldNot(HaveOccurred())

		out, err := unmarshalRecord(in.Ref(), data)
		Expect(err).ShouldNot(HaveOccurred())

		Expect(out.TypeID()).To(Equal(in.TypeID()))
		Expect(out.ObjectID()).To(Equal(in.ObjectID()))
		Expect(out.Version()).To(Equal(in.Version()))
		Expect(out.Hash()).To(Equal(in.Hash()))
		Expect(out.State()).To(Equal(in.State()))

		createdIn, ok := out.CreatedIn()
		Expect(ok).To(BeTrue())
		Expect(createdIn).To(Equal(other))
	})

	It("round-trips a record without a creating context", func() {
		in := record.Builder{
			TypeID:   "boltarchive.widget",
			ObjectID: record.NewID(),
			Hash:     "deadbeef",
		}.Build()

		data, err := marshalRecord(in)
		Expect(err).ShouldNot(HaveOccurred())

		out, err := unmarshalRecord(in.Ref(), data)
		Expect(err).ShouldNot(HaveOccurred())

		_, ok := out.CreatedIn()
		Expect(ok).To(BeFalse())
		Expect(out.State()).To(BeNil())
	})

	It("returns an error if the state contains an unmarshalable value", func() {
		in := record.Builder{
			TypeID:   "boltarchive.widget",
			ObjectID: record.NewID(),
			Hash:     "deadbeef",
			State: map[string]any{
				"ch": make(chan int),
			},
		}.Build()

		_, err := marshalRecord(in)
		Expect(err).Should(HaveOccurred())
	})
})

var _ = Describe("func marshalUint64() and unmarshalUint64()", func() {
	It("round-trips a version number", func() {
		data := marshalUint64(0xfeedface)
		Expect(data).To(HaveLen(8))
		Expect(unmarshalUint64(data)).To(BeEquivalentTo(0xfeedface))
	})

	It("panics if the data is not exactly 8 bytes", func() {
		defer func() {
			s, ok := recover().(bboltx.PanicSentinel)
			Expect(ok).To(BeTrue())
			Expect(s.Cause).To(MatchError("data is corrupt, expected 8 bytes, got 3"))
		}()

		unmarshalUint64([]byte{1, 2, 3})
	})
})

var _ = Describe("func fromWire()", func() {
	It("normalizes unsigned integers to int64", func() {
		v, err := fromWire(uint64(42))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(v).To(Equal(int64(42)))
	})

	It("returns an error if an integer is out of range", func() {
		_, err := fromWire(uint64(1) << 63)
		Expect(err).Should(HaveOccurred())
	})

	It("returns an error if a mapping key is not a string", func() {
		_, err := fromWire(map[any]any{int64(1): "v"})
		Expect(err).Should(HaveOccurred())
	})
})
