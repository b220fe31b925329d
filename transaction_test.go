package lineage

import (
	"context"
	"errors"

	"github.com/lineagekit/lineage/archive"
	"github.com/lineagekit/lineage/archive/memoryarchive"
	"github.com/lineagekit/lineage/fixtures"
	"github.com/lineagekit/lineage/hashing"
	"github.com/lineagekit/lineage/kind"
	"github.com/lineagekit/lineage/record"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// flakyArchive fails SaveMany() on demand, delegating everything else to
// the wrapped archive.
type flakyArchive struct {
	archive.Archive
	fail bool
}

func (a *flakyArchive) SaveMany(ctx context.Context, batch archive.Batch) error {
	if a.fail {
		return errors.New("<save failure>")
	}

	return a.Archive.SaveMany(ctx, batch)
}

// brokenGarage stages its nested car, then fails to produce its own state.
type brokenGarage struct {
	Car *fixtures.Car
}

func (g *brokenGarage) TypeID() record.TypeID {
	return "lineage.brokengarage"
}

func (g *brokenGarage) SaveState(s kind.Saver) (any, error) {
	if _, err := s.Ref(g.Car); err != nil {
		return nil, err
	}

	return nil, errors.New("<state failure>")
}

func (g *brokenGarage) LoadState(state any, _ kind.Loader) error {
	return nil
}

func (g *brokenGarage) EqualTo(other any) bool {
	o, ok := other.(*brokenGarage)
	return ok && g.Car == o.Car
}

func (g *brokenGarage) WriteHashables(w *hashing.Writer) error {
	return w.WriteAny(g.Car)
}

var _ = Describe("func Historian.transact()", func() {
	var (
		ctx  context.Context
		arch *flakyArchive
		hist *Historian
	)

	BeforeEach(func() {
		ctx = context.Background()
		arch = &flakyArchive{Archive: memoryarchive.New()}

		var err error
		hist, err = New(
			arch,
			WithTypes(&fixtures.Car{}),
		)
		Expect(err).ShouldNot(HaveOccurred())
	})

	It("leaves staged records intact when the flush fails", func() {
		arch.fail = true

		car := &fixtures.Car{Make: "ferrari", Colour: "red"}

		_, err := hist.Save(ctx, car)
		Expect(err).To(MatchError("<save failure>"))
		Expect(hist.staged).To(HaveLen(1))
	})

	It("flushes the staged records when the save is retried", func() {
		arch.fail = true

		car := &fixtures.Car{Make: "ferrari", Colour: "red"}

		_, err := hist.Save(ctx, car)
		Expect(err).Should(HaveOccurred())

		arch.fail = false

		id, err := hist.Save(ctx, car)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(hist.staged).To(BeEmpty())

		refs, err := arch.History(ctx, id)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(refs).To(HaveLen(1))
	})

	It("discards partially staged records when an operation fails", func() {
		h, err := New(
			arch,
			WithTypes(
				&fixtures.Car{},
				&brokenGarage{},
			),
		)
		Expect(err).ShouldNot(HaveOccurred())

		garage := &brokenGarage{
			Car: &fixtures.Car{Make: "ferrari", Colour: "red"},
		}

		_, err = h.Save(ctx, garage)
		Expect(err).To(MatchError("<state failure>"))
		Expect(h.staged).To(BeEmpty())

		// A later unrelated save must not commit the failed operation's
		// records as a side effect.
		_, err = h.Save(ctx, &fixtures.Car{Make: "honda", Colour: "silver"})
		Expect(err).ShouldNot(HaveOccurred())

		recs, err := arch.Find(ctx, archive.FindRequest{TypeID: "fixtures.car"})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(recs).To(HaveLen(1))
	})

	It("clears the fresh table when the outermost transaction completes", func() {
		car := &fixtures.Car{Make: "ferrari", Colour: "red"}

		_, err := hist.Save(ctx, car)
		Expect(err).ShouldNot(HaveOccurred())

		Expect(hist.cache.fresh).To(BeEmpty())
		Expect(hist.cache.records).To(HaveKey(car))
	})

	It("restores the checkpoint when a scope rolls back", func() {
		cp := hist.cache.checkpoint()

		err := hist.transact(ctx, func() error {
			hist.cache.fresh[&fixtures.Car{}] = record.Ref{}
			return errRollback
		})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(hist.cache.fresh).To(Equal(cp.fresh))
	})

	It("propagates errors other than the rollback signal", func() {
		boom := errors.New("<error>")

		err := hist.transact(ctx, func() error {
			return boom
		})
		Expect(err).To(MatchError(boom))
	})
})
