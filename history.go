package lineage

import (
	"context"

	"github.com/lineagekit/lineage/record"
)

// A HistoryEntry is one version of an object, as returned by History().
type HistoryEntry struct {
	// Ref identifies the snapshot.
	Ref record.Ref

	// Object is the snapshot's state, reconstructed with pinned semantics.
	Object any
}

// A HistorySelector chooses a slice of a version chain.
type HistorySelector interface {
	// apply returns the selected subsequence of refs, which is ordered
	// oldest-first.
	apply(refs []record.Ref) ([]record.Ref, error)
}

// EntireHistory selects every version of the chain.
var EntireHistory HistorySelector = entireHistory{}

type entireHistory struct{}

func (entireHistory) apply(refs []record.Ref) ([]record.Ref, error) {
	return refs, nil
}

// Version selects the single version at index n.
//
// A negative index counts back from the latest version, so Version(-1) is
// the latest version and Version(-2) its predecessor.
func Version(n int) HistorySelector {
	return versionSelector(n)
}

type versionSelector int

func (s versionSelector) apply(refs []record.Ref) ([]record.Ref, error) {
	i, ok := resolveIndex(int(s), len(refs))
	if !ok {
		return nil, VersionOutOfRangeError{
			Index:    int(s),
			Versions: len(refs),
		}
	}

	return refs[i : i+1], nil
}

// Span selects the versions at indices [from, to).
//
// Negative indices count back from the latest version. An empty or inverted
// span selects nothing.
func Span(from, to int) HistorySelector {
	return spanSelector{from, to}
}

type spanSelector struct {
	from, to int
}

func (s spanSelector) apply(refs []record.Ref) ([]record.Ref, error) {
	from := clampIndex(s.from, len(refs))
	to := clampIndex(s.to, len(refs))

	if from >= to {
		return nil, nil
	}

	return refs[from:to], nil
}

// clampIndex converts a possibly-negative slice bound into a position
// within [0, n].
func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}

	if i < 0 {
		return 0
	}

	if i > n {
		return n
	}

	return i
}

// resolveIndex converts a possibly-negative index into a position within a
// chain of n versions.
func resolveIndex(i, n int) (int, bool) {
	if i < 0 {
		i += n
	}

	return i, i >= 0 && i < n
}

// History returns the selected versions of the object identified by id,
// oldest-first, with each version's state reconstructed.
//
// Entries are loaded with pinned semantics, so each one reflects the object
// graph exactly as of that version.
func (h *Historian) History(
	ctx context.Context,
	id record.ObjectID,
	sel HistorySelector,
) ([]HistoryEntry, error) {
	if sel == nil {
		sel = EntireHistory
	}

	var entries []HistoryEntry

	err := h.transact(ctx, func() error {
		refs, err := h.arch.History(ctx, id)
		if err != nil {
			return err
		}

		refs, err = sel.apply(refs)
		if err != nil {
			return err
		}

		r := &pinnedReferencer{ctx, h}

		for _, ref := range refs {
			obj, err := h.loadObject(ctx, ref, r)
			if err != nil {
				return err
			}

			entries = append(entries, HistoryEntry{
				Ref:    ref,
				Object: obj,
			})
		}

		return nil
	})

	return entries, err
}
