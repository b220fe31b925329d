package lineage

import (
	"context"
	"errors"

	"github.com/dogmatiq/dodeca/logging"
)

// errRollback is the control signal that discards the work of the enclosing
// transaction scope.
//
// It is matched with errors.Is() by transact(), restoring the scope's
// checkpoint and resuming normally. It never escapes the historian; a
// rolled-back transaction is a normal outcome, not a failure.
var errRollback = errors.New("transaction rolled back")

// transact runs fn within a transaction scope.
//
// A checkpoint of the identity cache and the staged-record buffer is taken
// before fn runs. If fn returns errRollback the checkpoint is restored and
// transact returns nil. Any other error also restores the checkpoint and
// discards the scope's staged records before propagating, so a failed
// operation leaves no partial work behind for later operations to flush.
//
// Scopes nest: records staged by an inner scope are committed only when the
// outermost scope completes. When the outermost scope exits, the fresh
// table is discarded in full, and on success all staged records are
// flushed to the archive in one batch. A flush failure propagates with the
// staged buffer left intact, so the caller may retry.
func (h *Historian) transact(ctx context.Context, fn func() error) error {
	cp := h.cache.checkpoint()
	stagedLen := len(h.staged)

	h.depth++
	err := fn()
	h.depth--

	if err != nil {
		h.cache.restore(cp)
		h.staged = h.staged[:stagedLen]

		if errors.Is(err, errRollback) {
			err = nil
		}
	}

	if h.depth > 0 {
		return err
	}

	// The outermost transaction is completing: up-to-date knowledge does
	// not survive it, whatever the outcome.
	h.cache.clearFresh()

	if err != nil || len(h.staged) == 0 {
		return err
	}

	if err := h.arch.SaveMany(ctx, h.staged); err != nil {
		return err
	}

	logging.Debug(
		h.logger,
		"flushed %d staged record(s) to the archive",
		len(h.staged),
	)

	h.staged = nil

	return nil
}
