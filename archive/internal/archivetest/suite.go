// Package archivetest declares generic behavioral tests that every archive
// implementation must pass.
package archivetest

import (
	"context"
	"time"

	"github.com/lineagekit/lineage/archive"
	"github.com/onsi/ginkgo/v2"
)

// Out is a container for values that are provided by the
// implementation-specific initialization code to the test suite.
type Out struct {
	// NewArchive is a function that creates a new, empty archive.
	NewArchive func(ctx context.Context) (a archive.Archive, close func())

	// TestTimeout is the maximum duration allowed for each test.
	TestTimeout time.Duration
}

// DefaultTestTimeout is the default test timeout.
const DefaultTestTimeout = 3 * time.Second

// Declare declares generic behavioral tests for a specific archive
// implementation.
func Declare(
	before func(ctx context.Context) Out,
	after func(),
) {
	var (
		ctx          context.Context
		cancel       func()
		out          Out
		arch         archive.Archive
		closeArchive func()
	)

	ginkgo.Context("standard archive test suite", func() {
		ginkgo.BeforeEach(func() {
			setupCtx, cancelSetup := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancelSetup()

			out = before(setupCtx)

			if out.TestTimeout <= 0 {
				out.TestTimeout = DefaultTestTimeout
			}

			arch, closeArchive = out.NewArchive(setupCtx)

			ctx, cancel = context.WithTimeout(context.Background(), out.TestTimeout)
		})

		ginkgo.AfterEach(func() {
			if closeArchive != nil {
				closeArchive()
				closeArchive = nil
			}

			if after != nil {
				after()
			}

			cancel()
		})

		declareSaveTests(&ctx, &arch)
		declareLoadTests(&ctx, &arch)
		declareMetaTests(&ctx, &arch)
		declareFindTests(&ctx, &arch)
	})
}
