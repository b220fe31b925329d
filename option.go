package lineage

import (
	"github.com/dogmatiq/dodeca/logging"
	"github.com/lineagekit/lineage/hashing"
	"github.com/lineagekit/lineage/record"
)

// DefaultLogger is the default target for log messages produced by a
// historian.
//
// It is overridden by the WithLogger() option.
var DefaultLogger = logging.DefaultLogger

// HistorianOption configures the behavior of a historian.
type HistorianOption func(*historianOptions)

// WithLogger returns an option that sets the target for log messages
// produced by the historian.
//
// If this option is omitted or l is nil, DefaultLogger is used.
func WithLogger(l logging.Logger) HistorianOption {
	return func(opts *historianOptions) {
		opts.Logger = l
	}
}

// WithEquators returns an option that adds external equators to the
// historian's content hasher.
//
// Equators supplied this way take precedence over those contributed by
// registered types.
func WithEquators(equators ...hashing.TypeEquator) HistorianOption {
	return func(opts *historianOptions) {
		opts.Equators = append(opts.Equators, equators...)
	}
}

// WithTypes returns an option that registers application types at
// construction time.
//
// Each value is either a kind.Adapter or a prototype instance of a type
// that implements kind.Savable, exactly as accepted by Register().
func WithTypes(types ...any) HistorianOption {
	return func(opts *historianOptions) {
		opts.Types = append(opts.Types, types...)
	}
}

// WithCreationContext returns an option that records id as the creating
// context on every record the historian creates at version 0.
func WithCreationContext(id record.ObjectID) HistorianOption {
	return func(opts *historianOptions) {
		opts.CreatedIn = id
	}
}

// historianOptions is a container for a fully-resolved set of historian
// options.
type historianOptions struct {
	Logger    logging.Logger
	Equator   *hashing.Equator
	Equators  []hashing.TypeEquator
	Types     []any
	CreatedIn record.ObjectID
}

// resolveHistorianOptions returns a fully-populated set of historian
// options built from the given list.
func resolveHistorianOptions(options ...HistorianOption) *historianOptions {
	opts := &historianOptions{}

	for _, o := range options {
		o(opts)
	}

	if opts.Logger == nil {
		opts.Logger = DefaultLogger
	}

	opts.Equator = hashing.NewEquator(opts.Equators...)

	return opts
}
