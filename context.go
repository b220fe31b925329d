package lineage

import "context"

type contextKey struct{}

// NewContext returns a context derived from parent that carries h.
//
// It is a convenience for passing a historian across API boundaries that
// accept only a context; application code that can take a *Historian
// directly should do so.
func NewContext(parent context.Context, h *Historian) context.Context {
	return context.WithValue(parent, contextKey{}, h)
}

// FromContext returns the historian carried by ctx, if any.
func FromContext(ctx context.Context) (*Historian, bool) {
	h, ok := ctx.Value(contextKey{}).(*Historian)
	return h, ok
}
