package logger

import (
	"context"
	"errors"
	"log/slog"
)

// teeHandler duplicates each record to every destination handler. It
// backs the optional Better Stack shipping: stdout stays the primary
// destination and remote delivery failures never block or reorder it.
type teeHandler struct {
	dests []slog.Handler
}

// newTeeHandler builds a teeHandler over the non-nil destinations.
func newTeeHandler(dests ...slog.Handler) *teeHandler {
	t := &teeHandler{dests: make([]slog.Handler, 0, len(dests))}
	for _, d := range dests {
		if d != nil {
			t.dests = append(t.dests, d)
		}
	}
	return t
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, d := range t.dests {
		if d.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle forwards the record to every destination whose own level
// admits it. Each destination gets its own clone; slog allows handlers
// to retain records. Failures are joined so one bad destination does
// not hide another's.
func (t *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, d := range t.dests {
		if !d.Enabled(ctx, r.Level) {
			continue
		}
		if err := d.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(t.dests))
	for i, d := range t.dests {
		next[i] = d.WithAttrs(attrs)
	}
	return &teeHandler{dests: next}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(t.dests))
	for i, d := range t.dests {
		next[i] = d.WithGroup(name)
	}
	return &teeHandler{dests: next}
}
