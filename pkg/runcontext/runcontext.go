// Package runcontext provides context accessors for run-scoped values.
//
// A pipeline run pins exactly one reference timestamp before any stage that
// depends on it starts; every "now"-relative derivation (age, tenure,
// future-date guards) reads that pinned value via Now. Re-running the
// pipeline with the same pinned time over unchanged input must produce
// identical output, so nothing below the orchestrator may read the wall
// clock directly.
//
// Usage in stages (read values):
//
//	now := runcontext.Now(ctx)
//	runID := runcontext.RunID(ctx)
//
// Usage in the orchestrator and tests (set values):
//
//	ctx = runcontext.WithTime(ctx, fixedTime)
//	ctx = runcontext.WithRunID(ctx, runID)
package runcontext

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type (
	runIDKey   struct{}
	runTimeKey struct{}
)

// RunID retrieves the pipeline run identifier from the context.
// Returns the nil UUID if not set.
func RunID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(runIDKey{}).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// WithRunID injects a run identifier into the context.
func WithRunID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// Now retrieves the pinned run time from the context. Falls back to the wall
// clock only when no run time was pinned; production code paths always run
// under a pinned time set by the orchestrator.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(runTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the run reference time in the context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, runTimeKey{}, t)
}
