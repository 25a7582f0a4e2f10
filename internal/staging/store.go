package staging

import "context"

// Store reads the staging layer. A snapshot failure is the only hard failure
// in the pipeline: everything downstream repairs rather than rejects.
type Store interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}
