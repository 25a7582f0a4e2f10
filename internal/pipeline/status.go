package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"prism/pkg/platform/sentinel"
)

// Run states tracked by the registry.
const (
	StateRunning   = "running"
	StateCompleted = "completed"
	StateFailed    = "failed"
)

// RunStatus is one run's observable state for the status endpoint.
type RunStatus struct {
	RunID         uuid.UUID      `json:"run_id"`
	State         string         `json:"state"`
	ReferenceTime time.Time      `json:"reference_time"`
	StartedAt     time.Time      `json:"started_at"`
	FinishedAt    *time.Time     `json:"finished_at,omitempty"`
	Rows          map[string]int `json:"rows,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// StatusRegistry tracks run statuses in memory. Runs fully replace their
// output, so history beyond the process lifetime has no consumer.
type StatusRegistry struct {
	mu     sync.RWMutex
	runs   map[uuid.UUID]RunStatus
	latest uuid.UUID
}

func NewStatusRegistry() *StatusRegistry {
	return &StatusRegistry{runs: make(map[uuid.UUID]RunStatus)}
}

func (r *StatusRegistry) start(status RunStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[status.RunID] = status
}

func (r *StatusRegistry) finish(runID uuid.UUID, state string, finishedAt time.Time, rows map[string]int, runErr error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	status, ok := r.runs[runID]
	if !ok {
		return
	}
	status.State = state
	status.FinishedAt = &finishedAt
	status.Rows = rows
	if runErr != nil {
		status.Error = runErr.Error()
	}
	r.runs[runID] = status
	if state == StateCompleted {
		r.latest = runID
	}
}

// Get returns a run's status or sentinel.ErrNotFound.
func (r *StatusRegistry) Get(runID uuid.UUID) (RunStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	status, ok := r.runs[runID]
	if !ok {
		return RunStatus{}, sentinel.ErrNotFound
	}
	return status, nil
}

// Latest returns the most recently completed run, or sentinel.ErrNotFound
// before the first successful pass.
func (r *StatusRegistry) Latest() (RunStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	status, ok := r.runs[r.latest]
	if !ok {
		return RunStatus{}, sentinel.ErrNotFound
	}
	return status, nil
}
