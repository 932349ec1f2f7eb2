package batch

import (
	"slices"
	"sync"
	"time"

	"github.com/boldstep/coursefetch"
	"github.com/google/uuid"
)

// Aggregator accumulates outcomes into the running batch state. The batch
// goroutine is the only writer; Snapshot may be called from any goroutine at
// any point during or after a run.
type Aggregator struct {
	mu    sync.Mutex
	state coursefetch.BatchState
}

// NewAggregator creates an Aggregator for a run over total URLs.
func NewAggregator(total int) *Aggregator {
	return &Aggregator{
		state: coursefetch.BatchState{
			ID:        uuid.New().String(),
			Total:     total,
			StartedAt: time.Now().UTC(),
		},
	}
}

// Begin marks the URL currently being processed.
func (a *Aggregator) Begin(url string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.InProgress = url
}

// Abort clears the in-progress marker without recording an outcome. Used
// when a run is canceled before the current URL was dispatched.
func (a *Aggregator) Abort() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.InProgress = ""
}

// Observe appends an outcome and updates the aggregate counts. Timeouts
// count as failures in the aggregate but keep their own kind in the results.
func (a *Aggregator) Observe(out coursefetch.Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.state.Results = append(a.state.Results, out)
	if out.Failed() {
		a.state.FailureCount++
	} else {
		a.state.SuccessCount++
	}
	a.state.InProgress = ""
}

// Snapshot returns a read-only copy of the accumulated state.
func (a *Aggregator) Snapshot() *coursefetch.BatchState {
	a.mu.Lock()
	defer a.mu.Unlock()

	state := a.state
	state.Results = slices.Clone(a.state.Results)
	return &state
}
