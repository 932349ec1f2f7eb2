package coursefetch

import (
	"context"
	"time"
)

// OutcomeKind classifies the terminal result of one URL's extraction attempt.
type OutcomeKind string

// Outcome kinds. Exactly one holds per URL per batch run.
const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomeTimeout OutcomeKind = "timeout"
	OutcomeFailure OutcomeKind = "failure"
)

// Outcome is the immutable terminal classification of one URL's extraction
// attempt. Course is set only on success; Reason only on failure. A timeout
// carries the elapsed wait, which is at least the configured deadline.
type Outcome struct {
	URL     string        `json:"url"`
	Kind    OutcomeKind   `json:"kind"`
	Course  *Course       `json:"course,omitempty"`
	Reason  string        `json:"reason,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

// Failed reports whether the outcome counts as a failure for aggregate
// purposes. Timeouts count as failures but keep their own kind for display.
func (o Outcome) Failed() bool {
	return o.Kind != OutcomeSuccess
}

// Event is one entry in a batch run's progress stream. Events are emitted
// strictly in input order, one per URL, as soon as the URL resolves.
type Event struct {
	Index   int     `json:"index"` // position in the input URL list
	Total   int     `json:"total"` // number of input URLs
	Outcome Outcome `json:"outcome"`
}

// EventFunc is called once per URL as its outcome resolves. The callback runs
// on the batch's goroutine before the next URL begins processing, so a caller
// may act on each event incrementally.
type EventFunc func(Event)

// BatchState is the accumulated state of one batch run. Results holds
// outcomes in completion order, which for serialized dispatch equals
// submission order. Invariant: SuccessCount+FailureCount == len(Results) and
// len(Results) <= Total; the run is complete when len(Results) == Total.
type BatchState struct {
	ID           string    `json:"id"`
	Total        int       `json:"total"`
	InProgress   string    `json:"in_progress,omitempty"`
	Results      []Outcome `json:"results"`
	SuccessCount int       `json:"success_count"`
	FailureCount int       `json:"failure_count"`
	StartedAt    time.Time `json:"started_at"`
}

// Done reports whether every input URL has resolved.
func (s *BatchState) Done() bool {
	return len(s.Results) == s.Total
}

// Courses returns the course records of all successful outcomes in order.
func (s *BatchState) Courses() []*Course {
	var courses []*Course
	for _, out := range s.Results {
		if out.Kind == OutcomeSuccess && out.Course != nil {
			courses = append(courses, out.Course)
		}
	}
	return courses
}

// BatchRunner processes a fixed list of course page URLs and emits one event
// per URL. A fresh call starts a new, independent run.
type BatchRunner interface {
	// Run processes the URLs in order and returns the final batch state.
	// Per-URL failures never abort the run; the returned error is non-nil
	// only when the context is canceled, in which case the partial state
	// is still returned.
	Run(ctx context.Context, urls []string, fn EventFunc) (*BatchState, error)
}

// Limiter enforces a minimum gap between successive dispatches to the
// extraction provider.
type Limiter interface {
	// Wait blocks until the next dispatch is allowed. The first call on a
	// fresh limiter never blocks. Returns an error if the context is
	// canceled before the wait completes.
	Wait(ctx context.Context) error
}

// BatchService represents a service for recording batch run summaries.
type BatchService interface {
	// CreateBatch persists a summary of a completed (or canceled) run.
	CreateBatch(ctx context.Context, state *BatchState) error

	// FindBatches retrieves recorded run summaries, newest first.
	FindBatches(ctx context.Context, limit int) ([]*BatchSummary, error)
}

// BatchSummary is the stored record of one batch run.
type BatchSummary struct {
	ID           string    `json:"id"`
	Total        int       `json:"total"`
	SuccessCount int       `json:"success_count"`
	FailureCount int       `json:"failure_count"`
	StartedAt    time.Time `json:"started_at"`
}

// Exporter serializes accepted course records to an interchange format.
type Exporter interface {
	// ExportCourse writes a single course record.
	ExportCourse(ctx context.Context, course *Course) error

	// ExportBatch writes all successful records of a run as one document.
	ExportBatch(ctx context.Context, state *BatchState) error
}
