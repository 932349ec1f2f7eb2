package batch

import (
	"context"

	"github.com/boldstep/coursefetch"
)

// Ensure Runner implements coursefetch.BatchRunner at compile time.
var _ coursefetch.BatchRunner = (*Runner)(nil)

// Runner processes a batch of course page URLs strictly sequentially: wait
// at the gate, dispatch through the timeout client, record and emit the
// outcome, move on. Serialized dispatch is what guarantees both the
// inter-request spacing and the in-order event stream.
type Runner struct {
	// Client dispatches individual extraction calls. Required.
	Client *Client

	// Gate spaces dispatches apart. Defaults to a fresh Gate with
	// DefaultMinGap per run when nil.
	Gate coursefetch.Limiter

	// Schema describes the fields to extract.
	// Defaults to coursefetch.DefaultSchema() when empty.
	Schema coursefetch.Schema
}

// Run processes the URLs in input order and emits one event per URL as it
// resolves. Per-URL failures never abort the run. A malformed URL is
// recorded as a failure without consulting the gate or dispatching. The
// returned error is non-nil only when ctx is canceled; the partial state
// accumulated so far is returned alongside it.
func (r *Runner) Run(ctx context.Context, urls []string, fn coursefetch.EventFunc) (*coursefetch.BatchState, error) {
	gate := r.Gate
	if gate == nil {
		gate = NewGate(DefaultMinGap)
	}
	schema := r.Schema
	if len(schema.Fields) == 0 {
		schema = coursefetch.DefaultSchema()
	}

	agg := NewAggregator(len(urls))
	total := len(urls)

	for i, url := range urls {
		if err := ctx.Err(); err != nil {
			return agg.Snapshot(), err
		}

		agg.Begin(url)
		req := coursefetch.ExtractionRequest{URL: url, Schema: schema}

		var out coursefetch.Outcome
		if err := req.Validate(); err != nil {
			out = coursefetch.Outcome{
				URL:    url,
				Kind:   coursefetch.OutcomeFailure,
				Reason: coursefetch.ErrorMessage(err),
			}
		} else {
			if err := gate.Wait(ctx); err != nil {
				agg.Abort()
				return agg.Snapshot(), err
			}
			out = r.Client.Extract(ctx, req)
		}

		agg.Observe(out)
		if fn != nil {
			fn(coursefetch.Event{Index: i, Total: total, Outcome: out})
		}
	}

	return agg.Snapshot(), nil
}
