// Package batch implements the sequential extraction orchestrator: a rate
// gate between dispatches, a hard per-call timeout around the provider, and
// ordered per-URL progress events with running aggregation.
package batch

import "time"

// Default policies for a batch run. Both can be overridden per run.
const (
	// DefaultTimeout bounds a single provider call.
	DefaultTimeout = 60 * time.Second

	// DefaultMinGap is the minimum spacing between successive dispatches.
	DefaultMinGap = 3 * time.Second
)
