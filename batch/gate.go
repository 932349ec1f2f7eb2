package batch

import (
	"context"
	"time"

	"github.com/boldstep/coursefetch"
	"golang.org/x/time/rate"
)

var _ coursefetch.Limiter = (*Gate)(nil)

// Gate enforces a minimum gap between successive dispatches to the
// extraction provider using a token bucket with burst 1. A fresh Gate starts
// with a full bucket, so the first Wait never blocks. Construct one Gate per
// batch run; a new run must not inherit a prior run's timing.
type Gate struct {
	limiter *rate.Limiter
}

// NewGate creates a Gate with the given minimum gap between dispatches.
// A non-positive gap disables limiting.
func NewGate(minGap time.Duration) *Gate {
	if minGap <= 0 {
		return &Gate{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Gate{limiter: rate.NewLimiter(rate.Every(minGap), 1)}
}

// Wait blocks until the next dispatch is allowed.
// Returns an error if the context is canceled before the wait completes.
func (g *Gate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}
