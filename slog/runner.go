package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/boldstep/coursefetch"
)

// Ensure LoggingRunner implements coursefetch.BatchRunner.
var _ coursefetch.BatchRunner = (*LoggingRunner)(nil)

// LoggingRunner wraps a BatchRunner with run-level and per-outcome logging.
type LoggingRunner struct {
	next   coursefetch.BatchRunner
	logger *slog.Logger
}

// NewLoggingRunner creates a new LoggingRunner.
func NewLoggingRunner(next coursefetch.BatchRunner, logger *slog.Logger) *LoggingRunner {
	return &LoggingRunner{next: next, logger: logger}
}

// Run delegates to the wrapped runner, logging each outcome as it arrives
// and a summary when the run finishes.
func (r *LoggingRunner) Run(ctx context.Context, urls []string, fn coursefetch.EventFunc) (state *coursefetch.BatchState, err error) {
	defer func(begin time.Time) {
		if state == nil {
			return
		}
		r.logger.Info("batch finished",
			"batch", state.ID,
			"total", state.Total,
			"succeeded", state.SuccessCount,
			"failed", state.FailureCount,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())

	wrapped := func(ev coursefetch.Event) {
		r.logger.Info("url processed",
			"index", ev.Index+1,
			"total", ev.Total,
			"url", ev.Outcome.URL,
			"outcome", ev.Outcome.Kind,
			"reason", ev.Outcome.Reason,
			"elapsed", ev.Outcome.Elapsed,
		)
		if fn != nil {
			fn(ev)
		}
	}

	return r.next.Run(ctx, urls, wrapped)
}
