// Package slog provides logging decorators for coursefetch services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/boldstep/coursefetch"
)

// Ensure LoggingProvider implements coursefetch.Provider.
var _ coursefetch.Provider = (*LoggingProvider)(nil)

// LoggingProvider wraps a Provider with per-call logging.
type LoggingProvider struct {
	next   coursefetch.Provider
	logger *slog.Logger
}

// NewLoggingProvider creates a new LoggingProvider.
func NewLoggingProvider(next coursefetch.Provider, logger *slog.Logger) *LoggingProvider {
	return &LoggingProvider{next: next, logger: logger}
}

// Extract delegates to the wrapped provider and logs the call.
func (p *LoggingProvider) Extract(ctx context.Context, req coursefetch.ExtractionRequest) (course *coursefetch.Course, err error) {
	defer func(begin time.Time) {
		name := ""
		if course != nil {
			name = course.Name
		}
		p.logger.Info("extraction",
			"provider", p.next.Name(),
			"url", req.URL,
			"course", name,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Extract(ctx, req)
}

// Name delegates to the wrapped provider.
func (p *LoggingProvider) Name() string {
	return p.next.Name()
}
