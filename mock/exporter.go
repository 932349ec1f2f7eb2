package mock

import (
	"context"

	"github.com/boldstep/coursefetch"
)

var _ coursefetch.Exporter = (*Exporter)(nil)

// Exporter is a mock implementation of coursefetch.Exporter.
type Exporter struct {
	ExportCourseFn func(ctx context.Context, course *coursefetch.Course) error
	ExportBatchFn  func(ctx context.Context, state *coursefetch.BatchState) error
}

func (e *Exporter) ExportCourse(ctx context.Context, course *coursefetch.Course) error {
	return e.ExportCourseFn(ctx, course)
}

func (e *Exporter) ExportBatch(ctx context.Context, state *coursefetch.BatchState) error {
	return e.ExportBatchFn(ctx, state)
}
