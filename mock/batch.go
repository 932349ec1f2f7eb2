package mock

import (
	"context"

	"github.com/boldstep/coursefetch"
)

var _ coursefetch.BatchRunner = (*BatchRunner)(nil)

// BatchRunner is a mock implementation of coursefetch.BatchRunner.
type BatchRunner struct {
	RunFn func(ctx context.Context, urls []string, fn coursefetch.EventFunc) (*coursefetch.BatchState, error)
}

func (r *BatchRunner) Run(ctx context.Context, urls []string, fn coursefetch.EventFunc) (*coursefetch.BatchState, error) {
	return r.RunFn(ctx, urls, fn)
}

var _ coursefetch.BatchService = (*BatchService)(nil)

// BatchService is a mock implementation of coursefetch.BatchService.
type BatchService struct {
	CreateBatchFn func(ctx context.Context, state *coursefetch.BatchState) error
	FindBatchesFn func(ctx context.Context, limit int) ([]*coursefetch.BatchSummary, error)
}

func (s *BatchService) CreateBatch(ctx context.Context, state *coursefetch.BatchState) error {
	return s.CreateBatchFn(ctx, state)
}

func (s *BatchService) FindBatches(ctx context.Context, limit int) ([]*coursefetch.BatchSummary, error) {
	return s.FindBatchesFn(ctx, limit)
}
