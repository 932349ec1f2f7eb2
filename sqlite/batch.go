package sqlite

import (
	"context"
	"time"

	"github.com/boldstep/coursefetch"
)

// Compile-time interface verification.
var _ coursefetch.BatchService = (*BatchService)(nil)

// BatchService implements coursefetch.BatchService using SQLite.
type BatchService struct {
	db *DB
}

// NewBatchService creates a new BatchService.
func NewBatchService(db *DB) *BatchService {
	return &BatchService{db: db}
}

// CreateBatch records the summary of a completed run.
func (s *BatchService) CreateBatch(ctx context.Context, state *coursefetch.BatchState) error {
	if state.ID == "" {
		return coursefetch.Errorf(coursefetch.EINVALID, "batch ID required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO batches (id, total, success_count, failure_count, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, state.ID, state.Total, state.SuccessCount, state.FailureCount,
		state.StartedAt.Format(time.RFC3339))

	return err
}

// FindBatches retrieves recorded run summaries, newest first.
func (s *BatchService) FindBatches(ctx context.Context, limit int) ([]*coursefetch.BatchSummary, error) {
	query := "SELECT id, total, success_count, failure_count, started_at FROM batches ORDER BY started_at DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []*coursefetch.BatchSummary
	for rows.Next() {
		var b coursefetch.BatchSummary
		var startedAt string

		if err := rows.Scan(&b.ID, &b.Total, &b.SuccessCount, &b.FailureCount, &startedAt); err != nil {
			return nil, err
		}

		b.StartedAt, err = parseRFC3339(startedAt, "started_at")
		if err != nil {
			return nil, err
		}

		batches = append(batches, &b)
	}

	return batches, rows.Err()
}
