package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"strings"
	"time"

	"github.com/boldstep/coursefetch"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ coursefetch.CourseService = (*CourseService)(nil)

// CourseService implements coursefetch.CourseService using SQLite.
type CourseService struct {
	db *DB
}

// NewCourseService creates a new CourseService.
func NewCourseService(db *DB) *CourseService {
	return &CourseService{db: db}
}

// hashCourse computes xxHash over the extracted field values and returns a
// hex string. Two records with the same hash carry identical extracted data
// even when saved under different batches.
func hashCourse(course *coursefetch.Course) string {
	h := xxhash.Sum64String(strings.Join([]string{
		course.Name, course.Level, course.Fees, course.IntakeDate,
		course.Requirements, course.Description, course.Duration,
	}, "\x1f"))
	b := make([]byte, 8)
	b[0] = byte(h >> 56)
	b[1] = byte(h >> 48)
	b[2] = byte(h >> 40)
	b[3] = byte(h >> 32)
	b[4] = byte(h >> 24)
	b[5] = byte(h >> 16)
	b[6] = byte(h >> 8)
	b[7] = byte(h)
	return hex.EncodeToString(b)
}

// CreateCourse creates a new course record.
func (s *CourseService) CreateCourse(ctx context.Context, course *coursefetch.Course) error {
	if err := course.Validate(); err != nil {
		return err
	}

	course.ID = uuid.New().String()
	if course.ExtractedAt.IsZero() {
		course.ExtractedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO courses (id, batch_id, name, level, fees, intake_date, requirements, description, duration, source_url, content_hash, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, course.ID, course.BatchID, course.Name, course.Level, course.Fees, course.IntakeDate,
		course.Requirements, course.Description, course.Duration, course.SourceURL,
		hashCourse(course), course.ExtractedAt.Format(time.RFC3339))

	return err
}

// FindCourseByID retrieves a course by ID.
func (s *CourseService) FindCourseByID(ctx context.Context, id string) (*coursefetch.Course, error) {
	var course coursefetch.Course
	var extractedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, batch_id, name, level, fees, intake_date, requirements, description, duration, source_url, extracted_at
		FROM courses
		WHERE id = ?
	`, id).Scan(&course.ID, &course.BatchID, &course.Name, &course.Level, &course.Fees,
		&course.IntakeDate, &course.Requirements, &course.Description, &course.Duration,
		&course.SourceURL, &extractedAt)

	if err == sql.ErrNoRows {
		return nil, coursefetch.Errorf(coursefetch.ENOTFOUND, "course not found")
	}
	if err != nil {
		return nil, err
	}

	course.ExtractedAt, err = parseRFC3339(extractedAt, "extracted_at")
	if err != nil {
		return nil, err
	}

	return &course, nil
}

// FindCourses retrieves courses matching the filter, newest first.
func (s *CourseService) FindCourses(ctx context.Context, filter coursefetch.CourseFilter) ([]*coursefetch.Course, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, batch_id, name, level, fees, intake_date, requirements, description, duration, source_url, extracted_at FROM courses WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.BatchID != nil {
		query.WriteString(" AND batch_id = ?")
		args = append(args, *filter.BatchID)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}
	if filter.Level != nil {
		query.WriteString(" AND level = ?")
		args = append(args, *filter.Level)
	}

	query.WriteString(" ORDER BY extracted_at DESC, name ASC")

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*coursefetch.Course
	for rows.Next() {
		var course coursefetch.Course
		var extractedAt string

		if err := rows.Scan(&course.ID, &course.BatchID, &course.Name, &course.Level, &course.Fees,
			&course.IntakeDate, &course.Requirements, &course.Description, &course.Duration,
			&course.SourceURL, &extractedAt); err != nil {
			return nil, err
		}

		course.ExtractedAt, err = parseRFC3339(extractedAt, "extracted_at")
		if err != nil {
			return nil, err
		}

		courses = append(courses, &course)
	}

	return courses, rows.Err()
}

// DeleteCourse permanently removes a course record.
func (s *CourseService) DeleteCourse(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM courses WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return coursefetch.Errorf(coursefetch.ENOTFOUND, "course not found")
	}

	return nil
}
