package coursefetch

import (
	"context"
	"strings"
	"time"
)

// Course represents a single course record extracted from a university page.
// All descriptive fields are plain strings so that a record serializes to an
// interchange format without custom logic. Only Name is required; providers
// leave fields they cannot find empty rather than erroring.
type Course struct {
	ID           string    `json:"id,omitempty"`
	Name         string    `json:"course_name"`
	Level        string    `json:"level,omitempty"`
	Fees         string    `json:"fees,omitempty"`
	IntakeDate   string    `json:"intake_date,omitempty"`
	Requirements string    `json:"requirements,omitempty"`
	Description  string    `json:"description,omitempty"`
	Duration     string    `json:"duration,omitempty"`
	SourceURL    string    `json:"source_url"`
	BatchID      string    `json:"batch_id,omitempty"`
	ExtractedAt  time.Time `json:"extracted_at,omitzero"`
}

// Validate returns an error if the course contains invalid fields.
func (c *Course) Validate() error {
	if c.Name == "" {
		return Errorf(EINVALID, "course name required")
	}
	if c.SourceURL == "" {
		return Errorf(EINVALID, "course source URL required")
	}
	return nil
}

// Key returns a normalized identity for the course used to drop duplicate
// records accepted within a single run. Courses without a name have no key.
func (c *Course) Key() string {
	return strings.ToLower(strings.TrimSpace(c.Name))
}

// Fields returns the course as a flat field-name to value mapping.
// Empty fields are omitted. The result contains only string values and is
// directly serializable by downstream export code.
func (c *Course) Fields() map[string]string {
	fields := map[string]string{
		"course_name": c.Name,
	}
	set := func(name, value string) {
		if value != "" {
			fields[name] = value
		}
	}
	set("level", c.Level)
	set("fees", c.Fees)
	set("intake_date", c.IntakeDate)
	set("requirements", c.Requirements)
	set("description", c.Description)
	set("duration", c.Duration)
	set("source_url", c.SourceURL)
	return fields
}

// CourseService represents a service for managing stored course records.
type CourseService interface {
	// CreateCourse persists a new course record.
	CreateCourse(ctx context.Context, course *Course) error

	// FindCourseByID retrieves a course by ID.
	// Returns ENOTFOUND if the course does not exist.
	FindCourseByID(ctx context.Context, id string) (*Course, error)

	// FindCourses retrieves courses matching the filter, newest first.
	FindCourses(ctx context.Context, filter CourseFilter) ([]*Course, error)

	// DeleteCourse permanently removes a course record.
	// Returns ENOTFOUND if the course does not exist.
	DeleteCourse(ctx context.Context, id string) error
}

// CourseFilter represents a filter for FindCourses.
type CourseFilter struct {
	ID        *string `json:"id"`
	SourceURL *string `json:"source_url"`
	Level     *string `json:"level"`
	BatchID   *string `json:"batch_id"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
