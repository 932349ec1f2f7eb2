// Package fs provides file-based JSON export for extracted courses.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/boldstep/coursefetch"
)

// Slugify converts a course name to a safe file name.
// Example: "MSc Computer Science (2026)" → msc-computer-science-2026
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// Ensure Exporter implements coursefetch.Exporter at compile time.
var _ coursefetch.Exporter = (*Exporter)(nil)

// Exporter writes courses as JSON files to a directory.
type Exporter struct {
	baseDir string

	mu    sync.Mutex
	slugs map[string]string // slug to the course name that claimed it
}

// NewExporter creates a new Exporter that writes to the given base directory.
func NewExporter(baseDir string) *Exporter {
	return &Exporter{
		baseDir: baseDir,
		slugs:   make(map[string]string),
	}
}

// ExportCourse writes a single course as a JSON file named after the course.
// Distinct course names that slugify identically get a numeric suffix so one
// export cannot overwrite another.
func (e *Exporter) ExportCourse(ctx context.Context, course *coursefetch.Course) error {
	if err := course.Validate(); err != nil {
		return err
	}

	return e.writeJSON(e.courseFileName(course.Name), course)
}

// courseFileName claims a file name for the named course. Re-exporting the
// same name returns the same file; a different name whose slug is already
// claimed gets the next free -N suffix.
func (e *Exporter) courseFileName(name string) string {
	slug := Slugify(name)
	if slug == "" {
		slug = "course"
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	candidate := slug
	for n := 2; ; n++ {
		owner, taken := e.slugs[candidate]
		if !taken || owner == name {
			e.slugs[candidate] = name
			return candidate + ".json"
		}
		candidate = fmt.Sprintf("%s-%d", slug, n)
	}
}

// ExportBatch writes all successful records of a run as one JSON array, named
// after the batch ID.
func (e *Exporter) ExportBatch(ctx context.Context, state *coursefetch.BatchState) error {
	if state.ID == "" {
		return coursefetch.Errorf(coursefetch.EINVALID, "batch ID required")
	}

	courses := state.Courses()
	if courses == nil {
		courses = []*coursefetch.Course{}
	}

	return e.writeJSON(fmt.Sprintf("batch-%s.json", state.ID), courses)
}

// writeJSON marshals v and writes it atomically via a temp file rename, so a
// crash mid-write never leaves a truncated export behind.
func (e *Exporter) writeJSON(name string, v any) error {
	if err := os.MkdirAll(e.baseDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	fullPath := filepath.Join(e.baseDir, name)
	tmp, err := os.CreateTemp(e.baseDir, name+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), fullPath)
}
