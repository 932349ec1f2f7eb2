package coursefetch

import (
	"fmt"
	"strings"
)

// FormatCourses formats course records for terminal display.
// Uses the course name as the header, falls back to the source URL.
// Records are separated by blank lines.
func FormatCourses(courses []*Course) string {
	if len(courses) == 0 {
		return ""
	}

	parts := make([]string, 0, len(courses))
	for _, c := range courses {
		header := c.Name
		if header == "" {
			header = c.SourceURL
		}

		var b strings.Builder
		b.WriteString(header)
		line := func(label, value string) {
			if value != "" {
				fmt.Fprintf(&b, "\n  %s: %s", label, value)
			}
		}
		line("Level", c.Level)
		line("Duration", c.Duration)
		line("Fees", c.Fees)
		line("Intake", c.IntakeDate)
		line("Requirements", c.Requirements)
		line("Source", c.SourceURL)
		parts = append(parts, b.String())
	}

	return strings.Join(parts, "\n\n")
}
