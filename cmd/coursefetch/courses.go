package main

import (
	"fmt"

	"github.com/boldstep/coursefetch"
)

// Run executes the courses command.
func (c *CoursesCmd) Run(deps *Dependencies) error {
	filter := coursefetch.CourseFilter{Limit: c.Limit}
	if c.Batch != "" {
		filter.BatchID = &c.Batch
	}
	if c.Level != "" {
		filter.Level = &c.Level
	}

	courses, err := deps.Courses.FindCourses(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", coursefetch.ErrorMessage(err))
		return err
	}

	if len(courses) == 0 {
		fmt.Fprintln(deps.Stdout, "No courses found. Use 'coursefetch run' to extract some.")
		return nil
	}

	if c.Full {
		fmt.Fprintln(deps.Stdout, coursefetch.FormatCourses(courses))
		return nil
	}

	for _, course := range courses {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n", course.ID, course.Name, course.Level, course.SourceURL)
	}

	return nil
}

// Run executes the batches command.
func (c *BatchesCmd) Run(deps *Dependencies) error {
	batches, err := deps.Batches.FindBatches(deps.Ctx, c.Limit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", coursefetch.ErrorMessage(err))
		return err
	}

	if len(batches) == 0 {
		fmt.Fprintln(deps.Stdout, "No batch runs recorded yet.")
		return nil
	}

	for _, b := range batches {
		fmt.Fprintf(deps.Stdout, "%s  %s  %d urls  %d ok  %d failed\n",
			b.ID, b.StartedAt.Format("2006-01-02 15:04"), b.Total, b.SuccessCount, b.FailureCount)
	}

	return nil
}
