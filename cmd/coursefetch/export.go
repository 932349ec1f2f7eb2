package main

import (
	"fmt"

	"github.com/boldstep/coursefetch"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	filter := coursefetch.CourseFilter{}
	if c.Batch != "" {
		filter.BatchID = &c.Batch
	}

	courses, err := deps.Courses.FindCourses(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", coursefetch.ErrorMessage(err))
		return err
	}

	if len(courses) == 0 {
		fmt.Fprintf(deps.Stderr, "error: no courses to export. Use 'coursefetch run' to extract some.\n")
		return coursefetch.Errorf(coursefetch.ENOTFOUND, "no courses to export")
	}

	for _, course := range courses {
		if err := deps.Exporter.ExportCourse(deps.Ctx, course); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", coursefetch.ErrorMessage(err))
			return err
		}
	}

	fmt.Fprintf(deps.Stdout, "Exported %d courses to %s\n", len(courses), c.Out)
	return nil
}

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return coursefetch.Errorf(coursefetch.EINVALID, "use --force to confirm deletion")
	}

	course, err := deps.Courses.FindCourseByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", coursefetch.ErrorMessage(err))
		return err
	}

	if err := deps.Courses.DeleteCourse(deps.Ctx, course.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", coursefetch.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted course %q\n", course.Name)
	return nil
}
