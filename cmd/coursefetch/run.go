package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/boldstep/coursefetch"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	urls, err := c.collectURLs()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", coursefetch.ErrorMessage(err))
		return err
	}
	if len(urls) == 0 {
		fmt.Fprintf(deps.Stderr, "error: no URLs given. Pass URLs as arguments or use --file.\n")
		return coursefetch.Errorf(coursefetch.EINVALID, "no URLs given")
	}

	fmt.Fprintf(deps.Stdout, "Processing %d URLs with the %s provider\n", len(urls), deps.Provider)

	fn := func(ev coursefetch.Event) {
		printEvent(deps, ev)
	}
	if deps.Metrics != nil {
		fn = deps.Metrics.EventFunc(fn)
	}

	state, runErr := deps.Runner.Run(deps.Ctx, urls, fn)
	if runErr != nil {
		fmt.Fprintf(deps.Stderr, "run interrupted: %s\n", runErr)
	}

	saved, err := c.persist(deps, state)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", coursefetch.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Done: %d succeeded, %d failed", state.SuccessCount, state.FailureCount)
	if !c.NoSave {
		fmt.Fprintf(deps.Stdout, ", %d unique courses saved", saved)
	}
	fmt.Fprintln(deps.Stdout)

	return runErr
}

// collectURLs merges positional URLs with the contents of --file.
// Blank lines and lines starting with # are skipped.
func (c *RunCmd) collectURLs() ([]string, error) {
	urls := append([]string{}, c.URLs...)

	if c.File == "" {
		return urls, nil
	}

	f, err := os.Open(c.File)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, coursefetch.Errorf(coursefetch.ENOTFOUND, "URL file %q not found", c.File)
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

// persist saves and exports the run results. Courses carrying the same name
// (case-insensitive) are saved once; later duplicates are skipped.
func (c *RunCmd) persist(deps *Dependencies, state *coursefetch.BatchState) (int, error) {
	courses := dedupCourses(state.Courses())

	if deps.Exporter != nil {
		for _, course := range courses {
			if err := deps.Exporter.ExportCourse(deps.Ctx, course); err != nil {
				return 0, err
			}
		}
		if err := deps.Exporter.ExportBatch(deps.Ctx, state); err != nil {
			return 0, err
		}
	}

	if c.NoSave {
		return 0, nil
	}

	for _, course := range courses {
		course.BatchID = state.ID
		if err := deps.Courses.CreateCourse(deps.Ctx, course); err != nil {
			return 0, err
		}
	}
	if err := deps.Batches.CreateBatch(deps.Ctx, state); err != nil {
		return 0, err
	}

	return len(courses), nil
}

// dedupCourses drops courses whose name already appeared, keeping the first.
func dedupCourses(courses []*coursefetch.Course) []*coursefetch.Course {
	seen := make(map[string]bool, len(courses))
	var out []*coursefetch.Course
	for _, course := range courses {
		key := course.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, course)
	}
	return out
}

func printEvent(deps *Dependencies, ev coursefetch.Event) {
	prefix := fmt.Sprintf("[%d/%d]", ev.Index+1, ev.Total)
	out := ev.Outcome
	switch out.Kind {
	case coursefetch.OutcomeSuccess:
		fmt.Fprintf(deps.Stdout, "%s ok      %s (%.1fs) %s\n",
			prefix, out.URL, out.Elapsed.Seconds(), out.Course.Name)
	case coursefetch.OutcomeTimeout:
		fmt.Fprintf(deps.Stdout, "%s timeout %s (%.1fs)\n",
			prefix, out.URL, out.Elapsed.Seconds())
	default:
		fmt.Fprintf(deps.Stdout, "%s failed  %s: %s\n",
			prefix, out.URL, out.Reason)
	}
}
