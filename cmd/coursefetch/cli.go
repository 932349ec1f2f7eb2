package main

import (
	"context"
	"io"
	"time"

	"github.com/boldstep/coursefetch"
	"github.com/boldstep/coursefetch/prometheus"
	"github.com/boldstep/coursefetch/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	DB       *sqlite.DB
	Courses  coursefetch.CourseService
	Batches  coursefetch.BatchService
	Runner   coursefetch.BatchRunner
	Exporter coursefetch.Exporter
	Metrics  *prometheus.Metrics
	Provider string
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Run     RunCmd     `cmd:"" help:"Extract course data from a list of URLs"`
	Courses CoursesCmd `cmd:"" help:"List stored course records"`
	Batches BatchesCmd `cmd:"" help:"List recorded batch runs"`
	Export  ExportCmd  `cmd:"" help:"Export stored courses as JSON files"`
	Delete  DeleteCmd  `cmd:"" help:"Delete a stored course record"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	URLs        []string      `arg:"" optional:"" help:"Course page URLs"`
	File        string        `short:"f" help:"File with one URL per line"`
	Provider    string        `short:"p" default:"firecrawl" enum:"firecrawl,gemini,page" help:"Extraction provider"`
	Timeout     time.Duration `default:"60s" help:"Per-URL extraction timeout"`
	Gap         time.Duration `default:"3s" help:"Minimum gap between dispatches"`
	Schema      string        `short:"s" help:"YAML schema file (defaults to the built-in course schema)"`
	Render      bool          `help:"Fetch pages with headless Chrome (gemini and page providers)"`
	Extractor   string        `default:"trafilatura" enum:"trafilatura,readability" help:"Boilerplate removal for the gemini provider"`
	Out         string        `short:"o" help:"Directory for JSON exports"`
	NoSave      bool          `help:"Skip saving results to the database"`
	Verbose     bool          `short:"v" help:"Log each extraction call"`
	MetricsAddr string        `help:"Serve Prometheus metrics on this address (e.g. :9090)"`
}

// CoursesCmd is the "courses" subcommand.
type CoursesCmd struct {
	Batch string `help:"Filter by batch ID"`
	Level string `help:"Filter by course level"`
	Limit int    `default:"50" help:"Maximum records to list"`
	Full  bool   `help:"Show all stored fields"`
}

// BatchesCmd is the "batches" subcommand.
type BatchesCmd struct {
	Limit int `default:"20" help:"Maximum runs to list"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Batch string `help:"Export only courses from this batch"`
	Out   string `short:"o" default:"exports" help:"Output directory"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Course ID"`
	Force bool   `help:"Confirm deletion"`
}
