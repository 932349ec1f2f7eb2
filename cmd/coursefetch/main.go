package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/boldstep/coursefetch"
	"github.com/boldstep/coursefetch/batch"
	"github.com/boldstep/coursefetch/firecrawl"
	"github.com/boldstep/coursefetch/fs"
	"github.com/boldstep/coursefetch/gemini"
	"github.com/boldstep/coursefetch/goquery"
	cfhttp "github.com/boldstep/coursefetch/http"
	cfprom "github.com/boldstep/coursefetch/prometheus"
	"github.com/boldstep/coursefetch/readability"
	"github.com/boldstep/coursefetch/rod"
	cfslog "github.com/boldstep/coursefetch/slog"
	"github.com/boldstep/coursefetch/sqlite"
	"github.com/boldstep/coursefetch/trafilatura"
	"github.com/boldstep/coursefetch/yaml"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	CourseService coursefetch.CourseService
	BatchService  coursefetch.BatchService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("coursefetch"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'coursefetch --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set COURSEFETCH_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.CourseService = sqlite.NewCourseService(m.DB)
	m.BatchService = sqlite.NewBatchService(m.DB)
	deps.DB = m.DB
	deps.Courses = m.CourseService
	deps.Batches = m.BatchService

	if cmd == "run" {
		cleanup, err := m.wireRun(ctx, cli, deps, stderr)
		if err != nil {
			return err
		}
		defer cleanup()
	}
	if cmd == "export" {
		deps.Exporter = fs.NewExporter(cli.Export.Out)
	}

	return kongCtx.Run(deps)
}

// wireRun builds the provider, runner and exporter for the run command.
// The returned cleanup releases the fetcher once the run finishes.
func (m *Main) wireRun(ctx context.Context, cli *CLI, deps *Dependencies, stderr io.Writer) (func(), error) {
	cleanup := func() {}

	var fetcher coursefetch.Fetcher
	if cli.Run.Provider != "firecrawl" {
		if cli.Run.Render {
			f, err := rod.NewFetcher()
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --render")
				return nil, fmt.Errorf("failed to start browser: %w", err)
			}
			fetcher = f
			cleanup = func() { _ = f.Close() }
		} else {
			fetcher = cfhttp.NewFetcher()
		}
	}

	provider, err := buildProvider(ctx, cli, fetcher, stderr)
	if err != nil {
		cleanup()
		return nil, err
	}
	deps.Provider = provider.Name()

	logger := slog.New(slog.NewTextHandler(stderr, nil))
	if cli.Run.Verbose {
		provider = cfslog.NewLoggingProvider(provider, logger)
	}

	schema := coursefetch.DefaultSchema()
	if cli.Run.Schema != "" {
		schema, err = yaml.NewLoader().Load(cli.Run.Schema)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to load schema: %w", err)
		}
	}

	var runner coursefetch.BatchRunner = &batch.Runner{
		Client: batch.NewClient(provider, batch.WithTimeout(cli.Run.Timeout)),
		Gate:   batch.NewGate(cli.Run.Gap),
		Schema: schema,
	}
	if cli.Run.Verbose {
		runner = cfslog.NewLoggingRunner(runner, logger)
	}
	deps.Runner = runner

	if cli.Run.Out != "" {
		deps.Exporter = fs.NewExporter(cli.Run.Out)
	}

	if cli.Run.MetricsAddr != "" {
		deps.Metrics = cfprom.NewMetrics(prometheus.DefaultRegisterer)
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cli.Run.MetricsAddr, mux); err != nil {
				fmt.Fprintf(stderr, "metrics server: %s\n", err)
			}
		}()
	}

	return cleanup, nil
}

// buildProvider constructs the extraction provider selected by the run flags.
func buildProvider(ctx context.Context, cli *CLI, fetcher coursefetch.Fetcher, stderr io.Writer) (coursefetch.Provider, error) {
	switch cli.Run.Provider {
	case "firecrawl":
		apiKey := os.Getenv("FIRECRAWL_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "FIRECRAWL_API_KEY environment variable not set. Get an API key at https://firecrawl.dev")
			return nil, fmt.Errorf("FIRECRAWL_API_KEY not set")
		}
		return firecrawl.NewProvider(apiKey)

	case "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return nil, fmt.Errorf("GEMINI_API_KEY not set")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		var content coursefetch.ContentExtractor = trafilatura.NewExtractor()
		if cli.Run.Extractor == "readability" {
			content = readability.NewExtractor()
		}
		return gemini.NewProvider(client, fetcher, content), nil

	case "page":
		return goquery.NewProvider(fetcher), nil

	default:
		return nil, coursefetch.Errorf(coursefetch.EINVALID, "unknown provider %q", cli.Run.Provider)
	}
}

func defaultDBPath() string {
	if path := os.Getenv("COURSEFETCH_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "coursefetch.db"
	}
	dir := filepath.Join(home, ".coursefetch")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "coursefetch.db")
}
