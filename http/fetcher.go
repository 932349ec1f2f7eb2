// Package http provides an HTTP-based implementation of coursefetch.Fetcher
// for retrieving course pages that local extraction providers parse
// themselves.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/boldstep/coursefetch"
)

// DefaultFetchTimeout is the default timeout for HTTP requests. The batch
// client enforces its own per-call deadline on top of this.
const DefaultFetchTimeout = 30 * time.Second

// userAgent identifies the fetcher to origin servers. University sites
// commonly reject requests with no or a default Go user agent.
const userAgent = "Mozilla/5.0 (compatible; coursefetch/1.0; +https://github.com/boldstep/coursefetch)"

// maxBodySize caps the response body read (4 MiB). Course pages beyond this
// are truncated rather than exhausting memory.
const maxBodySize = 4 << 20

// Ensure Fetcher implements coursefetch.Fetcher at compile time.
var _ coursefetch.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using plain HTTP requests.
// It does not execute JavaScript; pages that render their content
// client-side need a hosted extraction provider instead.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL. Non-2xx responses are
// mapped onto the application error taxonomy so callers can classify the
// failure without inspecting status codes.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", coursefetch.Errorf(coursefetch.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode, url); err != nil {
		return "", err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

func statusError(code int, url string) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return coursefetch.Errorf(coursefetch.ENOTFOUND, "page not found: HTTP %d for %s", code, url)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return coursefetch.Errorf(coursefetch.EUNAUTHORIZED, "access denied: HTTP %d for %s", code, url)
	case code == http.StatusTooManyRequests:
		return coursefetch.Errorf(coursefetch.EUNAVAILABLE, "rate limited: HTTP %d for %s", code, url)
	case code >= 500:
		return coursefetch.Errorf(coursefetch.EUNAVAILABLE, "server error: HTTP %d for %s", code, url)
	default:
		return coursefetch.Errorf(coursefetch.EINTERNAL, "unexpected HTTP %d for %s", code, url)
	}
}
