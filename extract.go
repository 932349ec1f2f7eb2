package coursefetch

import (
	"context"
	"net/url"
)

// ExtractionRequest describes one extraction call: the page URL and the
// schema of fields to extract. Requests are immutable once created.
type ExtractionRequest struct {
	URL    string
	Schema Schema
}

// Validate returns an error if the request URL is empty or not an absolute
// http(s) URL. Invalid requests are never dispatched to a provider.
func (r ExtractionRequest) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "request URL required")
	}
	u, err := url.Parse(r.URL)
	if err != nil {
		return Errorf(EINVALID, "invalid URL %q: %v", r.URL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Errorf(EINVALID, "invalid URL %q: scheme and host required", r.URL)
	}
	return nil
}

// Provider performs a single remote extraction call for one URL.
// Implementations hide the transport: a hosted extraction API, or a local
// fetch-and-parse pipeline. Exactly one outbound call per invocation and no
// internal retries; retry policy, if any, belongs to the caller.
type Provider interface {
	// Extract submits the URL and schema and blocks until the provider
	// returns a course record or an error. The context controls timeout
	// and cancellation.
	Extract(ctx context.Context, req ExtractionRequest) (*Course, error)

	// Name returns the provider's identifier (e.g. "firecrawl").
	Name() string
}

// Fetcher retrieves raw HTML from URLs for local extraction providers.
type Fetcher interface {
	// Fetch retrieves the page body at the given URL.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// PageContent holds the main content of a page with boilerplate removed.
type PageContent struct {
	// Title is the page title taken from metadata.
	Title string

	// Text is the main content as plain text.
	Text string
}

// ContentExtractor extracts main content from HTML, removing navigation,
// footers and other boilerplate before a provider inspects the page.
type ContentExtractor interface {
	Extract(html string) (*PageContent, error)
}
