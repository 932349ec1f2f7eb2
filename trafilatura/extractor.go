// Package trafilatura extracts main page content for local extraction
// providers, stripping navigation, footers and other boilerplate so a
// language model sees only the course description itself.
package trafilatura

import (
	"strings"

	"github.com/boldstep/coursefetch"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements coursefetch.ContentExtractor at compile time.
var _ coursefetch.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the page title and main text.
func (e *Extractor) Extract(rawHTML string) (*coursefetch.PageContent, error) {
	if rawHTML == "" {
		return nil, coursefetch.Errorf(coursefetch.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	return &coursefetch.PageContent{
		Title: result.Metadata.Title,
		Text:  result.ContentText,
	}, nil
}
