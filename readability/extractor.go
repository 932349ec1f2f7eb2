// Package readability provides a content extractor based on go-readability.
// It tends to keep more of the page than trafilatura, which helps on course
// pages where fee tables sit outside the main article element.
package readability

import (
	"strings"

	"github.com/boldstep/coursefetch"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements coursefetch.ContentExtractor at compile time.
var _ coursefetch.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content as plain text.
func (e *Extractor) Extract(rawHTML string) (*coursefetch.PageContent, error) {
	if rawHTML == "" {
		return nil, coursefetch.Errorf(coursefetch.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &coursefetch.PageContent{
		Title: article.Title,
		Text:  strings.TrimSpace(article.TextContent),
	}, nil
}
