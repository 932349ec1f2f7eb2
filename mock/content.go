package mock

import "github.com/boldstep/coursefetch"

var _ coursefetch.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of coursefetch.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(html string) (*coursefetch.PageContent, error)
}

func (e *ContentExtractor) Extract(html string) (*coursefetch.PageContent, error) {
	return e.ExtractFn(html)
}
