package mock

import (
	"context"

	"github.com/boldstep/coursefetch"
)

var _ coursefetch.Provider = (*Provider)(nil)

// Provider is a mock implementation of coursefetch.Provider.
type Provider struct {
	ExtractFn func(ctx context.Context, req coursefetch.ExtractionRequest) (*coursefetch.Course, error)
	NameFn    func() string
}

func (p *Provider) Extract(ctx context.Context, req coursefetch.ExtractionRequest) (*coursefetch.Course, error) {
	return p.ExtractFn(ctx, req)
}

func (p *Provider) Name() string {
	if p.NameFn == nil {
		return "mock"
	}
	return p.NameFn()
}
