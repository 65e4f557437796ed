package llm

import (
	"context"
	"fmt"
	"sync"
)

// Provider builds the process-wide client on first use and hands the same
// instance to every caller. With no API key configured it yields nil and
// callers take their deterministic path.
type Provider struct {
	cfg    ClientConfig
	once   sync.Once
	client Generator
	err    error
}

// NewProvider creates a provider for cfg. Nothing is constructed until Get.
func NewProvider(cfg ClientConfig) *Provider {
	return &Provider{cfg: cfg}
}

// Get returns the memoized generator, or nil when text generation is disabled
func (p *Provider) Get() (Generator, error) {
	p.once.Do(func() {
		if p.cfg.APIKey == "" {
			return
		}
		client, err := NewClient(p.cfg)
		if err != nil {
			p.err = err
			return
		}
		p.client = client
	})
	return p.client, p.err
}

// Generate forwards to the memoized client
func (p *Provider) Generate(ctx context.Context, req Request) (string, error) {
	gen, err := p.Get()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if gen == nil {
		return "", ErrDisabled
	}
	return gen.Generate(ctx, req)
}
