// Package llm talks to an OpenAI-compatible chat-completions endpoint.
package llm

import (
	"context"
	"errors"
)

// ErrUpstreamUnavailable is returned for every failure to obtain text from the
// model: transport errors, timeouts, non-2xx responses, empty output and
// local rate limiting.
var ErrUpstreamUnavailable = errors.New("text generation unavailable")

// ErrDisabled is returned when no API key is configured
var ErrDisabled = errors.New("text generation disabled")

// Request is a single-turn generation request
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Generator produces text for a prompt
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

// Generate calls f
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
