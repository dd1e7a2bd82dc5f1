package llm

import "context"

// Provider is the interface answer generation talks to. Implementations
// wrap a single upstream model API.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
