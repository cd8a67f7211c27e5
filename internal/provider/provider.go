// Package provider defines the interface for communicating with an LLM
// inference backend and the message types shared across the system.
package provider

import "context"

// Provider is the interface for communicating with an LLM. Concrete
// implementations live in separate packages (e.g. provider.workersai)
// and typically also implement core.Module for lifecycle management.
//
// Model selection is fixed at configuration time; there are no
// per-request overrides.
type Provider interface {
	// Complete sends a completion request and returns the full response.
	// A response with empty Content is not an error; callers decide how
	// to handle degenerate output.
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)

	// ModelName returns the identifier of the underlying model.
	ModelName() string
}
