package provider

import "context"

// Provider is the capability contract every backend must implement. Backends
// compose around Base for validation and structured-output plumbing and
// substitute only their own transport, gating, and failure handling.
type Provider interface {
	// Name returns the backend identifier (e.g. "claude-code", "openai").
	Name() string

	// ValidateParams rejects requests the backend cannot serve, before any
	// external call is attempted. An unsupported model identifier is an
	// immediate, non-retryable failure.
	ValidateParams(req Request) error

	// Generate sends a blocking request and returns the full response.
	Generate(ctx context.Context, req Request) (*Response, error)

	// GenerateStream sends a request and returns a channel of stream events.
	// The channel is closed after the finish or error event.
	GenerateStream(ctx context.Context, req Request) (<-chan StreamEvent, error)

	// GenerateStructured generates output conforming to a JSON schema and
	// returns the decoded object.
	GenerateStructured(ctx context.Context, req Request, schema map[string]interface{}) (map[string]interface{}, error)
}

// Closer is implemented by providers that hold resources.
type Closer interface {
	Close() error
}

// Initializer is implemented by providers that need startup validation.
type Initializer interface {
	Initialize() error
}
