package models

import "context"

// Provider defines the interface for LLM backends.
type Provider interface {
	// Generate sends the conversation so far to the model and returns its
	// next turn. A response may be returned together with an error when the
	// model stopped early (e.g. ErrContextLengthExceeded).
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// Model returns the active model name.
	Model() string
}
