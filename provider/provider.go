package provider

import "context"

// Provider is the interface that all LLM implementations must satisfy. It
// takes a fully rendered prompt and returns a single text completion.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
