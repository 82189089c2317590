// Package llm wraps the text-generation providers used by the import pipeline
// and the ordered fallback chain that tries them in turn.
package llm

import (
	"context"
)

// Provider is a single text-completion service that answers a prompt with JSON.
// Implementations return the raw model text; callers clean and decode it.
type Provider interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}
