package port

import "context"

// GenerateOptions tunes a single text-generation call.
type GenerateOptions struct {
	// System is an optional fixed instruction sent ahead of the prompt.
	System string
	// MaxTokens bounds the size of the answer. Zero leaves the provider default.
	MaxTokens int
	// JSONObject asks the provider to constrain its answer to a JSON object when it can.
	JSONObject bool
}

// Generator abstracts a language model as a prompt-in, text-out function.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// JSONObjectCapable is implemented by generators whose JSON object mode guarantees
// the answer decodes as a single JSON object.
type JSONObjectCapable interface {
	SupportsJSONObject() bool
}
