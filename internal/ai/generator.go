// Package ai implements the natural-language expense extraction
// pipeline: building a prompt around the user's existing taxonomy,
// calling a text-generation model, and parsing the model's JSON output
// into expense items.
package ai

import "context"

// Generator produces text from a prompt. The chat pipeline depends on
// this single-method interface so tests can substitute a deterministic
// stub returning canned JSON.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
