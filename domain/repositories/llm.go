package repositories

import "context"

// LargeLanguageModel abstracts any chat/LLM provider
type LargeLanguageModel interface {
	// Generate sends the prompt to the named model and returns its reply
	Generate(ctx context.Context, model string, prompt string) (string, error)
}
