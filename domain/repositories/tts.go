package repositories

import "context"

// TextToSpeech abstracts speech synthesis services
type TextToSpeech interface {
	// Synthesize converts text to speech and returns a URL the client can play
	Synthesize(ctx context.Context, text string) (string, error)
}
