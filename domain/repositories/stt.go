package repositories

import "context"

// SpeechToText abstracts speech recognition services
type SpeechToText interface {
	// TranscribeFile converts a stored audio file to text
	TranscribeFile(ctx context.Context, audioPath string) (string, error)
}
