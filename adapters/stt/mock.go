package stt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/mika/domain/repositories"
)

// MockSpeechToText is an offline implementation for local runs.
// A .txt upload is returned verbatim so a conversation can be scripted;
// any other file gets a canned line chosen by size.
type MockSpeechToText struct {
	logger *zap.Logger
}

var _ repositories.SpeechToText = (*MockSpeechToText)(nil)

// NewMockSpeechToText creates a new mock speech-to-text service
func NewMockSpeechToText(logger *zap.Logger) *MockSpeechToText {
	return &MockSpeechToText{logger: logger}
}

// TranscribeFile implements repositories.SpeechToText
func (s *MockSpeechToText) TranscribeFile(ctx context.Context, audioPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to read audio file: %w", err)
	}

	s.logger.Info("Processing mock transcription",
		zap.String("path", audioPath),
		zap.Int("audioSize", len(data)))

	if strings.EqualFold(filepath.Ext(audioPath), ".txt") {
		return string(data), nil
	}

	switch {
	case len(data) > 10000:
		return "Hello, how are you today? I want to tell you about my day.", nil
	case len(data) > 1000:
		return "Thanks for listening.", nil
	case len(data) > 0:
		return "Hi", nil
	default:
		return "", nil
	}
}
