package tts

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/mika/domain/repositories"
)

// MockTextToSpeech answers every request with a fixed audio URL
type MockTextToSpeech struct {
	audioURL string
	logger   *zap.Logger
}

var _ repositories.TextToSpeech = (*MockTextToSpeech)(nil)

// NewMockTextToSpeech creates a mock that always returns audioURL
func NewMockTextToSpeech(audioURL string, logger *zap.Logger) *MockTextToSpeech {
	return &MockTextToSpeech{audioURL: audioURL, logger: logger}
}

// Synthesize implements repositories.TextToSpeech
func (m *MockTextToSpeech) Synthesize(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("text cannot be empty")
	}

	m.logger.Info("Mock synthesis", zap.Int("textLength", len(text)))
	return m.audioURL, nil
}
