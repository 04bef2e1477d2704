package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/mika/domain"
	"github.com/satriahrh/mika/domain/repositories"
)

// TranscriptionService turns a stored recording into trimmed text
type TranscriptionService struct {
	speechToText repositories.SpeechToText
	timeout      time.Duration
	logger       *zap.Logger
}

// NewTranscriptionService creates a new transcription service
func NewTranscriptionService(stt repositories.SpeechToText, timeout time.Duration, logger *zap.Logger) *TranscriptionService {
	return &TranscriptionService{
		speechToText: stt,
		timeout:      timeout,
		logger:       logger,
	}
}

// Transcribe makes a single attempt against the speech recognizer. An empty
// transcript is returned as-is; deciding what it means is up to the caller.
func (s *TranscriptionService) Transcribe(ctx context.Context, audioPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.speechToText.TranscribeFile(ctx, audioPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSTTFailure, err)
	}

	text = strings.TrimSpace(text)
	s.logger.Info("Transcription completed",
		zap.String("path", audioPath),
		zap.Int("length", len(text)))

	return text, nil
}
