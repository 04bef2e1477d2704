package stt

import (
	"context"
	"fmt"
	"os"
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"

	"github.com/satriahrh/mika/domain/repositories"
)

// AssemblyAIConfig holds configuration for AssemblyAISpeechToText
type AssemblyAIConfig struct {
	APIKey   string // Required
	BaseURL  string // Optional
	Language string // Optional: BCP-47 tag such as en-US
}

// AssemblyAISpeechToText implements SpeechToText with AssemblyAI's
// upload-then-poll transcription API
type AssemblyAISpeechToText struct {
	client   *aai.Client
	language string
	logger   *zap.Logger
}

var _ repositories.SpeechToText = (*AssemblyAISpeechToText)(nil)

// NewAssemblyAISpeechToText creates a new AssemblyAI client
func NewAssemblyAISpeechToText(config AssemblyAIConfig, logger *zap.Logger) (*AssemblyAISpeechToText, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("AssemblyAI API key is required")
	}

	opts := []aai.ClientOption{aai.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, aai.WithBaseURL(config.BaseURL))
		logger.Info("Using custom AssemblyAI base URL", zap.String("baseURL", config.BaseURL))
	}

	return &AssemblyAISpeechToText{
		client:   aai.NewClientWithOptions(opts...),
		language: config.Language,
		logger:   logger,
	}, nil
}

// TranscribeFile uploads the recording and waits for the finished transcript
func (a *AssemblyAISpeechToText) TranscribeFile(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	var params *aai.TranscriptOptionalParams
	if code := languageCode(a.language); code != "" {
		params = &aai.TranscriptOptionalParams{LanguageCode: aai.TranscriptLanguageCode(code)}
	}

	transcript, err := a.client.Transcripts.TranscribeFromReader(ctx, f, params)
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}

	if transcript.Status == aai.TranscriptStatusError {
		return "", fmt.Errorf("transcription failed: %s", aai.ToString(transcript.Error))
	}

	a.logger.Info("Transcription completed",
		zap.String("transcriptID", aai.ToString(transcript.ID)),
		zap.String("status", string(transcript.Status)))

	return aai.ToString(transcript.Text), nil
}

// languageCode converts en-US to the en_us form AssemblyAI expects
func languageCode(tag string) string {
	return strings.ToLower(strings.ReplaceAll(tag, "-", "_"))
}
