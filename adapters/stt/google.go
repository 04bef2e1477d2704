package stt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/googleapis/gax-go/v2/apierror"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/satriahrh/mika/domain/repositories"
)

// GoogleConfig holds configuration for GoogleSpeechToText
type GoogleConfig struct {
	CredentialsFile string // Optional: falls back to application default credentials
	Language        string // Optional: defaults to en-US
}

// GoogleSpeechToText implements SpeechToText for Google Cloud
type GoogleSpeechToText struct {
	client   *speech.Client
	language string
	logger   *zap.Logger
}

var _ repositories.SpeechToText = (*GoogleSpeechToText)(nil)

// NewGoogleSpeechToText creates a Google Cloud Speech client
func NewGoogleSpeechToText(ctx context.Context, config GoogleConfig, logger *zap.Logger) (*GoogleSpeechToText, error) {
	var opts []option.ClientOption
	if config.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.CredentialsFile))
	}

	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}

	language := config.Language
	if language == "" {
		language = "en-US"
		logger.Info("Using default language", zap.String("language", language))
	}

	return &GoogleSpeechToText{
		client:   client,
		language: language,
		logger:   logger,
	}, nil
}

// TranscribeFile sends the whole recording in one synchronous Recognize call
func (g *GoogleSpeechToText) TranscribeFile(ctx context.Context, audioPath string) (string, error) {
	encoding, sampleRate, err := audioEncoding(filepath.Ext(audioPath))
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to read audio file: %w", err)
	}

	resp, err := g.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   encoding,
			SampleRateHertz:            sampleRate,
			LanguageCode:               g.language,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: data},
		},
	})
	if err != nil {
		var apiErr *apierror.APIError
		if errors.As(err, &apiErr) {
			g.logger.Warn("Google speech API error",
				zap.String("reason", apiErr.Reason()),
				zap.String("status", apiErr.GRPCStatus().Code().String()))
		}
		return "", fmt.Errorf("failed to recognize speech: %w", err)
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			// Take the best alternative
			parts = append(parts, result.Alternatives[0].Transcript)
		}
	}

	return strings.Join(parts, " "), nil
}

// Close releases the underlying gRPC connection
func (g *GoogleSpeechToText) Close() error {
	return g.client.Close()
}

// audioEncoding maps an upload extension to the Google Speech API enum.
// A zero sample rate lets the API read it from the file header.
func audioEncoding(ext string) (speechpb.RecognitionConfig_AudioEncoding, int32, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "wav":
		return speechpb.RecognitionConfig_LINEAR16, 0, nil
	case "flac":
		return speechpb.RecognitionConfig_FLAC, 0, nil
	case "webm":
		return speechpb.RecognitionConfig_WEBM_OPUS, 48000, nil
	case "ogg", "opus":
		return speechpb.RecognitionConfig_OGG_OPUS, 48000, nil
	case "amr":
		return speechpb.RecognitionConfig_AMR, 8000, nil
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, 0, fmt.Errorf("unsupported audio format: %q", ext)
	}
}
