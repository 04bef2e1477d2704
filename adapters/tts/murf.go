package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/mika/domain/repositories"
)

const (
	defaultMurfBaseURL = "https://api.murf.ai"
	defaultMurfVoiceID = "en-IN-priya"
	defaultMurfStyle   = "Conversational"
	defaultHTTPTimeout = 60 * time.Second
)

// MurfConfig holds configuration for the MurfTTS adapter
// Required fields:
// - APIKey: Murf API key
// Optional fields with defaults:
// - APIBaseURL: The base URL for the Murf API (default: "https://api.murf.ai")
// - VoiceID: The voice to use (default: "en-IN-priya")
// - Style: The speaking style (default: "Conversational")
// - Timeout: HTTP client timeout (default: 60s)
type MurfConfig struct {
	APIKey     string
	APIBaseURL string
	VoiceID    string
	Style      string
	Timeout    time.Duration
}

// MurfTTS implements TextToSpeech using Murf's generate endpoint, which
// hosts the rendered audio and answers with its URL
type MurfTTS struct {
	apiKey     string
	apiBaseURL string
	voiceID    string
	style      string
	client     *http.Client
	logger     *zap.Logger
}

var _ repositories.TextToSpeech = (*MurfTTS)(nil)

// MurfRequest represents the request payload for the Murf generate API
type MurfRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voice_id"`
	Style   string `json:"style,omitempty"`
}

// MurfResponse holds the fields read from a Murf generate reply. Older
// deployments answer with audio_url instead of audioFile.
type MurfResponse struct {
	AudioFile string `json:"audioFile"`
	AudioURL  string `json:"audio_url"`
}

// URL returns whichever audio location the reply carried
func (r MurfResponse) URL() string {
	if r.AudioFile != "" {
		return r.AudioFile
	}
	return r.AudioURL
}

// ValidateMurfConfig validates the MurfConfig
func ValidateMurfConfig(config MurfConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("murf API key is required")
	}

	if config.Timeout < 0 {
		return fmt.Errorf("timeout must be positive, got %s", config.Timeout)
	}

	return nil
}

// NewMurfTTS creates a new Murf TTS instance
func NewMurfTTS(config MurfConfig, logger *zap.Logger) (*MurfTTS, error) {
	if err := ValidateMurfConfig(config); err != nil {
		return nil, err
	}

	apiBaseURL := strings.TrimSuffix(config.APIBaseURL, "/")
	if apiBaseURL == "" {
		apiBaseURL = defaultMurfBaseURL
		logger.Info("Using default API base URL", zap.String("apiBaseURL", apiBaseURL))
	}

	voiceID := config.VoiceID
	if voiceID == "" {
		voiceID = defaultMurfVoiceID
		logger.Info("Using default voice ID", zap.String("voiceID", voiceID))
	}

	style := config.Style
	if style == "" {
		style = defaultMurfStyle
		logger.Info("Using default style", zap.String("style", style))
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultHTTPTimeout
	}

	return &MurfTTS{
		apiKey:     config.APIKey,
		apiBaseURL: apiBaseURL,
		voiceID:    voiceID,
		style:      style,
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// Synthesize implements repositories.TextToSpeech
func (m *MurfTTS) Synthesize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("text cannot be empty")
	}

	requestBody, err := json.Marshal(MurfRequest{
		Text:    text,
		VoiceID: m.voiceID,
		Style:   m.style,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := m.apiBaseURL + "/v1/speech/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("api-key", m.apiKey)

	m.logger.Debug("Sending request to Murf API",
		zap.String("url", url),
		zap.Int("textLength", len(text)))

	resp, err := m.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("murf API returned error %d: %s", resp.StatusCode, string(errorBody))
	}

	var murfResp MurfResponse
	if err := json.NewDecoder(resp.Body).Decode(&murfResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	audioURL := murfResp.URL()
	if audioURL == "" {
		return "", fmt.Errorf("murf response did not include an audio URL")
	}

	return audioURL, nil
}
