package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/googleapis/gax-go/v2/apierror"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/satriahrh/mika/domain/repositories"
)

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 1024
)

// GeminiConfig holds configuration for the GeminiLLM adapter
// Required fields:
// - APIKey: Google AI API key
// Optional fields with defaults:
// - Temperature: sampling temperature between 0 and 1 (default: 0.7)
// - MaxOutputTokens: reply length cap (default: 1024)
type GeminiConfig struct {
	APIKey          string
	Temperature     float32
	MaxOutputTokens int
}

// GeminiLLM implements the LargeLanguageModel interface using Google's Gemini API
type GeminiLLM struct {
	client          *genai.Client
	logger          *zap.Logger
	temperature     float32
	maxOutputTokens int
}

var _ repositories.LargeLanguageModel = (*GeminiLLM)(nil)

// ValidateGeminiConfig validates the GeminiConfig
func ValidateGeminiConfig(config GeminiConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("Google AI API key is required")
	}

	if config.Temperature != 0 && (config.Temperature < 0 || config.Temperature > 1) {
		return fmt.Errorf("temperature must be between 0 and 1, got %f", config.Temperature)
	}

	if config.MaxOutputTokens < 0 {
		return fmt.Errorf("max output tokens must be positive, got %d", config.MaxOutputTokens)
	}

	return nil
}

// NewGeminiLLM creates a new Gemini LLM instance
func NewGeminiLLM(ctx context.Context, config GeminiConfig, logger *zap.Logger) (*GeminiLLM, error) {
	if err := ValidateGeminiConfig(config); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	temperature := config.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
		logger.Info("Using default temperature", zap.Float32("temperature", temperature))
	}

	maxOutputTokens := config.MaxOutputTokens
	if maxOutputTokens == 0 {
		maxOutputTokens = defaultMaxTokens
		logger.Info("Using default maxOutputTokens", zap.Int("maxOutputTokens", maxOutputTokens))
	}

	return &GeminiLLM{
		client:          client,
		logger:          logger,
		temperature:     temperature,
		maxOutputTokens: maxOutputTokens,
	}, nil
}

// Generate implements repositories.LargeLanguageModel
func (g *GeminiLLM) Generate(ctx context.Context, model string, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.temperature),
		MaxOutputTokens: int32(g.maxOutputTokens),
	}

	response, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		var apiErr *apierror.APIError
		if errors.As(err, &apiErr) {
			g.logger.Warn("Gemini API error",
				zap.String("model", model),
				zap.String("reason", apiErr.Reason()))
			err = apiErr.Unwrap()
		}
		return "", fmt.Errorf("gemini %s: %w", model, err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini %s: no candidates", model)
	}

	var sb strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini %s: empty response (finish reason %s)", model, response.Candidates[0].FinishReason)
	}

	return sb.String(), nil
}
