package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/satriahrh/mika/domain/repositories"
)

// OpenAIConfig holds configuration for the OpenAILLM adapter
type OpenAIConfig struct {
	APIKey  string // Required
	BaseURL string // Optional: OpenAI-compatible endpoint
}

// OpenAILLM implements the LargeLanguageModel interface using the OpenAI chat API
type OpenAILLM struct {
	client openai.Client
	logger *zap.Logger
}

var _ repositories.LargeLanguageModel = (*OpenAILLM)(nil)

// NewOpenAILLM creates a new OpenAI LLM instance
func NewOpenAILLM(config OpenAIConfig, logger *zap.Logger) (*OpenAILLM, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
		logger.Info("Using custom OpenAI base URL", zap.String("baseURL", config.BaseURL))
	}

	return &OpenAILLM{
		client: openai.NewClient(opts...),
		logger: logger,
	}, nil
}

// Generate implements repositories.LargeLanguageModel
func (o *OpenAILLM) Generate(ctx context.Context, model string, prompt string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai %s: %w", model, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai %s: empty response", model)
	}

	o.logger.Debug("OpenAI completion",
		zap.String("model", resp.Model),
		zap.Int64("promptTokens", resp.Usage.PromptTokens),
		zap.Int64("completionTokens", resp.Usage.CompletionTokens))

	return resp.Choices[0].Message.Content, nil
}
