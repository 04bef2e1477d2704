package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/mika/domain/repositories"
)

// MockLLM is an offline implementation that echoes the latest user line
type MockLLM struct {
	logger *zap.Logger
}

var _ repositories.LargeLanguageModel = (*MockLLM)(nil)

// NewMockLLM creates a new mock language model
func NewMockLLM(logger *zap.Logger) *MockLLM {
	return &MockLLM{logger: logger}
}

// Generate implements repositories.LargeLanguageModel
func (m *MockLLM) Generate(ctx context.Context, model string, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lines := strings.Split(prompt, "\n")
	last := ""
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(lines[i], "user: ") {
			last = strings.TrimPrefix(lines[i], "user: ")
			break
		}
	}

	m.logger.Info("Mock generation", zap.String("model", model), zap.Int("promptLines", len(lines)))

	if last == "" {
		return "Hello! What would you like to talk about?", nil
	}
	return fmt.Sprintf("You said: %s", last), nil
}
