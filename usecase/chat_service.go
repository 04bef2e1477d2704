package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/mika/domain"
	"github.com/satriahrh/mika/domain/repositories"
	"github.com/satriahrh/mika/internal/metrics"
)

const assistantPrefix = "assistant:"

// Tier is one model tried in fallback order
type Tier struct {
	Name  string
	Model string
	LLM   repositories.LargeLanguageModel
}

// TierResult is a reply tagged with the tier that produced it
type TierResult struct {
	Reply string
	Tier  string
}

// ChatService obtains replies from an ordered list of model tiers,
// returning the first success. Later tiers only run when earlier ones fail.
type ChatService struct {
	tiers   []Tier
	timeout time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(tiers []Tier, timeout time.Duration, m *metrics.Metrics, logger *zap.Logger) (*ChatService, error) {
	if len(tiers) == 0 {
		return nil, errors.New("at least one model tier is required")
	}

	for i, tier := range tiers {
		if tier.LLM == nil || tier.Model == "" {
			return nil, fmt.Errorf("tier %d (%s) is incomplete", i, tier.Name)
		}
	}

	return &ChatService{
		tiers:   tiers,
		timeout: timeout,
		metrics: m,
		logger:  logger,
	}, nil
}

// Generate walks the tiers in order and returns the first usable reply.
// When every tier fails the error is a *domain.TiersExhaustedError.
func (s *ChatService) Generate(ctx context.Context, prompt string) (TierResult, error) {
	return firstSuccess(ctx, s.tiers, func(ctx context.Context, tier Tier) (string, error) {
		return s.attempt(ctx, tier, prompt)
	})
}

// firstSuccess calls attempt for each tier until one succeeds
func firstSuccess(ctx context.Context, tiers []Tier, attempt func(context.Context, Tier) (string, error)) (TierResult, error) {
	names := make([]string, 0, len(tiers))
	var last error
	for _, tier := range tiers {
		names = append(names, tier.Name)

		reply, err := attempt(ctx, tier)
		if err == nil {
			return TierResult{Reply: reply, Tier: tier.Name}, nil
		}
		last = err

		// A cancelled request will fail every remaining tier the same way
		if ctx.Err() != nil {
			break
		}
	}

	return TierResult{}, &domain.TiersExhaustedError{
		Tiers:    names,
		LastTier: names[len(names)-1],
		Last:     last,
	}
}

func (s *ChatService) attempt(ctx context.Context, tier Tier, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	raw, err := tier.LLM.Generate(ctx, tier.Model, prompt)
	if err == nil {
		raw = cleanReply(raw)
		if strings.TrimSpace(raw) == "" {
			err = errors.New("model returned an empty reply")
		}
	}

	s.metrics.TierAttempts.WithLabelValues(tier.Name, metrics.Result(err)).Inc()
	if err != nil {
		s.logger.Warn("Model tier failed",
			zap.String("tier", tier.Name),
			zap.String("model", tier.Model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", err
	}

	s.logger.Info("Model tier succeeded",
		zap.String("tier", tier.Name),
		zap.String("model", tier.Model),
		zap.Duration("elapsed", time.Since(start)))
	return raw, nil
}

// cleanReply drops trailing newlines and a leading "assistant:" label the
// model sometimes echoes back from the prompt format
func cleanReply(reply string) string {
	reply = strings.TrimRight(reply, "\n")

	trimmed := strings.TrimLeft(reply, " \t\r\n")
	if len(trimmed) >= len(assistantPrefix) && strings.EqualFold(trimmed[:len(assistantPrefix)], assistantPrefix) {
		return strings.TrimLeft(trimmed[len(assistantPrefix):], " \t")
	}
	return reply
}
