package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/satriahrh/mika/domain"
	"github.com/satriahrh/mika/domain/repositories"
	"github.com/satriahrh/mika/internal/metrics"
	"github.com/satriahrh/mika/internal/textchunk"
)

// SpeechConfig controls how replies are split and synthesized
type SpeechConfig struct {
	FallbackURL   string
	MaxChunkChars int
	Concurrency   int
	Timeout       time.Duration
}

// SpeechService converts reply text into playable audio references
type SpeechService struct {
	textToSpeech repositories.TextToSpeech
	config       SpeechConfig
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// chunkOutcome is the synthesis result for one chunk
type chunkOutcome struct {
	URL string
	Err error
}

// resolve returns the synthesized URL, or fallback if synthesis failed
func (o chunkOutcome) resolve(fallback string) string {
	if o.Err != nil || o.URL == "" {
		return fallback
	}
	return o.URL
}

// NewSpeechService creates a new speech service
func NewSpeechService(tts repositories.TextToSpeech, config SpeechConfig, m *metrics.Metrics, logger *zap.Logger) *SpeechService {
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	if config.MaxChunkChars <= 0 {
		config.MaxChunkChars = textchunk.DefaultMaxChars
	}

	return &SpeechService{
		textToSpeech: tts,
		config:       config,
		metrics:      m,
		logger:       logger,
	}
}

// SynthesizeReply splits text into chunks and synthesizes each one
func (s *SpeechService) SynthesizeReply(ctx context.Context, text string) []string {
	return s.SynthesizeChunks(ctx, textchunk.Split(text, s.config.MaxChunkChars))
}

// SynthesizeChunks returns one reference per chunk, in chunk order. A chunk
// that cannot be synthesized gets the fallback reference instead.
func (s *SpeechService) SynthesizeChunks(ctx context.Context, chunks []string) []string {
	outcomes := make([]chunkOutcome, len(chunks))

	var g errgroup.Group
	g.SetLimit(s.config.Concurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			url, err := s.synthesize(ctx, chunk)
			outcomes[i] = chunkOutcome{URL: url, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	urls := make([]string, len(outcomes))
	for i, outcome := range outcomes {
		s.metrics.TTSChunks.WithLabelValues(metrics.Result(outcome.Err)).Inc()
		if outcome.Err != nil {
			s.logger.Warn("Chunk synthesis failed, using fallback audio",
				zap.Int("chunk", i),
				zap.Int("chunks", len(chunks)),
				zap.Error(outcome.Err))
		}
		urls[i] = outcome.resolve(s.config.FallbackURL)
	}

	return urls
}

// Synthesize converts a single text in one shot. Unlike chat replies there
// is nothing to salvage, so failure is returned rather than substituted.
func (s *SpeechService) Synthesize(ctx context.Context, text string) (string, error) {
	url, err := s.synthesize(ctx, text)
	s.metrics.TTSRequests.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrTTSFailure, err)
	}
	return url, nil
}

// FallbackURL returns the reference played when no real audio is available
func (s *SpeechService) FallbackURL() string {
	return s.config.FallbackURL
}

func (s *SpeechService) synthesize(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	url, err := s.textToSpeech.Synthesize(ctx, text)
	if err == nil && url == "" {
		err = fmt.Errorf("synthesizer returned no audio reference")
	}
	return url, err
}
