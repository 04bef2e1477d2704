package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/mika/domain"
	"github.com/satriahrh/mika/domain/entities"
	"github.com/satriahrh/mika/domain/repositories"
	"github.com/satriahrh/mika/internal/metrics"
)

// ConversationService orchestrates one chat request end to end:
// save, transcribe, update history, generate, chunk, synthesize.
type ConversationService struct {
	uploads       repositories.UploadStore
	sessions      repositories.SessionRepository
	transcription *TranscriptionService
	chat          *ChatService
	speech        *SpeechService
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewConversationService creates a new conversation service
func NewConversationService(
	uploads repositories.UploadStore,
	sessions repositories.SessionRepository,
	transcription *TranscriptionService,
	chat *ChatService,
	speech *SpeechService,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ConversationService {
	return &ConversationService{
		uploads:       uploads,
		sessions:      sessions,
		transcription: transcription,
		chat:          chat,
		speech:        speech,
		metrics:       m,
		logger:        logger,
	}
}

// ProcessChat runs the pipeline for one uploaded recording. Every failure is
// returned as a *domain.DegradedError carrying the audio the client should
// play instead.
func (s *ConversationService) ProcessChat(ctx context.Context, sessionID, filename string, audio io.Reader) (result *domain.ChatResult, err error) {
	logger := s.logger.With(zap.String("sessionID", sessionID))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Chat pipeline panicked", zap.Any("panic", r), zap.Stack("stack"))
			result = nil
			err = s.degraded(domain.KindInternalFailure, fmt.Errorf("panic: %v", r))
		}

		outcome := "completed"
		var degraded *domain.DegradedError
		if errors.As(err, &degraded) {
			outcome = string(degraded.Kind)
		}
		s.metrics.ChatRequests.WithLabelValues(outcome).Inc()
	}()

	start := time.Now()
	audioPath, err := s.uploads.Save(ctx, filename, audio)
	s.metrics.ObserveStage(metrics.StageUpload, start)
	if err != nil {
		logger.Error("Failed to save upload", zap.Error(err))
		return nil, s.degraded(domain.KindInternalFailure, err)
	}

	start = time.Now()
	transcription, err := s.transcription.Transcribe(ctx, audioPath)
	s.metrics.ObserveStage(metrics.StageTranscribe, start)
	if err != nil {
		logger.Error("Transcription failed", zap.Error(err))
		return nil, s.degraded(domain.KindSTTFailure, err)
	}

	if transcription == "" {
		logger.Info("Empty transcription", zap.String("path", audioPath))
		return nil, s.degraded(domain.KindEmptyTranscription, nil)
	}

	reply, history, err := s.converse(ctx, sessionID, transcription)
	if err != nil {
		if errors.Is(err, domain.ErrLLMFailure) {
			// The user turn stays in history; see DESIGN.md
			logger.Warn("All model tiers failed, user turn left unanswered", zap.Error(err))
			return nil, s.degraded(domain.KindLLMFailure, err)
		}
		logger.Error("Failed to update session", zap.Error(err))
		return nil, s.degraded(domain.KindInternalFailure, err)
	}

	start = time.Now()
	audioURLs := s.speech.SynthesizeReply(ctx, reply.Reply)
	s.metrics.ObserveStage(metrics.StageSynthesize, start)

	logger.Info("Chat completed",
		zap.String("tier", reply.Tier),
		zap.Int("turns", len(history)),
		zap.Int("audioChunks", len(audioURLs)))

	return &domain.ChatResult{
		Transcription: transcription,
		Reply:         reply.Reply,
		AudioURLs:     audioURLs,
		History:       history,
		Tier:          reply.Tier,
	}, nil
}

// converse appends the user turn, generates a reply and appends it, all
// while holding the session so concurrent requests cannot interleave.
func (s *ConversationService) converse(ctx context.Context, sessionID, text string) (TierResult, []entities.Turn, error) {
	var (
		reply   TierResult
		history []entities.Turn
	)

	err := s.sessions.WithSession(ctx, sessionID, func(session *entities.Session) error {
		session.AddTurn(entities.NewUserTurn(text))

		start := time.Now()
		var err error
		reply, err = s.chat.Generate(ctx, session.Prompt())
		s.metrics.ObserveStage(metrics.StageGenerate, start)
		if err != nil {
			return err
		}

		session.AddTurn(entities.NewAssistantTurn(reply.Reply))
		history = session.History()
		return nil
	})

	return reply, history, err
}

// Speak synthesizes a single text outside of a conversation
func (s *ConversationService) Speak(ctx context.Context, text string) (string, error) {
	url, err := s.speech.Synthesize(ctx, text)
	if err != nil {
		s.logger.Error("Speech synthesis failed", zap.Error(err))
		return "", s.degraded(domain.KindTTSFailure, err)
	}
	return url, nil
}

func (s *ConversationService) degraded(kind domain.ErrorKind, cause error) *domain.DegradedError {
	return domain.NewDegradedError(kind, s.speech.FallbackURL(), cause)
}
