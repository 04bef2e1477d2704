package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/mika/adapters"
	"github.com/satriahrh/mika/internal/metrics"
)

const testFallbackURL = "/static/error.wav"

type fakeUploads struct {
	err error
}

func (f *fakeUploads) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	return "uploads/" + filename, nil
}

type fakeSTT struct {
	text  string
	err   error
	calls atomic.Int32
}

func (f *fakeSTT) TranscribeFile(ctx context.Context, audioPath string) (string, error) {
	f.calls.Add(1)
	return f.text, f.err
}

// fakeLLM counts calls and records the prompts it saw
type fakeLLM struct {
	mu      sync.Mutex
	reply   string
	err     error
	panics  bool
	prompts []string
}

func (f *fakeLLM) Generate(ctx context.Context, model string, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panics {
		panic("model exploded")
	}
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeLLM) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// fakeTTS returns a URL derived from the text; texts containing failOn fail
type fakeTTS struct {
	failOn string
	delay  time.Duration
	calls  atomic.Int32
}

func (f *fakeTTS) Synthesize(ctx context.Context, text string) (string, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return "", errors.New("synthesis failed")
	}
	return "/audio/" + strings.Fields(text)[0] + ".wav", nil
}

func newTestMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.NewRegistry())
}

type pipeline struct {
	service  *ConversationService
	sessions *adapters.MemorySessionRepository
	stt      *fakeSTT
	tiers    []*fakeLLM
	tts      *fakeTTS
	metrics  *metrics.Metrics
}

func newPipeline(t *testing.T, stt *fakeSTT, tts *fakeTTS, llms ...*fakeLLM) *pipeline {
	t.Helper()
	logger := zaptest.NewLogger(t)
	m := newTestMetrics()

	tiers := make([]Tier, len(llms))
	names := []string{"primary", "fallback-1", "fallback-2"}
	for i, llm := range llms {
		tiers[i] = Tier{Name: names[i], Model: "model-" + names[i], LLM: llm}
	}

	chat, err := NewChatService(tiers, time.Second, m, logger)
	if err != nil {
		t.Fatalf("Failed to create chat service: %v", err)
	}

	sessions := adapters.NewMemorySessionRepository(logger)
	speech := NewSpeechService(tts, SpeechConfig{
		FallbackURL:   testFallbackURL,
		MaxChunkChars: 3000,
		Concurrency:   4,
		Timeout:       time.Second,
	}, m, logger)

	service := NewConversationService(
		&fakeUploads{},
		sessions,
		NewTranscriptionService(stt, time.Second, logger),
		chat,
		speech,
		m,
		logger,
	)

	return &pipeline{service: service, sessions: sessions, stt: stt, tiers: llms, tts: tts, metrics: m}
}
