package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/mika/domain"
)

func TestTranscriptionService_Trims(t *testing.T) {
	stt := &fakeSTT{text: "  hello there \n"}
	service := NewTranscriptionService(stt, time.Second, zaptest.NewLogger(t))

	text, err := service.Transcribe(context.Background(), "uploads/a.webm")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if text != "hello there" {
		t.Errorf("Expected trimmed text, got %q", text)
	}
}

func TestTranscriptionService_EmptyIsNotAnError(t *testing.T) {
	service := NewTranscriptionService(&fakeSTT{text: "   "}, time.Second, zaptest.NewLogger(t))

	text, err := service.Transcribe(context.Background(), "uploads/a.webm")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if text != "" {
		t.Errorf("Expected empty text, got %q", text)
	}
}

func TestTranscriptionService_WrapsFailure(t *testing.T) {
	cause := errors.New("connection refused")
	stt := &fakeSTT{err: cause}
	service := NewTranscriptionService(stt, time.Second, zaptest.NewLogger(t))

	_, err := service.Transcribe(context.Background(), "uploads/a.webm")
	if !errors.Is(err, domain.ErrSTTFailure) {
		t.Errorf("Expected ErrSTTFailure, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Expected cause to be preserved, got %v", err)
	}
	if stt.calls.Load() != 1 {
		t.Errorf("Expected a single attempt, got %d", stt.calls.Load())
	}
}
