package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/mika/adapters/llm"
	"github.com/satriahrh/mika/adapters/stt"
	"github.com/satriahrh/mika/adapters/tts"
	"github.com/satriahrh/mika/internal/config"
)

func mockConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.StaticDir = t.TempDir()
	cfg.STT.Provider = "mock"
	cfg.TTS.Provider = "mock"
	cfg.LLM.Tiers = []config.TierConfig{
		{Name: "primary", Provider: "mock", Model: "echo"},
		{Name: "secondary", Provider: "mock", Model: "echo-2"},
	}
	return cfg
}

func TestNewTiers_SharesProviderClient(t *testing.T) {
	cfg := mockConfig(t)

	tiers, err := newTiers(context.Background(), cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to build tiers: %v", err)
	}

	if len(tiers) != 2 {
		t.Fatalf("Expected 2 tiers, got %d", len(tiers))
	}
	if tiers[0].Name != "primary" || tiers[1].Model != "echo-2" {
		t.Errorf("Unexpected tier order: %+v", tiers)
	}
	if _, ok := tiers[0].LLM.(*llm.MockLLM); !ok {
		t.Errorf("Expected mock client, got %T", tiers[0].LLM)
	}
	if tiers[0].LLM != tiers[1].LLM {
		t.Error("Expected tiers of the same provider to share a client")
	}
}

func TestNewTiers_UnknownProvider(t *testing.T) {
	cfg := mockConfig(t)
	cfg.LLM.Tiers = []config.TierConfig{{Name: "x", Provider: "anthropic", Model: "m"}}

	if _, err := newTiers(context.Background(), cfg, zaptest.NewLogger(t)); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestNewSpeechAdapters(t *testing.T) {
	cfg := mockConfig(t)
	logger := zaptest.NewLogger(t)

	s, err := newSpeechToText(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("Failed to build speech-to-text: %v", err)
	}
	if _, ok := s.(*stt.MockSpeechToText); !ok {
		t.Errorf("Expected mock speech-to-text, got %T", s)
	}

	synth, err := newTextToSpeech(cfg, logger)
	if err != nil {
		t.Fatalf("Failed to build text-to-speech: %v", err)
	}
	if _, ok := synth.(*tts.MockTextToSpeech); !ok {
		t.Errorf("Expected mock text-to-speech, got %T", synth)
	}

	cfg.TTS.Provider = "elevenlabs"
	cfg.TTS.ElevenLabsAPIKey = "test-key"
	if _, err := newTextToSpeech(cfg, logger); err != nil {
		t.Fatalf("Failed to build elevenlabs: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.StaticDir, generatedAudioDir)); err != nil {
		t.Errorf("Expected generated audio directory to exist: %v", err)
	}

	cfg.TTS.Provider = "polly"
	if _, err := newTextToSpeech(cfg, logger); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestUploadRecording(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/agent/chat/demo" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("Expected file field: %v", err)
			http.Error(w, "no file", http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Filename != "question.txt" {
			t.Errorf("Expected filename question.txt, got %s", header.Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"llm_response":"ok"}`))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "question.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("Failed to write recording: %v", err)
	}

	body, status, err := uploadRecording(server.URL+"/", "demo", path, 5*time.Second)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if status != http.StatusOK || !strings.Contains(string(body), "ok") {
		t.Errorf("Unexpected response %d %s", status, body)
	}
}

func TestChunkCommand(t *testing.T) {
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader("alpha beta gamma"))
	rootCmd.SetArgs([]string{"chunk", "--max-chars", "10"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("chunk failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 chunks, got %q", out.String())
	}
	if lines[0] != "[0] (10 chars) alpha beta" {
		t.Errorf("Unexpected first line %q", lines[0])
	}
}
