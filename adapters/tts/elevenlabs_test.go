package tts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestNewElevenLabsTTS(t *testing.T) {
	logger := zaptest.NewLogger(t)
	dir := t.TempDir()

	// Test without API key
	_, err := NewElevenLabsTTS(ElevenLabsConfig{OutputDir: dir, PublicPath: "/static/tts"}, logger)
	if err == nil {
		t.Error("Expected error when API key is not set")
	}

	// Test with API key
	tts, err := NewElevenLabsTTS(ElevenLabsConfig{APIKey: "test-api-key", OutputDir: dir, PublicPath: "/static/tts"}, logger)
	if err != nil {
		t.Fatalf("Failed to create ElevenLabsTTS: %v", err)
	}

	if tts.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", tts.apiKey)
	}

	if tts.voiceID != defaultVoiceID {
		t.Errorf("Expected default voice ID '%s', got '%s'", defaultVoiceID, tts.voiceID)
	}

	if tts.stability != defaultStability {
		t.Errorf("Expected default stability %f, got %f", defaultStability, tts.stability)
	}
}

func TestValidateElevenLabsConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  ElevenLabsConfig
		wantErr bool
	}{
		{name: "valid", config: ElevenLabsConfig{APIKey: "k", OutputDir: "out", PublicPath: "/static/tts"}},
		{name: "missing output dir", config: ElevenLabsConfig{APIKey: "k", PublicPath: "/static/tts"}, wantErr: true},
		{name: "relative public path", config: ElevenLabsConfig{APIKey: "k", OutputDir: "out", PublicPath: "static"}, wantErr: true},
		{name: "stability out of range", config: ElevenLabsConfig{APIKey: "k", OutputDir: "out", PublicPath: "/s", Stability: 2}, wantErr: true},
		{name: "clarity out of range", config: ElevenLabsConfig{APIKey: "k", OutputDir: "out", PublicPath: "/s", Clarity: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateElevenLabsConfig(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateElevenLabsConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestElevenLabsTTS_Synthesize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("xi-api-key") != "test-api-key" {
			t.Errorf("Expected xi-api-key header, got %q", r.Header.Get("xi-api-key"))
		}
		if !strings.HasPrefix(r.URL.Path, "/text-to-speech/") {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3fake-mp3"))
	}))
	defer server.Close()

	dir := t.TempDir()
	tts, err := NewElevenLabsTTS(ElevenLabsConfig{
		APIKey:     "test-api-key",
		APIBaseURL: server.URL,
		OutputDir:  dir,
		PublicPath: "/static/tts",
	}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create ElevenLabsTTS: %v", err)
	}

	url, err := tts.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	if !strings.HasPrefix(url, "/static/tts/") || !strings.HasSuffix(url, ".mp3") {
		t.Errorf("Expected /static/tts/<id>.mp3, got %q", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(url)))
	if err != nil {
		t.Fatalf("Expected stored audio file: %v", err)
	}
	if string(data) != "ID3fake-mp3" {
		t.Errorf("Unexpected stored audio %q", data)
	}
}

func TestElevenLabsTTS_ErrorLeavesNoFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	dir := t.TempDir()
	tts, _ := NewElevenLabsTTS(ElevenLabsConfig{
		APIKey:     "test-api-key",
		APIBaseURL: server.URL,
		OutputDir:  dir,
		PublicPath: "/static/tts",
	}, zaptest.NewLogger(t))

	if _, err := tts.Synthesize(context.Background(), "hello"); err == nil {
		t.Fatal("Expected error for non-200 response")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Expected no stored files, found %d", len(entries))
	}
}
