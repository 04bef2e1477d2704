package upload

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestDiskUploadStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewDiskUploadStore(dir, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	path, err := store.Save(context.Background(), "voice.wav", strings.NewReader("RIFF data"))
	if err != nil {
		t.Fatalf("Failed to save upload: %v", err)
	}

	if filepath.Dir(path) != dir {
		t.Errorf("Expected file in %s, got %s", dir, path)
	}

	base := filepath.Base(path)
	if !strings.HasPrefix(base, "chat_") || !strings.HasSuffix(base, ".wav") {
		t.Errorf("Unexpected file name %s", base)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read saved file: %v", err)
	}
	if string(data) != "RIFF data" {
		t.Errorf("Expected saved content, got %q", data)
	}
}

func TestDiskUploadStore_UniqueNames(t *testing.T) {
	store, err := NewDiskUploadStore(t.TempDir(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	first, _ := store.Save(context.Background(), "a.webm", strings.NewReader("1"))
	second, _ := store.Save(context.Background(), "a.webm", strings.NewReader("2"))

	if first == second {
		t.Errorf("Expected distinct paths, got %s twice", first)
	}
}

func TestDiskUploadStore_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskUploadStore(dir, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Save(ctx, "a.webm", strings.NewReader("data")); err == nil {
		t.Error("Expected error for cancelled context")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Expected partial file to be removed, found %d entries", len(entries))
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"clip.webm":      "webm",
		"clip.tar.ogg":   "ogg",
		"noext":          "webm",
		"":               "webm",
		"../../evil.wav": "wav",
	}

	for input, want := range tests {
		if got := extension(input); got != want {
			t.Errorf("extension(%q) = %q, want %q", input, got, want)
		}
	}
}
