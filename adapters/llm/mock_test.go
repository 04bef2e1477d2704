package llm

import (
	"context"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestMockLLM_EchoesLatestUserLine(t *testing.T) {
	m := NewMockLLM(zaptest.NewLogger(t))

	prompt := "user: hello\nassistant: hi\nuser: how are you?"
	reply, err := m.Generate(context.Background(), "mock", prompt)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if reply != "You said: how are you?" {
		t.Errorf("Expected echo of latest user line, got %q", reply)
	}
}

func TestMockLLM_CancelledContext(t *testing.T) {
	m := NewMockLLM(zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Generate(ctx, "mock", "user: hi"); err == nil {
		t.Error("Expected error for cancelled context")
	}
}
