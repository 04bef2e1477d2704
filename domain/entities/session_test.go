package entities

import (
	"testing"
	"time"
)

func TestSessionCreation(t *testing.T) {
	sessionID := "test-session-123"
	session := NewSession(sessionID)

	if session.ID != sessionID {
		t.Errorf("Expected session ID %s, got %s", sessionID, session.ID)
	}

	if len(session.Turns) != 0 {
		t.Errorf("Expected empty turns, got %d turns", len(session.Turns))
	}

	if session.CreatedAt.IsZero() || session.LastActiveAt.IsZero() {
		t.Error("Expected timestamps to be set")
	}
}

func TestAddTurn(t *testing.T) {
	session := NewSession("test-session")

	userContent := "Hello, how are you?"
	session.AddTurn(NewUserTurn(userContent))

	if len(session.Turns) != 1 {
		t.Errorf("Expected 1 turn, got %d", len(session.Turns))
	}

	if session.Turns[0].Role != RoleUser {
		t.Errorf("Expected user role, got %s", session.Turns[0].Role)
	}

	if session.Turns[0].Content != userContent {
		t.Errorf("Expected content %s, got %s", userContent, session.Turns[0].Content)
	}

	session.AddTurn(NewAssistantTurn("I'm doing well, thank you!"))

	if len(session.Turns) != 2 {
		t.Errorf("Expected 2 turns, got %d", len(session.Turns))
	}

	if session.Turns[1].Role != RoleAssistant {
		t.Errorf("Expected assistant role, got %s", session.Turns[1].Role)
	}
}

func TestHistoryIsACopy(t *testing.T) {
	session := NewSession("test-session")
	session.AddTurn(NewUserTurn("hello"))

	history := session.History()
	history[0].Content = "changed"
	session.AddTurn(NewAssistantTurn("hi there"))

	if session.Turns[0].Content != "hello" {
		t.Errorf("Expected stored turn to be untouched, got %q", session.Turns[0].Content)
	}

	if len(history) != 1 {
		t.Errorf("Expected snapshot to keep 1 turn, got %d", len(history))
	}
}

func TestPrompt(t *testing.T) {
	session := NewSession("test-session")
	if session.Prompt() != "" {
		t.Errorf("Expected empty prompt, got %q", session.Prompt())
	}

	session.AddTurn(NewUserTurn("hello"))
	session.AddTurn(NewAssistantTurn("hi there"))
	session.AddTurn(NewUserTurn("tell me a joke"))

	expected := "user: hello\nassistant: hi there\nuser: tell me a joke"
	if session.Prompt() != expected {
		t.Errorf("Expected prompt %q, got %q", expected, session.Prompt())
	}
}

func TestSessionValidation(t *testing.T) {
	session := NewSession("test-session")
	if err := session.Validate(); err != nil {
		t.Errorf("Valid session should not have validation errors, got: %v", err)
	}

	session.ID = ""
	if err := session.Validate(); err == nil {
		t.Error("Session with empty ID should have validation error")
	}

	session.ID = "test-session"
	session.Turns = append(session.Turns, Turn{Role: Role("doll"), Content: "hi"})
	if err := session.Validate(); err == nil {
		t.Error("Session with invalid role should have validation error")
	}
}

func TestUpdateLastActive(t *testing.T) {
	session := NewSession("test-session")
	originalLastActive := session.LastActiveAt

	// Wait a bit to ensure time difference
	time.Sleep(10 * time.Millisecond)

	session.AddTurn(NewUserTurn("hello"))

	if !session.LastActiveAt.After(originalLastActive) {
		t.Error("LastActiveAt should be updated to a later time")
	}
}
