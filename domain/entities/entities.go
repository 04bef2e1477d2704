package entities

import (
	"errors"
	"fmt"
)

// Role represents the speaker of a turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn represents a single message in a conversation
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewUserTurn creates a turn spoken by the user
func NewUserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// NewAssistantTurn creates a turn produced by the language model
func NewAssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}

// PromptLine renders the turn the way it is fed to the language model
func (t Turn) PromptLine() string {
	return fmt.Sprintf("%s: %s", t.Role, t.Content)
}

// Domain validation methods
func (t Turn) Validate() error {
	if t.Role != RoleUser && t.Role != RoleAssistant {
		return fmt.Errorf("invalid role %q", t.Role)
	}
	if t.Content == "" {
		return errors.New("content is required")
	}
	return nil
}
