package entities

import (
	"errors"
	"strings"
	"time"
)

// Session represents one conversation, identified by an opaque key
type Session struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
	Turns        []Turn    `json:"turns"`
}

// NewSession creates an empty session for the given key
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		CreatedAt:    now,
		LastActiveAt: now,
		Turns:        make([]Turn, 0),
	}
}

// AddTurn appends a turn to the end of the conversation
func (s *Session) AddTurn(turn Turn) {
	s.Turns = append(s.Turns, turn)
	s.UpdateLastActive()
}

// UpdateLastActive updates the last active timestamp
func (s *Session) UpdateLastActive() {
	s.LastActiveAt = time.Now()
}

// History returns a copy of the conversation turns in order.
// Callers may keep the slice after the session keeps growing.
func (s *Session) History() []Turn {
	history := make([]Turn, len(s.Turns))
	copy(history, s.Turns)
	return history
}

// Prompt renders the full history as "<role>: <content>" lines
func (s *Session) Prompt() string {
	lines := make([]string, 0, len(s.Turns))
	for _, turn := range s.Turns {
		lines = append(lines, turn.PromptLine())
	}
	return strings.Join(lines, "\n")
}

// Validate validates the session data
func (s *Session) Validate() error {
	if s.ID == "" {
		return errors.New("session id is required")
	}

	for _, turn := range s.Turns {
		if err := turn.Validate(); err != nil {
			return err
		}
	}

	return nil
}
