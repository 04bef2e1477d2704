package repositories

import (
	"context"
	"io"

	"github.com/satriahrh/mika/domain/entities"
)

// SessionRepository holds conversation history keyed by session id
type SessionRepository interface {
	// History returns a snapshot of the session's turns, empty if unseen
	History(ctx context.Context, sessionID string) ([]entities.Turn, error)
	// Append adds a turn to the end of the session
	Append(ctx context.Context, sessionID string, turn entities.Turn) error
	// WithSession runs fn with exclusive access to the session, creating it
	// if needed. Requests against other sessions are not blocked.
	WithSession(ctx context.Context, sessionID string, fn func(session *entities.Session) error) error
}

// UploadStore persists raw uploaded audio
type UploadStore interface {
	// Save writes the upload and returns the path it was stored at
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}
