package adapters

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/satriahrh/mika/domain/entities"
	"github.com/satriahrh/mika/domain/repositories"
)

// MemorySessionRepository keeps conversations in process memory.
// Each session has its own lock, so requests for the same session id are
// serialized while different sessions proceed independently.
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry // session id -> entry
	logger   *zap.Logger
}

// sessionEntry guards one session. lock is a one-slot semaphore so waiting
// for it can be abandoned when the request context ends.
type sessionEntry struct {
	lock    chan struct{}
	session *entities.Session
}

var _ repositories.SessionRepository = (*MemorySessionRepository)(nil)

// NewMemorySessionRepository creates a new in-memory session repository
func NewMemorySessionRepository(logger *zap.Logger) *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*sessionEntry),
		logger:   logger,
	}
}

// entry returns the entry for id, creating the session on first reference
func (m *MemorySessionRepository) entry(id string) *sessionEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.sessions[id]
	if !exists {
		e = &sessionEntry{
			lock:    make(chan struct{}, 1),
			session: entities.NewSession(id),
		}
		m.sessions[id] = e
		m.logger.Info("Session created", zap.String("sessionID", id))
	}
	return e
}

func (e *sessionEntry) acquire(ctx context.Context) error {
	select {
	case e.lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for session %s: %w", e.session.ID, ctx.Err())
	}
}

func (e *sessionEntry) release() {
	<-e.lock
}

// History implements repositories.SessionRepository
func (m *MemorySessionRepository) History(ctx context.Context, sessionID string) ([]entities.Turn, error) {
	var history []entities.Turn
	err := m.WithSession(ctx, sessionID, func(session *entities.Session) error {
		history = session.History()
		return nil
	})
	return history, err
}

// Append implements repositories.SessionRepository
func (m *MemorySessionRepository) Append(ctx context.Context, sessionID string, turn entities.Turn) error {
	if err := turn.Validate(); err != nil {
		return err
	}

	return m.WithSession(ctx, sessionID, func(session *entities.Session) error {
		session.AddTurn(turn)
		return nil
	})
}

// WithSession implements repositories.SessionRepository
func (m *MemorySessionRepository) WithSession(ctx context.Context, sessionID string, fn func(session *entities.Session) error) error {
	if sessionID == "" {
		return errors.New("session ID cannot be empty")
	}

	e := m.entry(sessionID)
	if err := e.acquire(ctx); err != nil {
		return err
	}
	defer e.release()

	return fn(e.session)
}

// Count returns the number of sessions seen so far
func (m *MemorySessionRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
