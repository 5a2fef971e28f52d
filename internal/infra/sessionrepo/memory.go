package sessionrepo

import (
	"context"
	"sync"

	"github.com/ritwiksharan/event-recommendor/internal/domain/chat"
)

// MemoryRepository is an in-memory chat.SessionStore used for tests/dev.
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]chat.Session
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[string]chat.Session),
	}
}

// Save implements chat.SessionStore.
func (r *MemoryRepository) Save(_ context.Context, session chat.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session.History = append([]chat.Turn(nil), session.History...)
	r.sessions[session.ID] = session
	return nil
}

// Get implements chat.SessionStore.
func (r *MemoryRepository) Get(_ context.Context, id string) (chat.Session, bool, error) {
	if id == "" {
		return chat.Session{}, false, nil
	}
	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return chat.Session{}, false, nil
	}
	session.History = append([]chat.Turn(nil), session.History...)
	return session, true, nil
}

var _ chat.SessionStore = (*MemoryRepository)(nil)
