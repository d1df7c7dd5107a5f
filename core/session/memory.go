package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for development, tests, and
// single-process deployments. Safe for concurrent use; transitions on one
// session serialize through the store mutex.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[uuid.UUID]Session)}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// Save implements Store. A Closed session is never overwritten with an Open
// snapshot; Closed is terminal regardless of save ordering.
func (m *MemoryStore) Save(_ context.Context, sess Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[sess.ID]; ok && existing.Status == StatusClosed {
		return nil
	}
	m.sessions[sess.ID] = sess
	return nil
}
