package secrets

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	secrets map[string]string
}

// NewMemoryStore creates an empty in-memory secret store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{secrets: make(map[string]string)}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, presenterID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ciphertext, ok := m.secrets[presenterID]
	if !ok {
		return "", ErrNotProvisioned
	}
	return ciphertext, nil
}

// Put implements Store.
func (m *MemoryStore) Put(_ context.Context, presenterID, ciphertext string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.secrets[presenterID]; ok {
		return ErrAlreadyProvisioned
	}
	m.secrets[presenterID] = ciphertext
	return nil
}
