package attendance

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// RecordStore persists accepted claims as immutable attendance records.
type RecordStore interface {
	Persist(ctx context.Context, record Record) error
}

// MemoryRecordStore is an in-memory RecordStore for development and tests.
type MemoryRecordStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID][]Record
}

// NewMemoryRecordStore creates an empty in-memory record store.
func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{records: make(map[uuid.UUID][]Record)}
}

// Persist implements RecordStore.
func (m *MemoryRecordStore) Persist(_ context.Context, record Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[record.SessionID] = append(m.records[record.SessionID], record)
	return nil
}

// BySession returns a copy of the records stored for a session.
func (m *MemoryRecordStore) BySession(sessionID uuid.UUID) []Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Record, len(m.records[sessionID]))
	copy(out, m.records[sessionID])
	return out
}
