package status

import (
	"context"
	"sync"

	"talent-workers/internal/models"
)

// HistoryStore is the single-slot undo memory: one previous status per
// normalized application id. Implementations are scoped to one session.
type HistoryStore interface {
	Get(ctx context.Context, key string) (models.Status, bool, error)
	Set(ctx context.Context, key string, previous models.Status) error
	Delete(ctx context.Context, key string) error
}

type MemoryHistory struct {
	mu      sync.RWMutex
	entries map[string]models.Status
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{entries: make(map[string]models.Status)}
}

func (m *MemoryHistory) Get(_ context.Context, key string) (models.Status, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.entries[key]
	return s, ok, nil
}

func (m *MemoryHistory) Set(_ context.Context, key string, previous models.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = previous
	return nil
}

func (m *MemoryHistory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *MemoryHistory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// HistoryFor returns the store scoped to a session.
type HistoryFor func(sessionID string) HistoryStore

// SharedHistory serves every session from h.
func SharedHistory(h HistoryStore) HistoryFor {
	return func(string) HistoryStore { return h }
}

// MemoryHistoryFor gives each session its own MemoryHistory, created on
// first use.
func MemoryHistoryFor() HistoryFor {
	var mu sync.Mutex
	sessions := make(map[string]*MemoryHistory)
	return func(sessionID string) HistoryStore {
		mu.Lock()
		defer mu.Unlock()
		h, ok := sessions[sessionID]
		if !ok {
			h = NewMemoryHistory()
			sessions[sessionID] = h
		}
		return h
	}
}
