package services

import (
	"context"
	"errors"
	"sync"

	"paircall_server/models"
)

// memoryQueueStore mirrors the Dynamo store's semantics: plain Add and
// Remove never touch the version (as unconditional writes on the real
// table), while Commit checks the version item and each removed entry's
// snapshotted state, then applies the diff.
type memoryQueueStore struct {
	mu      sync.Mutex
	entries map[string]models.QueueEntry
	version int64
}

func newMemoryQueueStore() *memoryQueueStore {
	return &memoryQueueStore{entries: make(map[string]models.QueueEntry)}
}

func (m *memoryQueueStore) Snapshot(ctx context.Context) (map[string]models.QueueEntry, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := make(map[string]models.QueueEntry, len(m.entries))
	for id, entry := range m.entries {
		snapshot[id] = entry
	}
	return snapshot, m.version, nil
}

func (m *memoryQueueStore) Commit(ctx context.Context, base map[string]models.QueueEntry, baseVersion int64, next map[string]models.QueueEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.version != baseVersion {
		return ErrVersionConflict
	}
	// Validate every condition before touching anything, like the
	// all-or-nothing transaction.
	for id, prev := range base {
		if _, kept := next[id]; kept {
			continue
		}
		current, exists := m.entries[id]
		if !exists || current.JoinedAt != prev.JoinedAt {
			return ErrVersionConflict
		}
	}
	for id := range base {
		if _, kept := next[id]; !kept {
			delete(m.entries, id)
		}
	}
	for id, entry := range next {
		if prev, existed := base[id]; !existed || !sameEntry(prev, entry) {
			m.entries[id] = entry
		}
	}
	m.version++
	return nil
}

func (m *memoryQueueStore) Add(ctx context.Context, entry models.QueueEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.UserID] = entry
	return nil
}

func (m *memoryQueueStore) Remove(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, userID)
	return nil
}

func (m *memoryQueueStore) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

type memoryMatchStore struct {
	mu      sync.Mutex
	matches map[string]models.Match
	failPut bool
}

func newMemoryMatchStore() *memoryMatchStore {
	return &memoryMatchStore{matches: make(map[string]models.Match)}
}

func (m *memoryMatchStore) PutMatch(ctx context.Context, match models.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPut {
		return errors.New("simulated write failure")
	}
	m.matches[match.MatchID] = match
	return nil
}

func (m *memoryMatchStore) ListMatches(ctx context.Context) ([]models.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]models.Match, 0, len(m.matches))
	for _, match := range m.matches {
		list = append(list, match)
	}
	return list, nil
}

func (m *memoryMatchStore) DeleteMatch(ctx context.Context, matchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.matches, matchID)
	return nil
}

func (m *memoryMatchStore) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.matches)
}
