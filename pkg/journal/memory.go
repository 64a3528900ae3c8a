package journal

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var errMemoryClosed = errors.New("storage is closed")

// MemoryStorage keeps records in memory.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []*Record
	closed  bool
}

// NewMemoryStorage creates an empty in-memory backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store implements Storage.
func (m *MemoryStorage) Store(ctx context.Context, record *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return newStorageError("memory", "store", errMemoryClosed)
	}
	copied := *record
	m.records = append(m.records, &copied)
	return nil
}

// Query implements Storage.
func (m *MemoryStorage) Query(ctx context.Context, q *Query) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, newStorageError("memory", "query", errMemoryClosed)
	}

	out := []*Record{}
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		if !q.matches(r) {
			continue
		}
		copied := *r
		out = append(out, &copied)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.After(out[j].Time) })

	if limit := q.limit(); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Count implements Storage.
func (m *MemoryStorage) Count(ctx context.Context, q *Query) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, r := range m.records {
		if q.matches(r) {
			n++
		}
	}
	return n, nil
}

// DeleteBefore implements Storage.
func (m *MemoryStorage) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.records[:0]
	var deleted int64
	for _, r := range m.records {
		if r.Time.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept
	return deleted, nil
}

// DeleteOldest implements Storage.
func (m *MemoryStorage) DeleteOldest(ctx context.Context, keep int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	excess := int64(len(m.records)) - keep
	if excess <= 0 {
		return 0, nil
	}

	sort.SliceStable(m.records, func(i, j int) bool { return m.records[i].Time.Before(m.records[j].Time) })
	m.records = append([]*Record(nil), m.records[excess:]...)
	return excess, nil
}

// Close implements Storage.
func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.records = nil
	return nil
}
