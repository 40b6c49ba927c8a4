package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/bricklayers/internal/domain/draft"
	"github.com/okian/bricklayers/pkg/metrics"
)

type memoryRecord struct {
	state     draft.State
	updatedAt time.Time
}

// MemoryStore is a thread-safe, process-local Store. Values are copied on the
// way in and out so callers never share sets with the store.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]memoryRecord
	now    func() time.Time
	closed bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return &MemoryStore{
		data: make(map[string]memoryRecord),
		now:  s.now,
	}
}

// Get returns the stored state for leagueID.
func (s *MemoryStore) Get(_ context.Context, leagueID string) (draft.State, bool, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreLatency("get", msSince(start)) }()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return draft.State{}, false, ErrClosed
	}
	rec, ok := s.data[leagueID]
	if !ok {
		return draft.State{}, false, nil
	}
	return rec.state.Clone(), true, nil
}

// Set replaces the stored state for leagueID.
func (s *MemoryStore) Set(_ context.Context, leagueID string, st draft.State) error {
	start := time.Now()
	defer func() { metrics.RecordStoreLatency("set", msSince(start)) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.data[leagueID] = memoryRecord{state: st.Clone(), updatedAt: s.now()}
	return nil
}

// UpdatedAt returns when leagueID was last written.
func (s *MemoryStore) UpdatedAt(leagueID string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.data[leagueID]
	return rec.updatedAt, ok
}

// Count returns the number of leagues held.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Close marks the store closed; later calls fail with ErrClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
