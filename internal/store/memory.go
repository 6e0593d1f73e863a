package store

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"

	"github.com/i474232898/weather-ensemble/internal/weather"
)

var (
	// ErrNotFound is returned when no cycle has completed yet or the ID is unknown.
	ErrNotFound = errors.New("no weather data available")
)

// DefaultHistory is used when a non-positive history size is requested.
const DefaultHistory = 32

// MemoryStore is a concurrency-safe in-memory implementation of weather.Store.
// It holds the latest cycle result and a bounded LRU of recent ones by ID.
type MemoryStore struct {
	mu     sync.RWMutex
	latest *weather.CycleResult

	history *lru.Cache
}

// NewMemoryStore creates a new MemoryStore keeping up to historySize past cycles.
func NewMemoryStore(historySize int) (*MemoryStore, error) {
	if historySize <= 0 {
		historySize = DefaultHistory
	}
	history, err := lru.New(historySize)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{history: history}, nil
}

// Save replaces the latest result. The previous one stays reachable by ID
// until evicted from the history.
func (s *MemoryStore) Save(result weather.CycleResult) {
	s.mu.Lock()
	s.latest = &result
	s.mu.Unlock()

	s.history.Add(result.ID, result)
}

// Latest returns the most recent cycle result.
func (s *MemoryStore) Latest() (weather.CycleResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return weather.CycleResult{}, ErrNotFound
	}
	return *s.latest, nil
}

// Get returns a recent cycle result by ID.
func (s *MemoryStore) Get(id uuid.UUID) (weather.CycleResult, error) {
	v, ok := s.history.Get(id)
	if !ok {
		return weather.CycleResult{}, ErrNotFound
	}
	result, ok := v.(weather.CycleResult)
	if !ok {
		return weather.CycleResult{}, ErrNotFound
	}
	return result, nil
}

// Len reports how many cycles the history currently holds.
func (s *MemoryStore) Len() int {
	return s.history.Len()
}
