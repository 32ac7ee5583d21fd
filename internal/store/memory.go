package store

import (
	"context"
	"errors"
	"sync"

	"github.com/i474232898/instant-weather/internal/weather"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
)

// MemoryStore is a concurrency-safe in-memory weather cache and preference store.
type MemoryStore struct {
	mu sync.RWMutex

	snapshot *weather.Snapshot
	prefs    map[string]string
	location *weather.Location
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		prefs: make(map[string]string),
	}
}

// Cached returns a copy of the cached snapshot, or nil when the cache is empty.
func (s *MemoryStore) Cached(_ context.Context) (*weather.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil, nil
	}
	snap := s.snapshot.Clone()
	return &snap, nil
}

// Save replaces the cached snapshot.
func (s *MemoryStore) Save(_ context.Context, snapshot weather.Snapshot) error {
	snap := snapshot.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = &snap
	return nil
}

// DeleteAll empties the cache.
func (s *MemoryStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
	return nil
}

// SelectedTemperatureUnit returns the raw stored unit, "" when unset.
func (s *MemoryStore) SelectedTemperatureUnit(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs[prefTemperatureUnit], nil
}

// SetTemperatureUnit stores the raw unit value.
func (s *MemoryStore) SetTemperatureUnit(_ context.Context, unit string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[prefTemperatureUnit] = unit
	return nil
}

// SaveLocation remembers the last location for background refreshes.
func (s *MemoryStore) SaveLocation(_ context.Context, loc weather.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = &loc
	return nil
}

// SavedLocation returns ErrNotFound when no location was saved.
func (s *MemoryStore) SavedLocation(_ context.Context) (weather.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.location == nil {
		return weather.Location{}, ErrNotFound
	}
	return *s.location, nil
}
