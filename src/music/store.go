package music

import "sync"

// Store holds the current track. It is written by the file loaders and read by
// the bus and status handlers from their own goroutines.
type Store struct {
	mu    sync.RWMutex
	track Track
}

// NewStore creates a store holding the default track.
func NewStore() *Store {
	return &Store{track: NewTrack()}
}

// Snapshot returns a copy of the current track.
func (s *Store) Snapshot() Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.track.Clone()
}

// Update applies fn to the track under the write lock.
func (s *Store) Update(fn func(*Track)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.track)
}
