package score

import "sync"

// SyncStore serializes access to a Store so several games can share one
// high score.
type SyncStore struct {
	mu sync.Mutex
	s  *Store
}

func NewSyncStore(s *Store) *SyncStore {
	return &SyncStore{s: s}
}

func (l *SyncStore) High() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.High()
}

func (l *SyncStore) Record(current int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Record(current)
}
