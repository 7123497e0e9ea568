package ratelimit

import (
	"sync"
	"time"
)

// Window is the per-identity counter state: when the identity's current
// fixed window opened and how many requests it has absorbed.
type Window struct {
	Start time.Time
	Count int
}

// Store holds per-identity windows. Update must apply fn atomically with
// respect to other calls for the same identity, so concurrent Consume calls
// never lose increments.
type Store interface {
	// Update applies fn to the identity's window under the store's lock.
	// fn receives the current window (ok=false when absent) and returns the
	// new window plus whether to keep it; returning keep=false deletes it.
	Update(identity string, fn func(w Window, ok bool) (Window, bool))
	// Delete removes the identity's window.
	Delete(identity string)
	// Len returns the number of tracked identities.
	Len() int
}

// MemoryStore is the default in-process Store: a mutex-protected map. Rate
// limiter state is process-lifetime only; it is a soft usage guard, not a
// security boundary, and need not survive restarts.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]Window
}

// NewMemoryStore creates an empty in-memory window store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]Window)}
}

// Update implements Store.
func (s *MemoryStore) Update(identity string, fn func(w Window, ok bool) (Window, bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[identity]
	next, keep := fn(w, ok)
	if keep {
		s.windows[identity] = next
	} else if ok {
		delete(s.windows, identity)
	}
}

// Delete implements Store.
func (s *MemoryStore) Delete(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, identity)
}

// Len implements Store.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}
