package cart

import "sync"

// Store hands out one Cart per customer session. It replaces the global
// singleton store pattern: the store itself is constructed once and passed
// to whoever needs cart access, so carts stay testable and session-scoped.
type Store struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

// Session returns the cart for the given session id, creating it on first
// use.
func (s *Store) Session(sessionID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok {
		c = New()
		s.carts[sessionID] = c
	}
	return c
}

// Drop forgets the cart for the given session id.
func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}
