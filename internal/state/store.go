package state

import "sync"

// Store serializes dispatches and hands every new state to its
// subscribers.
type Store struct {
	mu   sync.Mutex
	app  App
	subs []func(prev, next App)
}

func NewStore() *Store { return &Store{app: NewApp()} }

// State returns the current state.
func (s *Store) State() App {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app
}

// Subscribe registers fn.  It is called synchronously after every
// dispatch, outside the store lock.
func (s *Store) Subscribe(fn func(prev, next App)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Dispatch applies act and returns the new state.
func (s *Store) Dispatch(act Action) App {
	s.mu.Lock()
	prev := s.app
	s.app = Reduce(prev, act)
	next := s.app
	subs := s.subs
	s.mu.Unlock()

	for _, fn := range subs {
		fn(prev, next)
	}
	return next
}
