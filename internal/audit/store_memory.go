package audit

import (
	"context"
	"slices"
	"sync"
)

// InMemoryStore keeps events per subject in insertion order. When a limit is
// set, the oldest events of a subject are evicted first.
type InMemoryStore struct {
	mu       sync.RWMutex
	events   map[string][]Event
	perLimit int
}

type StoreOption func(*InMemoryStore)

// WithMaxEventsPerSubject bounds the history kept for each subject.
func WithMaxEventsPerSubject(n int) StoreOption {
	return func(s *InMemoryStore) {
		if n > 0 {
			s.perLimit = n
		}
	}
}

func NewInMemoryStore(opts ...StoreOption) *InMemoryStore {
	s := &InMemoryStore{events: make(map[string][]Event)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := append(s.events[event.SubjectID], event)
	if s.perLimit > 0 && len(history) > s.perLimit {
		history = slices.Clone(history[len(history)-s.perLimit:])
	}
	s.events[event.SubjectID] = history
	return nil
}

func (s *InMemoryStore) ListBySubject(_ context.Context, subjectID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.events[subjectID]), nil
}

// Clear drops every recorded event.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.events)
}
