package events

import (
	"fmt"
	"sync"
)

// EventStore is the interface for storing and retrieving events.
type EventStore interface {
	Append(event Event) error
	Load(gameID string) ([]Event, error)
}

// InMemoryEventStore is an in-memory implementation of EventStore,
// keyed by game ID.
type InMemoryEventStore struct {
	events map[string][]Event
	mutex  sync.RWMutex
}

// NewInMemoryEventStore creates a new in-memory event store.
func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		events: make(map[string][]Event),
	}
}

// Append adds a new event to the store.
func (s *InMemoryEventStore) Append(event Event) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	gameID := event.Game()
	if gameID == "" {
		return fmt.Errorf("event %s has no game ID", event.Name())
	}

	s.events[gameID] = append(s.events[gameID], event)
	return nil
}

// Load retrieves all events recorded for the given game in order.
func (s *InMemoryEventStore) Load(gameID string) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	stored := s.events[gameID]
	result := make([]Event, len(stored))
	copy(result, stored)
	return result, nil
}
