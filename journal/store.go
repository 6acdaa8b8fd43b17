package journal

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/Jaskaranbir/mem-bank-ledger/model"
)

// Store is append-only event-storage.
type Store interface {
	Insert(event model.Event) error
	Fetch(aggID string) ([]model.Event, error)
	// FetchByIndex returns events inserted at or after provided
	// index. Index is incremented on every event-insertion.
	FetchByIndex(index int) ([]model.Event, error)
}

// MemoryStore is in-memory Store without persistence.
// Use #NewMemoryStore to create new instance.
type MemoryStore struct {
	lock *sync.RWMutex

	ids       map[string]struct{}
	byAggID   map[string][]model.Event
	allEvents []model.Event
}

// NewMemoryStore creates a new instance of MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lock: &sync.RWMutex{},

		ids:       make(map[string]struct{}),
		byAggID:   make(map[string][]model.Event),
		allEvents: make([]model.Event, 0),
	}
}

// Insert validates and appends provided event.
// Duplicate events are ignored.
func (s *MemoryStore) Insert(event model.Event) error {
	if event.AggregateID() == "" {
		return errors.New("aggregate-id is blank")
	}
	if event.Time().IsZero() {
		return errors.New("time not specified")
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, exists := s.ids[event.ID()]; exists {
		return nil
	}
	s.ids[event.ID()] = struct{}{}
	s.byAggID[event.AggregateID()] = append(s.byAggID[event.AggregateID()], event)
	s.allEvents = append(s.allEvents, event)
	return nil
}

// Fetch returns all events for a specific aggregate.
func (s *MemoryStore) Fetch(aggID string) ([]model.Event, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	events := make([]model.Event, len(s.byAggID[aggID]))
	copy(events, s.byAggID[aggID])
	return events, nil
}

// FetchByIndex returns events inserted at or after provided index.
func (s *MemoryStore) FetchByIndex(index int) ([]model.Event, error) {
	if index < 0 {
		return nil, errors.New("index cannot be negative")
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	if index >= len(s.allEvents) {
		return make([]model.Event, 0), nil
	}
	events := make([]model.Event, len(s.allEvents)-index)
	copy(events, s.allEvents[index:])
	return events, nil
}
