package journal

import (
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/validator.v2"

	"github.com/Jaskaranbir/mem-bank-ledger/model"
)

// Repo records events and allows reading them back.
type Repo interface {
	Record(event model.Event) error
	Fetch(aggID string) ([]model.Event, error)
	FetchByIndex(index int) ([]model.Event, error)
}

// LoggedRepo is Repo which stores events in Store and then
// publishes them on Bus. Events are kept in a pending-log
// until both steps succeed, and pending events are retried
// on next #Record.
// Use #NewLoggedRepo to create new instance.
type LoggedRepo struct {
	bus   Bus
	store Store

	lock    *sync.Mutex
	pending []model.Event
}

// LoggedRepoCfg is config for LoggedRepo.
type LoggedRepoCfg struct {
	Bus   Bus   `validate:"nonnil"`
	Store Store `validate:"nonnil"`
}

// NewLoggedRepo validates provided config
// and creates new instance of LoggedRepo.
func NewLoggedRepo(cfg *LoggedRepoCfg) (*LoggedRepo, error) {
	err := validator.Validate(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "error validating config")
	}

	return &LoggedRepo{
		bus:   cfg.Bus,
		store: cfg.Store,

		lock:    &sync.Mutex{},
		pending: make([]model.Event, 0),
	}, nil
}

// Record stores provided event and publishes it on the Bus.
func (r *LoggedRepo) Record(event model.Event) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.pending = append(r.pending, event)
	err := r.flushPending()
	return errors.Wrap(err, "error flushing pending-log")
}

// Pending returns number of events yet to be stored or published.
func (r *LoggedRepo) Pending() int {
	r.lock.Lock()
	defer r.lock.Unlock()

	return len(r.pending)
}

func (r *LoggedRepo) flushPending() error {
	for len(r.pending) > 0 {
		event := r.pending[0]

		// Store ignores duplicates, so an event that was stored
		// but failed to publish is safe to insert again.
		err := r.store.Insert(event)
		if err != nil {
			// Invalid events never become storable.
			r.pending = r.pending[1:]
			return errors.Wrapf(err, "error inserting event in store: %s", event.ID())
		}
		err = r.bus.Publish(event)
		if err != nil {
			return errors.Wrapf(err, "error publishing event to bus: %s", event.ID())
		}
		r.pending = r.pending[1:]
	}
	return nil
}

// Fetch returns all events for a specific aggregate.
func (r *LoggedRepo) Fetch(aggID string) ([]model.Event, error) {
	events, err := r.store.Fetch(aggID)
	return events, errors.Wrap(err, "error fetching events from store")
}

// FetchByIndex returns events inserted at or after provided index.
func (r *LoggedRepo) FetchByIndex(index int) ([]model.Event, error) {
	events, err := r.store.FetchByIndex(index)
	return events, errors.Wrap(err, "error fetching events from store")
}
