package audit

import (
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/validator.v2"

	"github.com/Jaskaranbir/mem-bank-ledger/journal"
	"github.com/Jaskaranbir/mem-bank-ledger/logger"
	"github.com/Jaskaranbir/mem-bank-ledger/model"
)

// Trail is a running projection of the journal.
// It logs every event once and counts events by action.
// Use #NewTrail to create new instance.
type Trail struct {
	log     logger.Logger
	journal journal.Repo

	lock      *sync.RWMutex
	lastIndex int
	counts    map[model.EventAction]int
}

// TrailCfg is config for Trail.
type TrailCfg struct {
	Log     logger.Logger `validate:"nonnil"`
	Journal journal.Repo  `validate:"nonnil"`
}

// NewTrail validates config and creates a new Trail.
func NewTrail(cfg *TrailCfg) (*Trail, error) {
	err := validator.Validate(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "error validating config")
	}

	return &Trail{
		log:     cfg.Log,
		journal: cfg.Journal,

		lock:   &sync.RWMutex{},
		counts: make(map[model.EventAction]int),
	}, nil
}

// Hydrate processes journal-events recorded since last hydration.
func (t *Trail) Hydrate() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.log.Tracef("Fetching events from journal")
	events, err := t.journal.FetchByIndex(t.lastIndex)
	if err != nil {
		return errors.Wrap(err, "error getting events from journal")
	}
	t.log.Tracef("Fetched %d event(s) from journal", len(events))

	for _, event := range events {
		t.log.Infof(
			"[Event: %s]: [Aggregate: %s]: [EventAction: %s]: %s",
			event.ID(), event.AggregateID(), event.Action(), event.Data(),
		)
		t.counts[event.Action()]++
		t.lastIndex++
	}
	return nil
}

// Index returns number of events processed so far.
func (t *Trail) Index() int {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.lastIndex
}

// Count returns number of processed events with provided action.
func (t *Trail) Count(action model.EventAction) int {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.counts[action]
}
