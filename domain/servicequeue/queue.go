package servicequeue

import (
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/validator.v2"

	"github.com/Jaskaranbir/mem-bank-ledger/journal"
	"github.com/Jaskaranbir/mem-bank-ledger/logger"
	"github.com/Jaskaranbir/mem-bank-ledger/model"
)

// AggregateID is the journal aggregate-id for queue-events.
const AggregateID = "service-queue"

// ErrEmptyQueue is returned when serving from an empty queue.
var ErrEmptyQueue = errors.New("no customers in the queue")

// Queue is a FIFO line of customer-names waiting for service.
// It has no relation to accounts.
// Use #NewQueue to create new instance.
type Queue struct {
	log     logger.Logger
	journal journal.Repo

	lock  *sync.Mutex
	names []string
}

// Cfg is config for Queue.
type Cfg struct {
	Log     logger.Logger `validate:"nonnil"`
	Journal journal.Repo  `validate:"nonnil"`
}

// Customer is journal-data for queue-events.
type Customer struct {
	Name string `json:"name"`
	// Queue-length after the event.
	Waiting int `json:"waiting"`
}

// NewQueue validates config and creates an empty Queue.
func NewQueue(cfg *Cfg) (*Queue, error) {
	err := validator.Validate(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "error validating config")
	}

	return &Queue{
		log:     cfg.Log,
		journal: cfg.Journal,

		lock:  &sync.Mutex{},
		names: make([]string, 0),
	}, nil
}

// Enqueue appends name to tail. Duplicate names are allowed.
func (q *Queue) Enqueue(name string) error {
	q.lock.Lock()
	defer q.lock.Unlock()

	q.names = append(q.names, name)
	q.log.Debugf("Queued customer: %s", name)

	return q.record(model.CustomerQueued, name)
}

// ServeNext removes and returns the customer at head.
func (q *Queue) ServeNext() (string, error) {
	q.lock.Lock()
	defer q.lock.Unlock()

	if len(q.names) == 0 {
		return "", errors.WithStack(ErrEmptyQueue)
	}
	name := q.names[0]
	q.names = q.names[1:]
	q.log.Debugf("Serving customer: %s", name)

	err := q.record(model.CustomerServed, name)
	return name, err
}

// Len returns number of waiting customers.
func (q *Queue) Len() int {
	q.lock.Lock()
	defer q.lock.Unlock()

	return len(q.names)
}

// Pending returns waiting customers, head first.
func (q *Queue) Pending() []string {
	q.lock.Lock()
	defer q.lock.Unlock()

	names := make([]string, len(q.names))
	copy(names, q.names)
	return names
}

func (q *Queue) record(action model.EventAction, name string) error {
	event, err := model.NewEvent(&model.EventCfg{
		AggregateID: AggregateID,
		Action:      action,
		Data: &Customer{
			Name:    name,
			Waiting: len(q.names),
		},
	})
	if err != nil {
		return errors.Wrap(err, "error creating event")
	}

	err = q.journal.Record(event)
	if err != nil {
		q.log.Errorf("[EventAction: %s]: Failed journaling event: %s", action, err)
		return errors.Wrapf(err, "error journaling event: %s", action)
	}
	return nil
}
