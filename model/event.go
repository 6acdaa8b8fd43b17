package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/validator.v2"
)

// EventAction represents an Event-action.
type EventAction string

// String returns string-representation of an EventAction.
func (ea EventAction) String() string {
	return string(ea)
}

// Ledger events
const (
	AccountCreated   EventAction = "AccountCreated"
	AccountDeposited EventAction = "AccountDeposited"
	AccountWithdrawn EventAction = "AccountWithdrawn"
	FundsTransferred EventAction = "FundsTransferred"
)

// Service-queue events
const (
	CustomerQueued EventAction = "CustomerQueued"
	CustomerServed EventAction = "CustomerServed"
)

// LedgerEvents lists every action recorded by the ledger and the
// service-queue, in the order they are usually subscribed to.
var LedgerEvents = []EventAction{
	AccountCreated,
	AccountDeposited,
	AccountWithdrawn,
	FundsTransferred,
	CustomerQueued,
	CustomerServed,
}

// Event is a fact recorded in the journal.
// Use #NewEvent to create new instance.
type Event struct {
	id          string
	aggregateID string

	time   time.Time
	action EventAction
	data   []byte
}

// EventCfg is config for Event.
type EventCfg struct {
	AggregateID string `validate:"nonzero"`

	Time   time.Time
	Action EventAction `validate:"nonzero"`
	Data   interface{}
}

// NewEvent validates provided
// config and creates a new Event.
// Uses current UTC-time if time is not set.
func NewEvent(cfg *EventCfg) (Event, error) {
	err := validator.Validate(cfg)
	if err != nil {
		return Event{}, errors.Wrap(err, "error validating config")
	}
	if cfg.Time.IsZero() {
		cfg.Time = time.Now().UTC()
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return Event{}, errors.Wrap(err, "error generating event-id")
	}

	dataBytes, err := marshalData(cfg.Data)
	if err != nil {
		return Event{}, err
	}

	return Event{
		id:          id.String(),
		aggregateID: cfg.AggregateID,

		time:   cfg.Time,
		action: cfg.Action,
		data:   dataBytes,
	}, nil
}

// ID return Event-ID.
func (e Event) ID() string {
	return e.id
}

// AggregateID return Event-AggregateID.
func (e Event) AggregateID() string {
	return e.aggregateID
}

// Time return Event-Time.
func (e Event) Time() time.Time {
	return e.time
}

// Action return Event-Action.
func (e Event) Action() EventAction {
	return e.action
}

// Data return Event-Data.
func (e Event) Data() []byte {
	return e.data
}

// MarshalJSON renders the event as a journal-line.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID          string          `json:"id"`
		AggregateID string          `json:"aggregate_id"`
		Time        time.Time       `json:"time"`
		Action      EventAction     `json:"action"`
		Data        json.RawMessage `json:"data,omitempty"`
	}{
		ID:          e.id,
		AggregateID: e.aggregateID,
		Time:        e.time,
		Action:      e.action,
		Data:        rawJSON(e.data),
	})
}

// marshalData keeps byte-slices as they are
// and json-marshals everything else.
func marshalData(data interface{}) ([]byte, error) {
	if data == nil {
		return nil, nil
	}
	if v, ok := data.([]byte); ok {
		return v, nil
	}
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Wrap(err, "error json-marshalling data")
	}
	return dataBytes, nil
}

// rawJSON returns data as-is when it is valid JSON,
// else wraps it into a JSON-string.
func rawJSON(data []byte) json.RawMessage {
	if len(data) == 0 {
		return nil
	}
	if json.Valid(data) {
		return data
	}
	quoted, _ := json.Marshal(string(data))
	return quoted
}
