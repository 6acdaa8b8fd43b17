package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/validator.v2"
)

// CmdAction represents a Command-action.
type CmdAction string

// String returns string-representation of a CmdAction.
func (ca CmdAction) String() string {
	return string(ca)
}

// Teller commands
const (
	CreateAccount   CmdAction = "CreateAccount"
	Deposit         CmdAction = "Deposit"
	Withdraw        CmdAction = "Withdraw"
	Transfer        CmdAction = "Transfer"
	ViewAccount     CmdAction = "ViewAccount"
	EnqueueCustomer CmdAction = "EnqueueCustomer"
	ServeCustomer   CmdAction = "ServeCustomer"
	ViewJournal     CmdAction = "ViewJournal"
)

// Cmd represents a Command.
// Use #NewCmd to create new instance.
type Cmd struct {
	id string

	time   time.Time
	action CmdAction
	data   []byte
}

// CmdCfg is config for Cmd.
type CmdCfg struct {
	Time   time.Time
	Action CmdAction `validate:"nonzero"`
	Data   interface{}
}

// NewCmd validates provided
// config and creates a new Cmd.
// Uses current UTC-time if time is not set.
func NewCmd(cfg *CmdCfg) (Cmd, error) {
	err := validator.Validate(cfg)
	if err != nil {
		return Cmd{}, errors.Wrap(err, "error validating config")
	}
	if cfg.Time.IsZero() {
		cfg.Time = time.Now().UTC()
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return Cmd{}, errors.Wrap(err, "error generating command-id")
	}

	dataBytes, err := marshalData(cfg.Data)
	if err != nil {
		return Cmd{}, err
	}

	return Cmd{
		id: id.String(),

		time:   cfg.Time,
		action: cfg.Action,
		data:   dataBytes,
	}, nil
}

// ID returns Command-ID.
func (c Cmd) ID() string {
	return c.id
}

// Time return Command-Time.
func (c Cmd) Time() time.Time {
	return c.time
}

// Action return Command-Action.
func (c Cmd) Action() CmdAction {
	return c.action
}

// Data return Command-Data.
func (c Cmd) Data() []byte {
	return c.data
}

// Decode json-unmarshals command-data into v.
func (c Cmd) Decode(v interface{}) error {
	if len(c.data) == 0 {
		return errors.New("command has no data")
	}
	err := json.Unmarshal(c.data, v)
	return errors.Wrap(err, "error unmarshalling command-data")
}
