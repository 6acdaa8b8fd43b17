package teller

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/validator.v2"

	"github.com/Jaskaranbir/mem-bank-ledger/domain/account"
	"github.com/Jaskaranbir/mem-bank-ledger/domain/ledger"
	"github.com/Jaskaranbir/mem-bank-ledger/domain/servicequeue"
	"github.com/Jaskaranbir/mem-bank-ledger/journal"
	"github.com/Jaskaranbir/mem-bank-ledger/logger"
	"github.com/Jaskaranbir/mem-bank-ledger/model"
)

// Messages shown to the operator for domain-failures.
const (
	MsgDuplicateAccount    = "Account number already exists!"
	MsgAccountNotFound     = "Account not found!"
	MsgInsufficientBalance = "Insufficient balance!"
	MsgTransferNotFound    = "One or both accounts not found!"
	MsgEmptyQueue          = "No customers in the queue."
	MsgInvalidAmount       = "Amount must be positive!"
	MsgTransferSuccessful  = "Transfer successful!"
	MsgEmptyJournal        = "Journal is empty."
)

// Teller dispatches commands to the ledger and
// service-queue and renders operator-messages.
// Use #NewTeller to create new instance.
type Teller struct {
	log logger.Logger

	ledger  *ledger.Ledger
	queue   *servicequeue.Queue
	journal journal.Repo
}

// Cfg is config for Teller.
type Cfg struct {
	Log logger.Logger `validate:"nonnil"`

	Ledger  *ledger.Ledger      `validate:"nonnil"`
	Queue   *servicequeue.Queue `validate:"nonnil"`
	Journal journal.Repo        `validate:"nonnil"`
}

// NewTeller validates config and creates a new Teller.
func NewTeller(cfg *Cfg) (*Teller, error) {
	err := validator.Validate(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "error validating config")
	}

	return &Teller{
		log: cfg.Log,

		ledger:  cfg.Ledger,
		queue:   cfg.Queue,
		journal: cfg.Journal,
	}, nil
}

// Handle runs provided command and returns the message for operator.
// Domain-failures are reported as messages, so the returned error
// is only set for malformed commands and journal-failures.
func (t *Teller) Handle(cmd model.Cmd) (string, error) {
	logPrefix := fmt.Sprintf("[CMD: %s]: [CmdAction: %s]:", cmd.ID(), cmd.Action())
	t.log.Tracef("%s Handling command", logPrefix)

	var (
		msg string
		err error
	)
	switch cmd.Action() {
	case model.CreateAccount:
		msg, err = t.createAccount(cmd)
	case model.Deposit:
		msg, err = t.deposit(cmd)
	case model.Withdraw:
		msg, err = t.withdraw(cmd)
	case model.Transfer:
		msg, err = t.transfer(cmd)
	case model.ViewAccount:
		msg, err = t.viewAccount(cmd)
	case model.EnqueueCustomer:
		msg, err = t.enqueueCustomer(cmd)
	case model.ServeCustomer:
		msg, err = t.serveCustomer()
	case model.ViewJournal:
		msg, err = t.viewJournal()
	default:
		err = errors.Errorf("unknown command-action: %s", cmd.Action())
	}

	if err != nil {
		t.log.Errorf("%s Error handling command: %s", logPrefix, err)
		return "", err
	}
	t.log.Debugf("%s %s", logPrefix, msg)
	return msg, nil
}

func (t *Teller) createAccount(cmd model.Cmd) (string, error) {
	req := &model.CreateAccountReq{}
	err := cmd.Decode(req)
	if err != nil {
		return "", errors.Wrap(err, "error decoding create-account request")
	}

	err = t.ledger.CreateAccount(req.AccountID, req.Name, req.InitialBalance)
	switch {
	case errors.Is(err, ledger.ErrDuplicateAccount):
		return MsgDuplicateAccount, nil
	case errors.Is(err, ledger.ErrInvalidAmount):
		return MsgInvalidAmount, nil
	case err != nil:
		return "", errors.Wrap(err, "error creating account")
	}
	return "Account created successfully for " + req.Name, nil
}

func (t *Teller) deposit(cmd model.Cmd) (string, error) {
	req := &model.AmountReq{}
	err := cmd.Decode(req)
	if err != nil {
		return "", errors.Wrap(err, "error decoding deposit request")
	}

	err = t.ledger.Deposit(req.AccountID, req.Amount)
	if msg, handled := domainMessage(err, MsgAccountNotFound); handled {
		return msg, nil
	}
	if err != nil {
		return "", errors.Wrap(err, "error depositing")
	}
	return fmt.Sprintf("Deposited %s into account %d", account.FormatAmount(req.Amount), req.AccountID), nil
}

func (t *Teller) withdraw(cmd model.Cmd) (string, error) {
	req := &model.AmountReq{}
	err := cmd.Decode(req)
	if err != nil {
		return "", errors.Wrap(err, "error decoding withdraw request")
	}

	err = t.ledger.Withdraw(req.AccountID, req.Amount)
	if msg, handled := domainMessage(err, MsgAccountNotFound); handled {
		return msg, nil
	}
	if err != nil {
		return "", errors.Wrap(err, "error withdrawing")
	}
	return fmt.Sprintf("Withdrew %s from account %d", account.FormatAmount(req.Amount), req.AccountID), nil
}

func (t *Teller) transfer(cmd model.Cmd) (string, error) {
	req := &model.TransferReq{}
	err := cmd.Decode(req)
	if err != nil {
		return "", errors.Wrap(err, "error decoding transfer request")
	}

	err = t.ledger.Transfer(req.FromID, req.ToID, req.Amount)
	if msg, handled := domainMessage(err, MsgTransferNotFound); handled {
		return msg, nil
	}
	if err != nil {
		return "", errors.Wrap(err, "error transferring")
	}
	return MsgTransferSuccessful, nil
}

func (t *Teller) viewAccount(cmd model.Cmd) (string, error) {
	req := &model.AccountReq{}
	err := cmd.Decode(req)
	if err != nil {
		return "", errors.Wrap(err, "error decoding view-account request")
	}

	details, err := t.ledger.AccountDetails(req.AccountID)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return MsgAccountNotFound, nil
	}
	if err != nil {
		return "", errors.Wrap(err, "error fetching account-details")
	}
	return formatDetails(details), nil
}

func (t *Teller) enqueueCustomer(cmd model.Cmd) (string, error) {
	req := &model.CustomerReq{}
	err := cmd.Decode(req)
	if err != nil {
		return "", errors.Wrap(err, "error decoding customer request")
	}

	err = t.queue.Enqueue(req.Name)
	if err != nil {
		return "", errors.Wrap(err, "error queueing customer")
	}
	return req.Name + " added to the service queue.", nil
}

func (t *Teller) serveCustomer() (string, error) {
	name, err := t.queue.ServeNext()
	if errors.Is(err, servicequeue.ErrEmptyQueue) {
		return MsgEmptyQueue, nil
	}
	if err != nil {
		return "", errors.Wrap(err, "error serving customer")
	}
	return "Serving customer: " + name, nil
}

func (t *Teller) viewJournal() (string, error) {
	events, err := t.journal.FetchByIndex(0)
	if err != nil {
		return "", errors.Wrap(err, "error fetching journal")
	}
	if len(events) == 0 {
		return MsgEmptyJournal, nil
	}

	lines := make([]string, 0, len(events))
	for i, event := range events {
		line, err := json.Marshal(event)
		if err != nil {
			return "", errors.Wrapf(err, "error marshalling event: %s", event.ID())
		}
		lines = append(lines, fmt.Sprintf("%d: %s", i, line))
	}
	return strings.Join(lines, "\n"), nil
}

// domainMessage maps ledger-errors shared by money-movements.
func domainMessage(err error, notFoundMsg string) (string, bool) {
	switch {
	case err == nil:
		return "", false
	case errors.Is(err, ledger.ErrAccountNotFound):
		return notFoundMsg, true
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return MsgInsufficientBalance, true
	case errors.Is(err, ledger.ErrInvalidAmount):
		return MsgInvalidAmount, true
	}
	return "", false
}

func formatDetails(details account.Details) string {
	return fmt.Sprintf(
		"Account Number: %d\nName: %s\nBalance: %s\nTransaction History: [%s]",
		details.ID,
		details.Name,
		account.FormatAmount(details.Balance),
		strings.Join(details.History, ", "),
	)
}
