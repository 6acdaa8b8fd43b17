package ledger

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/validator.v2"

	"github.com/Jaskaranbir/mem-bank-ledger/domain/account"
	"github.com/Jaskaranbir/mem-bank-ledger/journal"
	"github.com/Jaskaranbir/mem-bank-ledger/logger"
	"github.com/Jaskaranbir/mem-bank-ledger/model"
)

// Ledger owns all accounts and exposes the banking operations.
// A single lock serializes every operation, so a transfer is
// never observed half-applied.
// Use #NewLedger to create new instance.
type Ledger struct {
	log             logger.Logger
	journal         journal.Repo
	validateAmounts bool

	lock     *sync.Mutex
	accounts map[int]*account.Account
}

// Cfg is config for Ledger.
type Cfg struct {
	Log     logger.Logger `validate:"nonnil"`
	Journal journal.Repo  `validate:"nonnil"`

	// Rejects non-positive amounts and negative
	// initial-balances with ErrInvalidAmount.
	ValidateAmounts bool
}

// Opened is journal-data for AccountCreated.
type Opened struct {
	AccountID      int             `json:"account_id"`
	Name           string          `json:"name"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// Movement is journal-data for AccountDeposited and AccountWithdrawn.
type Movement struct {
	AccountID int             `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	Balance   decimal.Decimal `json:"balance"`
}

// Transferred is journal-data for FundsTransferred.
type Transferred struct {
	FromID      int             `json:"from_id"`
	ToID        int             `json:"to_id"`
	Amount      decimal.Decimal `json:"amount"`
	FromBalance decimal.Decimal `json:"from_balance"`
	ToBalance   decimal.Decimal `json:"to_balance"`
}

// NewLedger validates config and creates an empty Ledger.
func NewLedger(cfg *Cfg) (*Ledger, error) {
	err := validator.Validate(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "error validating config")
	}

	return &Ledger{
		log:             cfg.Log,
		journal:         cfg.Journal,
		validateAmounts: cfg.ValidateAmounts,

		lock:     &sync.Mutex{},
		accounts: make(map[int]*account.Account),
	}, nil
}

// CreateAccount opens an account under provided id.
// Existing accounts are never replaced.
func (l *Ledger) CreateAccount(id int, name string, initialBalance decimal.Decimal) error {
	if l.validateAmounts && initialBalance.IsNegative() {
		return errors.Wrapf(ErrInvalidAmount, "initial balance: %s", initialBalance)
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	if _, exists := l.accounts[id]; exists {
		return errors.Wrapf(ErrDuplicateAccount, "account: %d", id)
	}
	acc := account.New(id, name, initialBalance)
	l.accounts[id] = acc
	l.log.Debugf("[Account: %d]: Created account for %s", id, name)

	return l.record(id, model.AccountCreated, &Opened{
		AccountID:      id,
		Name:           name,
		InitialBalance: initialBalance,
	})
}

// Deposit credits amount to account.
func (l *Ledger) Deposit(id int, amount decimal.Decimal) error {
	err := l.checkAmount(amount)
	if err != nil {
		return err
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	acc, err := l.lookup(id)
	if err != nil {
		return err
	}
	acc.Deposit(amount)
	l.log.Debugf("[Account: %d]: Deposited %s", id, amount)

	return l.record(id, model.AccountDeposited, &Movement{
		AccountID: id,
		Amount:    amount,
		Balance:   acc.Balance(),
	})
}

// Withdraw debits amount from account.
func (l *Ledger) Withdraw(id int, amount decimal.Decimal) error {
	err := l.checkAmount(amount)
	if err != nil {
		return err
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	acc, err := l.lookup(id)
	if err != nil {
		return err
	}
	err = acc.Withdraw(amount)
	if err != nil {
		return errors.Wrapf(err, "account: %d", id)
	}
	l.log.Debugf("[Account: %d]: Withdrew %s", id, amount)

	return l.record(id, model.AccountWithdrawn, &Movement{
		AccountID: id,
		Amount:    amount,
		Balance:   acc.Balance(),
	})
}

// Transfer moves amount from one account to another.
// Both accounts are looked up before anything is changed,
// and a failed debit leaves both accounts untouched.
// The credit after a successful debit cannot fail, which is
// what keeps the debit-then-credit sequence consistent.
func (l *Ledger) Transfer(fromID, toID int, amount decimal.Decimal) error {
	err := l.checkAmount(amount)
	if err != nil {
		return err
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	sender, err := l.lookup(fromID)
	if err != nil {
		return errors.Wrap(err, "sender")
	}
	receiver, err := l.lookup(toID)
	if err != nil {
		return errors.Wrap(err, "receiver")
	}

	err = sender.Withdraw(amount)
	if err != nil {
		return errors.Wrapf(err, "account: %d", fromID)
	}
	receiver.Deposit(amount)

	amountStr := account.FormatAmount(amount)
	sender.AddTransaction(fmt.Sprintf("Transferred %s to account %d", amountStr, toID))
	receiver.AddTransaction(fmt.Sprintf("Received %s from account %d", amountStr, fromID))
	l.log.Debugf("[Account: %d]: Transferred %s to account %d", fromID, amount, toID)

	return l.record(fromID, model.FundsTransferred, &Transferred{
		FromID:      fromID,
		ToID:        toID,
		Amount:      amount,
		FromBalance: sender.Balance(),
		ToBalance:   receiver.Balance(),
	})
}

// AccountDetails returns id, name, balance and full history of account.
func (l *Ledger) AccountDetails(id int) (account.Details, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	acc, err := l.lookup(id)
	if err != nil {
		return account.Details{}, err
	}
	return acc.Details(), nil
}

// AccountIDs returns ids of all accounts in ascending order.
func (l *Ledger) AccountIDs() []int {
	l.lock.Lock()
	defer l.lock.Unlock()

	ids := make([]int, 0, len(l.accounts))
	for id := range l.accounts {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (l *Ledger) lookup(id int) (*account.Account, error) {
	acc, exists := l.accounts[id]
	if !exists {
		return nil, errors.Wrapf(ErrAccountNotFound, "account: %d", id)
	}
	return acc, nil
}

func (l *Ledger) checkAmount(amount decimal.Decimal) error {
	if l.validateAmounts && !amount.IsPositive() {
		return errors.Wrapf(ErrInvalidAmount, "amount: %s", amount)
	}
	return nil
}

// record journals a successful mutation. The mutation itself
// is already applied when this fails.
func (l *Ledger) record(id int, action model.EventAction, data interface{}) error {
	event, err := model.NewEvent(&model.EventCfg{
		AggregateID: strconv.Itoa(id),
		Action:      action,
		Data:        data,
	})
	if err != nil {
		return errors.Wrap(err, "error creating event")
	}

	err = l.journal.Record(event)
	if err != nil {
		l.log.Errorf("[Account: %d]: [EventAction: %s]: Failed journaling event: %s", id, action, err)
		return errors.Wrapf(err, "error journaling event: %s", action)
	}
	l.log.Tracef("[Account: %d]: [EventAction: %s]: Journaled event", id, action)
	return nil
}
