package account

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrInsufficientBalance is returned when a withdrawal
// would take the balance below zero.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Account is a named balance-holding entity with
// an append-only history of human-readable entries.
// Use #New to create new instance.
type Account struct {
	id      int
	name    string
	balance decimal.Decimal
	history []string
}

// Details is a read-only projection of an Account.
type Details struct {
	ID      int             `json:"id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
	History []string        `json:"history"`
}

// New creates an account with a single creation-entry in history.
func New(id int, name string, initialBalance decimal.Decimal) *Account {
	return &Account{
		id:      id,
		name:    name,
		balance: initialBalance,
		history: []string{
			"Account created with initial balance: " + FormatAmount(initialBalance),
		},
	}
}

// FormatAmount renders an amount the way it appears in history.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// ID returns Account-ID.
func (a *Account) ID() int {
	return a.id
}

// Name returns Account-Name.
func (a *Account) Name() string {
	return a.name
}

// Balance returns current balance.
func (a *Account) Balance() decimal.Decimal {
	return a.balance
}

// Deposit adds amount to balance. Amount is not validated.
func (a *Account) Deposit(amount decimal.Decimal) {
	a.balance = a.balance.Add(amount)
	a.history = append(a.history, fmt.Sprintf(
		"Deposited: %s, Balance: %s",
		FormatAmount(amount), FormatAmount(a.balance),
	))
}

// Withdraw subtracts amount from balance. Balance and
// history are left unchanged if balance is insufficient.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if a.balance.LessThan(amount) {
		return errors.WithStack(ErrInsufficientBalance)
	}
	a.balance = a.balance.Sub(amount)
	a.history = append(a.history, fmt.Sprintf(
		"Withdrew: %s, Balance: %s",
		FormatAmount(amount), FormatAmount(a.balance),
	))
	return nil
}

// AddTransaction appends a note to history as is.
func (a *Account) AddTransaction(note string) {
	a.history = append(a.history, note)
}

// Details returns a copy of account-state.
func (a *Account) Details() Details {
	history := make([]string, len(a.history))
	copy(history, a.history)

	return Details{
		ID:      a.id,
		Name:    a.name,
		Balance: a.balance,
		History: history,
	}
}
