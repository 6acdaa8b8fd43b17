package ledger

import (
	"github.com/pkg/errors"

	"github.com/Jaskaranbir/mem-bank-ledger/domain/account"
)

// Domain errors. None of these leave the Ledger
// in a partially-modified state.
var (
	ErrDuplicateAccount = errors.New("account number already exists")
	ErrAccountNotFound  = errors.New("account not found")
	ErrInvalidAmount    = errors.New("amount must be positive")

	ErrInsufficientBalance = account.ErrInsufficientBalance
)
