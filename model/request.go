package model

import "github.com/shopspring/decimal"

// CreateAccountReq is data for CreateAccount command.
type CreateAccountReq struct {
	AccountID      int             `json:"account_id"`
	Name           string          `json:"name"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// AmountReq is data for Deposit and Withdraw commands.
type AmountReq struct {
	AccountID int             `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// TransferReq is data for Transfer command.
type TransferReq struct {
	FromID int             `json:"from_id"`
	ToID   int             `json:"to_id"`
	Amount decimal.Decimal `json:"amount"`
}

// AccountReq is data for ViewAccount command.
type AccountReq struct {
	AccountID int `json:"account_id"`
}

// CustomerReq is data for EnqueueCustomer command.
type CustomerReq struct {
	Name string `json:"name"`
}
