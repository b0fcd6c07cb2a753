package domain

import (
	"time"

	"github.com/google/uuid"
)

type AccountStatus string

const (
	AccountActive    AccountStatus = "ACTIVE"
	AccountInactive  AccountStatus = "INACTIVE"
	AccountSuspended AccountStatus = "SUSPENDED"
)

type TransactionType string

const (
	Credit TransactionType = "CREDIT"
	Debit  TransactionType = "DEBIT"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
	StatusReversed  TransactionStatus = "REVERSED"
)

// Account is a user's wallet. Balance is stored in minor units (kobo) and is
// mutated only by the ledger engine inside a database transaction.
type Account struct {
	ID            uuid.UUID     `json:"id"`
	OwnerID       uuid.UUID     `json:"owner_id"`
	AccountNumber string        `json:"account_number"`
	Balance       int64         `json:"balance"`
	Status        AccountStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Transaction is one immutable ledger entry. A fund or withdrawal writes one
// row; a transfer writes two (a DEBIT on the sender, a CREDIT on the
// recipient) sharing a TransferID but each carrying its own Reference.
type Transaction struct {
	ID                    uuid.UUID         `json:"id"`
	AccountID             uuid.UUID         `json:"account_id"`
	Type                  TransactionType   `json:"type"`
	Amount                int64             `json:"amount"`
	CounterpartyAccountID *uuid.UUID        `json:"counterparty_account_id,omitempty"`
	TransferID            *uuid.UUID        `json:"transfer_id,omitempty"`
	Reference             string            `json:"reference"`
	Status                TransactionStatus `json:"status"`
	Description           string            `json:"description,omitempty"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

// TransactionSummary aggregates COMPLETED rows for one account.
type TransactionSummary struct {
	TotalCredits int64 `json:"total_credits"`
	TotalDebits  int64 `json:"total_debits"`
	Count        int64 `json:"count"`
}
