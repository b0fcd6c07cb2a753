package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrAccountNotFound indicates the account does not exist.
	ErrAccountNotFound = errors.New("account not found")
	// ErrTransactionNotFound indicates no transaction matches the lookup.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrAccountNotActive indicates the account status forbids money movement.
	ErrAccountNotActive = errors.New("account is not active")
	// ErrSelfTransfer indicates sender and recipient are the same account.
	ErrSelfTransfer = errors.New("cannot transfer to your own account")
	// ErrInsufficientFunds indicates the balance cannot cover the debit.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrConflict indicates a uniqueness rule was violated at the storage layer.
	ErrConflict = errors.New("duplicate value violates a unique constraint")
	// ErrReferenceExhausted indicates the reference retry budget was spent.
	ErrReferenceExhausted = errors.New("could not generate a unique transaction reference")
)

// ValidationError rejects bad input before any storage is touched.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// InsufficientFundsError carries the available balance so the API layer can
// show the caller what they actually have. Matches ErrInsufficientFunds
// under errors.Is.
type InsufficientFundsError struct {
	Available int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available balance is %s", decimal.New(e.Available, -2))
}

func (e *InsufficientFundsError) Is(target error) bool { return target == ErrInsufficientFunds }
