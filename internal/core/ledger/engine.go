// Package ledger is the money-movement core: it validates operations,
// mutates balances and appends immutable transaction records, all inside
// one atomic unit of work per call. The engine holds no state between
// calls; any number of instances can run against the same store.
package ledger

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/domain"
)

var accountNumberPattern = regexp.MustCompile(`^[0-9]{10}$`)

// Limits is the configured [min, max] amount window for one operation
// class, in minor units.
type Limits struct {
	Min int64
	Max int64
}

func (l Limits) contains(amount int64) bool {
	return amount >= l.Min && amount <= l.Max
}

// Config carries the per-operation-class amount limits and the reference
// retry budget. Injected from the environment, never hard-coded.
type Config struct {
	FundLimits     Limits
	WithdrawLimits Limits
	TransferLimits Limits

	ReferenceAttempts int
}

type Engine struct {
	store Store
	refs  *ReferenceGenerator
	cfg   Config
	log   *slog.Logger
}

func NewEngine(store Store, cfg Config, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		store: store,
		refs:  NewReferenceGenerator(cfg.ReferenceAttempts),
		cfg:   cfg,
		log:   log,
	}
}

// Fund credits the owner's account. Returns the CREDIT transaction and the
// new balance.
func (e *Engine) Fund(ctx context.Context, ownerID uuid.UUID, amount int64, description string) (*domain.Transaction, int64, error) {
	if err := checkAmount(amount, e.cfg.FundLimits, "funding"); err != nil {
		return nil, 0, err
	}

	var (
		txn        *domain.Transaction
		newBalance int64
	)
	err := e.store.WithinTx(ctx, func(uow UnitOfWork) error {
		account, err := uow.LockAccountByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		if account.Status != domain.AccountActive {
			return domain.ErrAccountNotActive
		}

		newBalance, err = uow.AdjustBalance(ctx, account.ID, amount)
		if err != nil {
			return err
		}

		txn, err = e.appendEntry(ctx, uow, entry{
			accountID:   account.ID,
			kind:        domain.Credit,
			amount:      amount,
			description: description,
		})
		if err != nil {
			return err
		}

		return uow.EnqueueWebhook(ctx, "transaction.completed", txn)
	})
	if err != nil {
		return nil, 0, err
	}

	e.log.Info("account funded",
		"owner_id", ownerID, "amount", amount, "reference", txn.Reference)
	return txn, newBalance, nil
}

// Withdraw debits the owner's account. Fails with InsufficientFundsError
// (carrying the available balance) when the balance cannot cover it.
func (e *Engine) Withdraw(ctx context.Context, ownerID uuid.UUID, amount int64, description string) (*domain.Transaction, int64, error) {
	if err := checkAmount(amount, e.cfg.WithdrawLimits, "withdrawal"); err != nil {
		return nil, 0, err
	}

	var (
		txn        *domain.Transaction
		newBalance int64
	)
	err := e.store.WithinTx(ctx, func(uow UnitOfWork) error {
		account, err := uow.LockAccountByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		if account.Status != domain.AccountActive {
			return domain.ErrAccountNotActive
		}
		if account.Balance < amount {
			return &domain.InsufficientFundsError{Available: account.Balance}
		}

		newBalance, err = uow.AdjustBalance(ctx, account.ID, -amount)
		if err != nil {
			return err
		}

		txn, err = e.appendEntry(ctx, uow, entry{
			accountID:   account.ID,
			kind:        domain.Debit,
			amount:      amount,
			description: description,
		})
		if err != nil {
			return err
		}

		return uow.EnqueueWebhook(ctx, "transaction.completed", txn)
	})
	if err != nil {
		return nil, 0, err
	}

	e.log.Info("withdrawal completed",
		"owner_id", ownerID, "amount", amount, "reference", txn.Reference)
	return txn, newBalance, nil
}

// Transfer moves money from the owner's account to the account identified
// by recipientAccountNumber. Both legs commit together or not at all: the
// sender's DEBIT and the recipient's CREDIT share a transfer id but each
// carries its own reference. Returns the sender-side transaction and the
// sender's new balance.
func (e *Engine) Transfer(ctx context.Context, ownerID uuid.UUID, recipientAccountNumber string, amount int64, description string) (*domain.Transaction, int64, error) {
	if err := checkAmount(amount, e.cfg.TransferLimits, "transfer"); err != nil {
		return nil, 0, err
	}
	if !accountNumberPattern.MatchString(recipientAccountNumber) {
		return nil, 0, domain.NewValidationError("recipient account number must be 10 digits")
	}

	var (
		debit      *domain.Transaction
		newBalance int64
	)
	err := e.store.WithinTx(ctx, func(uow UnitOfWork) error {
		sender, err := uow.LockAccountByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		if sender.Status != domain.AccountActive {
			return domain.ErrAccountNotActive
		}
		if sender.AccountNumber == recipientAccountNumber {
			return domain.ErrSelfTransfer
		}

		recipient, err := uow.LockAccountByNumber(ctx, recipientAccountNumber)
		if err != nil {
			return err
		}
		if recipient.Status != domain.AccountActive {
			return domain.ErrAccountNotActive
		}
		if sender.Balance < amount {
			return &domain.InsufficientFundsError{Available: sender.Balance}
		}

		newBalance, err = uow.AdjustBalance(ctx, sender.ID, -amount)
		if err != nil {
			return err
		}
		if _, err = uow.AdjustBalance(ctx, recipient.ID, amount); err != nil {
			return err
		}

		transferID := uuid.New()

		debit, err = e.appendEntry(ctx, uow, entry{
			accountID:    sender.ID,
			kind:         domain.Debit,
			amount:       amount,
			counterparty: &recipient.ID,
			transferID:   &transferID,
			description:  description,
		})
		if err != nil {
			return err
		}

		if _, err = e.appendEntry(ctx, uow, entry{
			accountID:    recipient.ID,
			kind:         domain.Credit,
			amount:       amount,
			counterparty: &sender.ID,
			transferID:   &transferID,
			description:  description,
		}); err != nil {
			return err
		}

		return uow.EnqueueWebhook(ctx, "transaction.completed", debit)
	})
	if err != nil {
		return nil, 0, err
	}

	e.log.Info("transfer completed",
		"owner_id", ownerID, "recipient", recipientAccountNumber,
		"amount", amount, "reference", debit.Reference)
	return debit, newBalance, nil
}

type entry struct {
	accountID    uuid.UUID
	kind         domain.TransactionType
	amount       int64
	counterparty *uuid.UUID
	transferID   *uuid.UUID
	description  string
}

// appendEntry stamps a fresh reference on the entry and writes it in
// COMPLETED state.
func (e *Engine) appendEntry(ctx context.Context, uow UnitOfWork, en entry) (*domain.Transaction, error) {
	ref, err := e.refs.Next(ctx, uow)
	if err != nil {
		return nil, err
	}

	return uow.AppendTransaction(ctx, &domain.Transaction{
		ID:                    uuid.New(),
		AccountID:             en.accountID,
		Type:                  en.kind,
		Amount:                en.amount,
		CounterpartyAccountID: en.counterparty,
		TransferID:            en.transferID,
		Reference:             ref,
		Status:                domain.StatusCompleted,
		Description:           en.description,
	})
}

func checkAmount(amount int64, limits Limits, class string) error {
	if amount <= 0 {
		return domain.NewValidationError("amount must be greater than zero")
	}
	if !limits.contains(amount) {
		return domain.NewValidationError("%s amount must be between %s and %s",
			class, decimal.New(limits.Min, -2), decimal.New(limits.Max, -2))
	}
	return nil
}
