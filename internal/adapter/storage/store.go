package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/domain"
	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/ledger"
)

// Store is the pgx-backed ledger.Store. Each WithinTx call wraps one
// database transaction; a returned error (or an aborted context) rolls
// everything back, including queued webhook events.
type Store struct {
	db           *pgxpool.Pool
	accounts     *AccountRepository
	transactions *TransactionRepository
	webhooks     *WebhookRepository
}

func NewStore(db *pgxpool.Pool, accounts *AccountRepository, transactions *TransactionRepository, webhooks *WebhookRepository) *Store {
	return &Store{
		db:           db,
		accounts:     accounts,
		transactions: transactions,
		webhooks:     webhooks,
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(uow ledger.UnitOfWork) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&unitOfWork{tx: tx, s: s}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// unitOfWork hands the open pgx.Tx to the repositories, so none of them
// ever opens a transaction of its own.
type unitOfWork struct {
	tx pgx.Tx
	s  *Store
}

func (u *unitOfWork) LockAccountByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Account, error) {
	return u.s.accounts.LockByOwner(ctx, u.tx, ownerID)
}

func (u *unitOfWork) LockAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return u.s.accounts.LockByNumber(ctx, u.tx, accountNumber)
}

func (u *unitOfWork) AdjustBalance(ctx context.Context, accountID uuid.UUID, delta int64) (int64, error) {
	return u.s.accounts.AdjustBalance(ctx, u.tx, accountID, delta)
}

func (u *unitOfWork) AppendTransaction(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	return u.s.transactions.Append(ctx, u.tx, txn)
}

func (u *unitOfWork) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	return u.s.transactions.ReferenceExists(ctx, u.tx, reference)
}

func (u *unitOfWork) EnqueueWebhook(ctx context.Context, event string, payload any) error {
	return u.s.webhooks.Enqueue(ctx, u.tx, event, payload)
}
