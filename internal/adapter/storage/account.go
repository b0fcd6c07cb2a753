package storage

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/domain"
)

const accountColumns = `id, owner_id, account_number, balance, status, created_at, updated_at`

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create opens a zero-balance ACTIVE account for ownerID with a generated
// 10-digit account number, retrying on the rare number collision.
func (r *AccountRepository) Create(ctx context.Context, ownerID uuid.UUID) (*domain.Account, error) {
	query := `
		INSERT INTO accounts (id, owner_id, account_number, balance, status)
		VALUES ($1, $2, $3, 0, 'ACTIVE')
		RETURNING ` + accountColumns

	for attempt := 0; attempt < 5; attempt++ {
		number, err := randomAccountNumber()
		if err != nil {
			return nil, fmt.Errorf("generating account number: %w", err)
		}

		acc, err := scanAccount(r.db.QueryRow(ctx, query, uuid.New(), ownerID, number))
		if err == nil {
			return acc, nil
		}
		if uniqueViolation(err) {
			continue // either the number collided or the owner already has a wallet
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return nil, domain.ErrConflict
}

func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(r.db.QueryRow(ctx, query, id))
}

func (r *AccountRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1`
	return scanAccount(r.db.QueryRow(ctx, query, ownerID))
}

func (r *AccountRepository) FindByAccountNumber(ctx context.Context, number string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`
	return scanAccount(r.db.QueryRow(ctx, query, number))
}

// LockByOwner loads the owner's account with a row lock, serializing
// concurrent money movement on it. Runs inside the caller's transaction.
func (r *AccountRepository) LockByOwner(ctx context.Context, q Querier, ownerID uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1 FOR UPDATE`
	return scanAccount(q.QueryRow(ctx, query, ownerID))
}

// LockByNumber is LockByOwner keyed by account number.
func (r *AccountRepository) LockByNumber(ctx context.Context, q Querier, number string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1 FOR UPDATE`
	return scanAccount(q.QueryRow(ctx, query, number))
}

// AdjustBalance applies delta in one conditional UPDATE so the database,
// not the application, serializes concurrent writers. The guard keeps the
// balance from ever going negative.
func (r *AccountRepository) AdjustBalance(ctx context.Context, q Querier, accountID uuid.UUID, delta int64) (int64, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $2, updated_at = now()
		WHERE id = $1 AND balance + $2 >= 0
		RETURNING balance`

	var balance int64
	err := q.QueryRow(ctx, query, accountID, delta).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		// The row exists (the caller holds its lock), so the guard tripped.
		return 0, domain.ErrInsufficientFunds
	}
	if err != nil {
		return 0, fmt.Errorf("failed to adjust balance: %w", err)
	}
	return balance, nil
}

func (r *AccountRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE accounts SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update account status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// SaveAPIKey stores the hashed key for the account.
func (r *AccountRepository) SaveAPIKey(ctx context.Context, accountID uuid.UUID, keyHash, keyPrefix string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO api_keys (account_id, key_hash, key_prefix) VALUES ($1, $2, $3)`,
		accountID, keyHash, keyPrefix)
	if err != nil {
		return fmt.Errorf("failed to save api key: %w", err)
	}
	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var acc domain.Account
	err := row.Scan(&acc.ID, &acc.OwnerID, &acc.AccountNumber, &acc.Balance,
		&acc.Status, &acc.CreatedAt, &acc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// randomAccountNumber draws a 10-digit number with a non-zero first digit.
func randomAccountNumber() (string, error) {
	bytes := make([]byte, 10)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	digits := make([]byte, 10)
	digits[0] = '1' + bytes[0]%9
	for i := 1; i < 10; i++ {
		digits[i] = '0' + bytes[i]%10
	}
	return string(digits), nil
}
