package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/domain"
)

const transactionColumns = `id, account_id, type, amount, counterparty_account_id,
	transfer_id, reference, status, description, created_at, updated_at`

type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Append inserts a ledger entry inside the caller's transaction. A
// reference collision that slipped past the generator's probe surfaces as
// domain.ErrConflict and rolls the whole unit of work back.
func (r *TransactionRepository) Append(ctx context.Context, q Querier, txn *domain.Transaction) (*domain.Transaction, error) {
	query := `
		INSERT INTO transactions
			(id, account_id, type, amount, counterparty_account_id, transfer_id, reference, status, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	saved := *txn
	err := q.QueryRow(ctx, query,
		txn.ID, txn.AccountID, txn.Type, txn.Amount, txn.CounterpartyAccountID,
		txn.TransferID, txn.Reference, txn.Status, txn.Description,
	).Scan(&saved.CreatedAt, &saved.UpdatedAt)
	if uniqueViolation(err) {
		return nil, domain.ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("failed to append transaction: %w", err)
	}
	return &saved, nil
}

// ReferenceExists is the generator's collision probe.
func (r *TransactionRepository) ReferenceExists(ctx context.Context, q Querier, reference string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM transactions WHERE reference = $1)`, reference).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to probe reference: %w", err)
	}
	return exists, nil
}

func (r *TransactionRepository) FindByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE reference = $1`
	return scanTransaction(r.db.QueryRow(ctx, query, reference))
}

// HistoryFilter narrows and pages a FindByAccount query. Cursor comes from
// a previous page's NextCursor; zero Limit defaults to 20, capped at 100.
type HistoryFilter struct {
	Type   domain.TransactionType
	Status domain.TransactionStatus
	Cursor string
	Limit  int
}

// FindByAccount returns the account's entries newest first, with a keyset
// cursor for the next page ("" when the page ran dry).
func (r *TransactionRepository) FindByAccount(ctx context.Context, accountID uuid.UUID, filter HistoryFilter) ([]domain.Transaction, string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var (
		conds = []string{"account_id = $1"}
		args  = []any{accountID}
	)
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Cursor != "" {
		createdAt, id, err := decodeCursor(filter.Cursor)
		if err != nil {
			return nil, "", domain.NewValidationError("invalid page cursor")
		}
		args = append(args, createdAt, id)
		conds = append(conds, fmt.Sprintf("(created_at, id) < ($%d, $%d)", len(args)-1, len(args)))
	}
	args = append(args, limit)

	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE %s ORDER BY created_at DESC, id DESC LIMIT $%d`,
		transactionColumns, strings.Join(conds, " AND "), len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch history: %w", err)
	}
	defer rows.Close()

	var history []domain.Transaction
	for rows.Next() {
		txn, err := scanTransactionRow(rows)
		if err != nil {
			return nil, "", err
		}
		history = append(history, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("failed to fetch history: %w", err)
	}

	next := ""
	if len(history) == limit {
		last := history[len(history)-1]
		next = encodeCursor(last.CreatedAt, last.ID)
	}
	return history, next, nil
}

// Summarize aggregates COMPLETED entries only; in-flight or failed rows
// never count toward totals.
func (r *TransactionRepository) Summarize(ctx context.Context, accountID uuid.UUID) (*domain.TransactionSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'CREDIT'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'DEBIT'), 0),
			COUNT(*)
		FROM transactions
		WHERE account_id = $1 AND status = 'COMPLETED'`

	var summary domain.TransactionSummary
	err := r.db.QueryRow(ctx, query, accountID).Scan(
		&summary.TotalCredits, &summary.TotalDebits, &summary.Count)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize transactions: %w", err)
	}
	return &summary, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	txn, err := scanTransactionRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	return txn, err
}

func scanTransactionRow(row pgx.Row) (*domain.Transaction, error) {
	var txn domain.Transaction
	err := row.Scan(&txn.ID, &txn.AccountID, &txn.Type, &txn.Amount,
		&txn.CounterpartyAccountID, &txn.TransferID, &txn.Reference,
		&txn.Status, &txn.Description, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func encodeCursor(createdAt time.Time, id uuid.UUID) string {
	raw := fmt.Sprintf("%s|%s", createdAt.Format(time.RFC3339Nano), id)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(cursor string) (time.Time, uuid.UUID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, uuid.Nil, err
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, uuid.Nil, fmt.Errorf("malformed cursor")
	}
	createdAt, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return time.Time{}, uuid.Nil, err
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return time.Time{}, uuid.Nil, err
	}
	return createdAt, id, nil
}
