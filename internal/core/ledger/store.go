package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/domain"
)

// Store opens the atomic unit of work every engine operation runs inside.
// Everything done through the UnitOfWork either commits together or rolls
// back together.
type Store interface {
	WithinTx(ctx context.Context, fn func(uow UnitOfWork) error) error
}

// UnitOfWork is the transactional surface the engine mutates money through.
// Lock* reads take a row lock so concurrent operations on the same account
// serialize at the storage layer.
type UnitOfWork interface {
	LockAccountByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Account, error)
	LockAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// AdjustBalance applies delta as a single conditional update
	// (balance = balance + delta, guarded against going negative) and
	// returns the new balance. Never read-modify-write.
	AdjustBalance(ctx context.Context, accountID uuid.UUID, delta int64) (int64, error)

	AppendTransaction(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error)
	ReferenceExists(ctx context.Context, reference string) (bool, error)

	// EnqueueWebhook records an outbound event in the same unit of work,
	// so a notification exists exactly when its transaction committed.
	EnqueueWebhook(ctx context.Context, event string, payload any) error
}
