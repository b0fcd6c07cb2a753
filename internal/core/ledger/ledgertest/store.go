// Package ledgertest provides an in-memory ledger.Store for tests. The
// single mutex stands in for the database's row locking: units of work
// run one at a time, and a failed unit restores the pre-tx snapshot.
package ledgertest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/domain"
	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/ledger"
)

type Event struct {
	Name    string
	Payload any
}

type Store struct {
	mu           sync.Mutex
	accounts     map[uuid.UUID]*domain.Account
	transactions []*domain.Transaction
	webhooks     []Event

	// TxCount counts opened units of work, so tests can assert an
	// operation was rejected before touching storage.
	TxCount int

	// AppendErr, when set, makes every AppendTransaction fail.
	AppendErr error
	// AllReferencesTaken makes every reference probe report a collision.
	AllReferencesTaken bool
}

func New() *Store {
	return &Store{accounts: make(map[uuid.UUID]*domain.Account)}
}

// Seed installs an account. Tests set ID, OwnerID, AccountNumber, Balance
// and Status; timestamps are filled in here.
func (s *Store) Seed(a domain.Account) *domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	s.accounts[a.ID] = &a
	return &a
}

func (s *Store) Account(id uuid.UUID) domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.accounts[id]
}

func (s *Store) Transactions() []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Transaction, len(s.transactions))
	for i, t := range s.transactions {
		out[i] = *t
	}
	return out
}

func (s *Store) Webhooks() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.webhooks...)
}

func (s *Store) WithinTx(ctx context.Context, fn func(uow ledger.UnitOfWork) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.TxCount++

	// Snapshot for rollback.
	accounts := make(map[uuid.UUID]*domain.Account, len(s.accounts))
	for id, a := range s.accounts {
		copied := *a
		accounts[id] = &copied
	}
	transactions := append([]*domain.Transaction(nil), s.transactions...)
	webhooks := append([]Event(nil), s.webhooks...)

	if err := fn(&unitOfWork{s: s}); err != nil {
		s.accounts = accounts
		s.transactions = transactions
		s.webhooks = webhooks
		return err
	}
	return nil
}

type unitOfWork struct {
	s *Store
}

func (u *unitOfWork) LockAccountByOwner(_ context.Context, ownerID uuid.UUID) (*domain.Account, error) {
	for _, a := range u.s.accounts {
		if a.OwnerID == ownerID {
			return a, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (u *unitOfWork) LockAccountByNumber(_ context.Context, accountNumber string) (*domain.Account, error) {
	for _, a := range u.s.accounts {
		if a.AccountNumber == accountNumber {
			return a, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (u *unitOfWork) AdjustBalance(_ context.Context, accountID uuid.UUID, delta int64) (int64, error) {
	a, ok := u.s.accounts[accountID]
	if !ok {
		return 0, domain.ErrAccountNotFound
	}
	if a.Balance+delta < 0 {
		return 0, domain.ErrInsufficientFunds
	}
	a.Balance += delta
	a.UpdatedAt = time.Now()
	return a.Balance, nil
}

func (u *unitOfWork) AppendTransaction(_ context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	if u.s.AppendErr != nil {
		return nil, u.s.AppendErr
	}
	for _, existing := range u.s.transactions {
		if existing.Reference == txn.Reference {
			return nil, domain.ErrConflict
		}
	}

	now := time.Now()
	copied := *txn
	copied.CreatedAt = now
	copied.UpdatedAt = now
	u.s.transactions = append(u.s.transactions, &copied)
	return &copied, nil
}

func (u *unitOfWork) ReferenceExists(_ context.Context, reference string) (bool, error) {
	if u.s.AllReferencesTaken {
		return true, nil
	}
	for _, existing := range u.s.transactions {
		if existing.Reference == reference {
			return true, nil
		}
	}
	return false, nil
}

func (u *unitOfWork) EnqueueWebhook(_ context.Context, event string, payload any) error {
	u.s.webhooks = append(u.s.webhooks, Event{Name: event, Payload: payload})
	return nil
}
