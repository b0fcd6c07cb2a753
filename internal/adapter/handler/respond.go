package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/domain"
)

// transactionResponse is the wire shape of a ledger entry. Amounts go out
// as decimals, not minor units.
type transactionResponse struct {
	ID                    uuid.UUID                `json:"id"`
	AccountID             uuid.UUID                `json:"account_id"`
	Type                  domain.TransactionType   `json:"type"`
	Amount                decimal.Decimal          `json:"amount"`
	CounterpartyAccountID *uuid.UUID               `json:"counterparty_account_id,omitempty"`
	TransferID            *uuid.UUID               `json:"transfer_id,omitempty"`
	Reference             string                   `json:"reference"`
	Status                domain.TransactionStatus `json:"status"`
	Description           string                   `json:"description,omitempty"`
	CreatedAt             time.Time                `json:"created_at"`
	UpdatedAt             time.Time                `json:"updated_at"`
}

func toTransactionResponse(txn *domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:                    txn.ID,
		AccountID:             txn.AccountID,
		Type:                  txn.Type,
		Amount:                domain.FromMinorUnits(txn.Amount),
		CounterpartyAccountID: txn.CounterpartyAccountID,
		TransferID:            txn.TransferID,
		Reference:             txn.Reference,
		Status:                txn.Status,
		Description:           txn.Description,
		CreatedAt:             txn.CreatedAt,
		UpdatedAt:             txn.UpdatedAt,
	}
}

type accountResponse struct {
	ID            uuid.UUID            `json:"id"`
	OwnerID       uuid.UUID            `json:"owner_id"`
	AccountNumber string               `json:"account_number"`
	Balance       decimal.Decimal      `json:"balance"`
	Status        domain.AccountStatus `json:"status"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func toAccountResponse(acc *domain.Account) accountResponse {
	return accountResponse{
		ID:            acc.ID,
		OwnerID:       acc.OwnerID,
		AccountNumber: acc.AccountNumber,
		Balance:       domain.FromMinorUnits(acc.Balance),
		Status:        acc.Status,
		CreatedAt:     acc.CreatedAt,
		UpdatedAt:     acc.UpdatedAt,
	}
}

// mapError turns the engine's typed errors into HTTP responses per the
// propagation policy: user mistakes are 4xx with a message, everything
// else is a 500 the caller may safely retry.
func mapError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": verr.Reason})
	}

	var ife *domain.InsufficientFundsError
	if errors.As(err, &ife) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error":             ife.Error(),
			"available_balance": domain.FromMinorUnits(ife.Available),
		})
	}

	switch {
	case errors.Is(err, domain.ErrSelfTransfer):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrAccountNotFound), errors.Is(err, domain.ErrTransactionNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrAccountNotActive):
		return c.Status(http.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		slog.Error("request failed", "error", err, "path", c.Path())
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong, please retry"})
	}
}
