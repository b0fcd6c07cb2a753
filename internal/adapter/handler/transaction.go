package handler

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/adapter/middleware"
	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/adapter/storage"
	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/domain"
	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/ledger"
)

type TransactionHandler struct {
	Engine       *ledger.Engine
	Transactions *storage.TransactionRepository
}

// Request models
type MoveMoneyRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type TransferRequest struct {
	RecipientAccountNumber string          `json:"recipient_account_number"`
	Amount                 decimal.Decimal `json:"amount"`
	Description            string          `json:"description"`
}

// Fund API
func (h *TransactionHandler) Fund(c *fiber.Ctx) error {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	var req MoveMoneyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	amount, err := domain.ToMinorUnits(req.Amount)
	if err != nil {
		return mapError(c, err)
	}

	txn, newBalance, err := h.Engine.Fund(c.Context(), ownerID, amount, req.Description)
	if err != nil {
		return mapError(c, err)
	}

	return c.JSON(fiber.Map{
		"transaction": toTransactionResponse(txn),
		"new_balance": domain.FromMinorUnits(newBalance),
	})
}

// Withdraw API
func (h *TransactionHandler) Withdraw(c *fiber.Ctx) error {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	var req MoveMoneyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	amount, err := domain.ToMinorUnits(req.Amount)
	if err != nil {
		return mapError(c, err)
	}

	txn, newBalance, err := h.Engine.Withdraw(c.Context(), ownerID, amount, req.Description)
	if err != nil {
		return mapError(c, err)
	}

	return c.JSON(fiber.Map{
		"transaction": toTransactionResponse(txn),
		"new_balance": domain.FromMinorUnits(newBalance),
	})
}

// Transfer API
func (h *TransactionHandler) Transfer(c *fiber.Ctx) error {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	var req TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	amount, err := domain.ToMinorUnits(req.Amount)
	if err != nil {
		return mapError(c, err)
	}

	txn, newBalance, err := h.Engine.Transfer(c.Context(), ownerID, req.RecipientAccountNumber, amount, req.Description)
	if err != nil {
		return mapError(c, err)
	}

	return c.JSON(fiber.Map{
		"transaction": toTransactionResponse(txn),
		"new_balance": domain.FromMinorUnits(newBalance),
	})
}

// GetHistory pages through the caller's ledger entries, newest first.
// Query params: cursor, limit, type (CREDIT|DEBIT), status.
func (h *TransactionHandler) GetHistory(c *fiber.Ctx) error {
	accountID, ok := accountFromContext(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	filter := storage.HistoryFilter{
		Type:   domain.TransactionType(c.Query("type")),
		Status: domain.TransactionStatus(c.Query("status")),
		Cursor: c.Query("cursor"),
		Limit:  c.QueryInt("limit"),
	}

	history, next, err := h.Transactions.FindByAccount(c.Context(), accountID, filter)
	if err != nil {
		return mapError(c, err)
	}

	out := make([]transactionResponse, len(history))
	for i := range history {
		out[i] = toTransactionResponse(&history[i])
	}

	return c.JSON(fiber.Map{
		"transactions": out,
		"next_cursor":  next,
	})
}

// GetSummary aggregates the caller's COMPLETED entries.
func (h *TransactionHandler) GetSummary(c *fiber.Ctx) error {
	accountID, ok := accountFromContext(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	summary, err := h.Transactions.Summarize(c.Context(), accountID)
	if err != nil {
		return mapError(c, err)
	}

	return c.JSON(fiber.Map{
		"total_credits": domain.FromMinorUnits(summary.TotalCredits),
		"total_debits":  domain.FromMinorUnits(summary.TotalDebits),
		"count":         summary.Count,
	})
}

// GetByReference resolves one entry by its customer-facing reference.
func (h *TransactionHandler) GetByReference(c *fiber.Ctx) error {
	accountID, ok := accountFromContext(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	txn, err := h.Transactions.FindByReference(c.Context(), c.Params("reference"))
	if err != nil {
		return mapError(c, err)
	}
	// Only the owning account may see its entries.
	if txn.AccountID != accountID {
		return mapError(c, domain.ErrTransactionNotFound)
	}

	return c.JSON(toTransactionResponse(txn))
}

func ownerFromContext(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(middleware.LocalOwnerID).(uuid.UUID)
	return id, ok
}

func accountFromContext(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(middleware.LocalAccountID).(uuid.UUID)
	return id, ok
}
