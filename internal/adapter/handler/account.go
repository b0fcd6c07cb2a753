package handler

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/adapter/storage"
	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/domain"
	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/security"
)

type AccountHandler struct {
	Repo *storage.AccountRepository
}

// CreateAccountRequest defines the onboarding payload. The owner id comes
// from the user service that finished KYC; one wallet per owner.
type CreateAccountRequest struct {
	OwnerID string `json:"owner_id"`
}

func (h *AccountHandler) CreateAccount(c *fiber.Ctx) error {
	var req CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Warn("invalid account body", "error", err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "owner_id must be a valid uuid"})
	}

	account, err := h.Repo.Create(c.Context(), ownerID)
	if err != nil {
		if err == domain.ErrConflict {
			return c.Status(http.StatusConflict).JSON(fiber.Map{"error": "Owner already has a wallet"})
		}
		slog.Error("failed to create account", "error", err, "owner_id", ownerID)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create account"})
	}

	slog.Info("account created", "id", account.ID, "account_number", account.AccountNumber)
	return c.Status(http.StatusCreated).JSON(toAccountResponse(account))
}

func (h *AccountHandler) GetAccount(c *fiber.Ctx) error {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	account, err := h.Repo.FindByOwner(c.Context(), ownerID)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(toAccountResponse(account))
}

func (h *AccountHandler) GenerateKey(c *fiber.Ctx) error {
	accountUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid account ID format"})
	}

	if _, err := h.Repo.FindByID(c.Context(), accountUUID); err != nil {
		return mapError(c, err)
	}

	realKey, keyHash, err := security.GenerateAPIKey()
	if err != nil {
		slog.Error("crypto error generating key", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Crypto error"})
	}

	if err := h.Repo.SaveAPIKey(c.Context(), accountUUID, keyHash, security.KeyPrefix); err != nil {
		slog.Error("failed to save API key", "error", err, "account_id", accountUUID)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save key"})
	}

	slog.Info("API key generated", "account_id", accountUUID)

	// Shown once only; we store the hash.
	return c.JSON(fiber.Map{
		"api_key": realKey,
		"warning": "Save this now! We won't show it again.",
	})
}

// ResolveAccountNumber lets a sender confirm a recipient exists before
// transferring. Only the account number and status are disclosed.
func (h *AccountHandler) ResolveAccountNumber(c *fiber.Ctx) error {
	account, err := h.Repo.FindByAccountNumber(c.Context(), c.Params("number"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{
		"account_number": account.AccountNumber,
		"status":         account.Status,
	})
}

type UpdateStatusRequest struct {
	Status domain.AccountStatus `json:"status"`
}

// UpdateStatus flips an account between ACTIVE, INACTIVE and SUSPENDED.
// A non-ACTIVE account can't move money but keeps its balance and history.
func (h *AccountHandler) UpdateStatus(c *fiber.Ctx) error {
	accountUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid account ID format"})
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	switch req.Status {
	case domain.AccountActive, domain.AccountInactive, domain.AccountSuspended:
	default:
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "status must be ACTIVE, INACTIVE or SUSPENDED"})
	}

	if err := h.Repo.UpdateStatus(c.Context(), accountUUID, req.Status); err != nil {
		return mapError(c, err)
	}

	slog.Info("account status updated", "account_id", accountUUID, "status", req.Status)
	return c.JSON(fiber.Map{"status": req.Status})
}
