package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/adapter/middleware"
	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/domain"
	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/ledger"
	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/ledger/ledgertest"
)

// newTestApp wires the money-movement routes against the in-memory store,
// with a stub auth middleware injecting the given identity.
func newTestApp(store *ledgertest.Store, ownerID, accountID uuid.UUID) *fiber.App {
	engine := ledger.NewEngine(store, ledger.Config{
		FundLimits:        ledger.Limits{Min: 100, Max: 100_000_000},
		WithdrawLimits:    ledger.Limits{Min: 100, Max: 100_000_000},
		TransferLimits:    ledger.Limits{Min: 100, Max: 100_000_000},
		ReferenceAttempts: 3,
	}, nil)
	h := &TransactionHandler{Engine: engine}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalOwnerID, ownerID)
		c.Locals(middleware.LocalAccountID, accountID)
		return c.Next()
	})
	app.Post("/v1/fund", h.Fund)
	app.Post("/v1/withdraw", h.Withdraw)
	app.Post("/v1/transfer", h.Transfer)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (int, map[string]any) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	return resp.StatusCode, decoded
}

func TestFundEndpoint(t *testing.T) {
	store := ledgertest.New()
	acct := store.Seed(domain.Account{
		ID: uuid.New(), OwnerID: uuid.New(), AccountNumber: "0000000001",
		Balance: 500_000, Status: domain.AccountActive,
	})
	app := newTestApp(store, acct.OwnerID, acct.ID)

	status, body := postJSON(t, app, "/v1/fund", fiber.Map{
		"amount": "1000", "description": "top-up",
	})
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, "6000", body["new_balance"])

	txn := body["transaction"].(map[string]any)
	assert.Equal(t, "CREDIT", txn["type"])
	assert.Equal(t, "COMPLETED", txn["status"])
	assert.Equal(t, "1000", txn["amount"])
	assert.NotEmpty(t, txn["reference"])
}

func TestFundEndpointRejectsBadAmounts(t *testing.T) {
	store := ledgertest.New()
	acct := store.Seed(domain.Account{
		ID: uuid.New(), OwnerID: uuid.New(), AccountNumber: "0000000001",
		Balance: 0, Status: domain.AccountActive,
	})
	app := newTestApp(store, acct.OwnerID, acct.ID)

	for _, amount := range []string{"0", "-5", "1.999"} {
		status, body := postJSON(t, app, "/v1/fund", fiber.Map{"amount": amount})
		assert.Equal(t, http.StatusBadRequest, status, "amount %s", amount)
		assert.NotEmpty(t, body["error"])
	}
	assert.Zero(t, store.TxCount)
}

func TestWithdrawEndpointInsufficientFunds(t *testing.T) {
	store := ledgertest.New()
	acct := store.Seed(domain.Account{
		ID: uuid.New(), OwnerID: uuid.New(), AccountNumber: "0000000001",
		Balance: 10_000, Status: domain.AccountActive,
	})
	app := newTestApp(store, acct.OwnerID, acct.ID)

	status, body := postJSON(t, app, "/v1/withdraw", fiber.Map{"amount": "1000"})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "100", body["available_balance"])
	assert.EqualValues(t, 10_000, store.Account(acct.ID).Balance)
}

func TestTransferEndpoint(t *testing.T) {
	store := ledgertest.New()
	sender := store.Seed(domain.Account{
		ID: uuid.New(), OwnerID: uuid.New(), AccountNumber: "0000000001",
		Balance: 500_000, Status: domain.AccountActive,
	})
	recipient := store.Seed(domain.Account{
		ID: uuid.New(), OwnerID: uuid.New(), AccountNumber: "0000000002",
		Balance: 300_000, Status: domain.AccountActive,
	})
	app := newTestApp(store, sender.OwnerID, sender.ID)

	status, body := postJSON(t, app, "/v1/transfer", fiber.Map{
		"recipient_account_number": recipient.AccountNumber,
		"amount":                   "1000",
		"description":              "rent",
	})
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, "4000", body["new_balance"])
	assert.EqualValues(t, 400_000, store.Account(sender.ID).Balance)
	assert.EqualValues(t, 400_000, store.Account(recipient.ID).Balance)

	txn := body["transaction"].(map[string]any)
	assert.Equal(t, "DEBIT", txn["type"])
	assert.Equal(t, recipient.ID.String(), txn["counterparty_account_id"])
	assert.NotEmpty(t, txn["transfer_id"])
}

func TestTransferEndpointSelfTransfer(t *testing.T) {
	store := ledgertest.New()
	acct := store.Seed(domain.Account{
		ID: uuid.New(), OwnerID: uuid.New(), AccountNumber: "0000000001",
		Balance: 500_000, Status: domain.AccountActive,
	})
	app := newTestApp(store, acct.OwnerID, acct.ID)

	status, body := postJSON(t, app, "/v1/transfer", fiber.Map{
		"recipient_account_number": acct.AccountNumber,
		"amount":                   "100",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "own account")
	assert.EqualValues(t, 500_000, store.Account(acct.ID).Balance)
}

func TestTransferEndpointSuspendedAccount(t *testing.T) {
	store := ledgertest.New()
	acct := store.Seed(domain.Account{
		ID: uuid.New(), OwnerID: uuid.New(), AccountNumber: "0000000001",
		Balance: 500_000, Status: domain.AccountSuspended,
	})
	app := newTestApp(store, acct.OwnerID, acct.ID)

	status, _ := postJSON(t, app, "/v1/fund", fiber.Map{"amount": "100"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.EqualValues(t, 500_000, store.Account(acct.ID).Balance)
}
