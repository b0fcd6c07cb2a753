package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/security"
)

// Locals keys set by Protected.
const (
	LocalOwnerID   = "owner_id"
	LocalAccountID = "account_id"
)

// Protected authenticates requests with a Bearer API key. The key is
// hashed and looked up against api_keys; the resolved owner and account
// ids land in Locals for the handlers.
func Protected(db *pgxpool.Pool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization") // "Bearer wl_live_..."
		if authHeader == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Missing API key"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid header format"})
		}

		// Never compare plain text.
		hashedKey := security.HashKey(parts[1])

		var ownerID, accountID uuid.UUID
		err := db.QueryRow(c.Context(), `
			SELECT a.owner_id, a.id
			FROM api_keys k
			JOIN accounts a ON a.id = k.account_id
			WHERE k.key_hash = $1`, hashedKey).Scan(&ownerID, &accountID)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid API key"})
		}

		c.Locals(LocalOwnerID, ownerID)
		c.Locals(LocalAccountID, accountID)
		return c.Next()
	}
}
