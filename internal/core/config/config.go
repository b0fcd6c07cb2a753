package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/ledger"
)

type Config struct {
	Port          string
	DatabaseURL   string
	RedisURL      string
	WebhookURL    string
	WebhookSecret string
	Env           string

	Ledger ledger.Config
}

// LoadConfig reads .env and returns a Config struct. Amount limits are in
// minor units (kobo).
func LoadConfig() *Config {
	// The .env file might not exist in production, which is fine.
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on system env variables")
	}

	return &Config{
		Port:          getEnv("PORT", "3000"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisURL:      getEnv("REDIS_URL", ""),
		WebhookURL:    getEnv("WEBHOOK_URL", ""),
		WebhookSecret: getEnv("WEBHOOK_SECRET", ""),
		Env:           getEnv("ENV", "development"),

		Ledger: ledger.Config{
			// 1.00 to 10,000,000.00 by default
			FundLimits: ledger.Limits{
				Min: getEnvInt64("FUND_MIN", 100),
				Max: getEnvInt64("FUND_MAX", 10_000_000_00),
			},
			WithdrawLimits: ledger.Limits{
				Min: getEnvInt64("WITHDRAW_MIN", 100),
				Max: getEnvInt64("WITHDRAW_MAX", 1_000_000_00),
			},
			TransferLimits: ledger.Limits{
				Min: getEnvInt64("TRANSFER_MIN", 100),
				Max: getEnvInt64("TRANSFER_MAX", 5_000_000_00),
			},
			ReferenceAttempts: int(getEnvInt64("REFERENCE_ATTEMPTS", 3)),
		},
	}
}

// Helper to get env with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		slog.Warn("Invalid numeric env value, using default", "key", key, "value", value)
		return fallback
	}
	return n
}
