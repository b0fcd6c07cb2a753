package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.EqualValues(t, 100, cfg.Ledger.FundLimits.Min)
	assert.EqualValues(t, 1_000_000_000, cfg.Ledger.FundLimits.Max)
	assert.Equal(t, 3, cfg.Ledger.ReferenceAttempts)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("FUND_MIN", "500")
	t.Setenv("TRANSFER_MAX", "25000000")
	t.Setenv("REFERENCE_ATTEMPTS", "5")

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.EqualValues(t, 500, cfg.Ledger.FundLimits.Min)
	assert.EqualValues(t, 25_000_000, cfg.Ledger.TransferLimits.Max)
	assert.Equal(t, 5, cfg.Ledger.ReferenceAttempts)
}

func TestLoadConfigBadNumberFallsBack(t *testing.T) {
	t.Setenv("WITHDRAW_MAX", "not-a-number")

	cfg := LoadConfig()
	assert.EqualValues(t, 100_000_000, cfg.Ledger.WithdrawLimits.Max)
}
