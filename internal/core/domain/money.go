package domain

import (
	"github.com/shopspring/decimal"
)

// Amounts cross the API as decimals ("250.75") but live in the ledger as
// int64 minor units (25075). Two decimal places, always.

// ToMinorUnits converts an API amount to minor units. It rejects zero,
// negative and sub-kobo amounts.
func ToMinorUnits(d decimal.Decimal) (int64, error) {
	if !d.IsPositive() {
		return 0, NewValidationError("amount must be greater than zero")
	}
	shifted := d.Shift(2)
	if !shifted.IsInteger() {
		return 0, NewValidationError("amount cannot have more than 2 decimal places")
	}
	if !shifted.BigInt().IsInt64() {
		return 0, NewValidationError("amount is too large")
	}
	return shifted.IntPart(), nil
}

// FromMinorUnits formats minor units back into a decimal for API responses.
func FromMinorUnits(n int64) decimal.Decimal {
	return decimal.New(n, -2)
}
