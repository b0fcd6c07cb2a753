package ledger

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/domain"
)

// ReferenceProbe checks whether a candidate reference is already taken.
// The unit of work satisfies this.
type ReferenceProbe interface {
	ReferenceExists(ctx context.Context, reference string) (bool, error)
}

// ReferenceGenerator produces the opaque customer-facing identifier stamped
// on every ledger entry. Values are drawn from crypto/rand and verified
// against the transaction store before use; the unique index on the
// reference column stays the final authority.
type ReferenceGenerator struct {
	maxAttempts int
}

func NewReferenceGenerator(maxAttempts int) *ReferenceGenerator {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &ReferenceGenerator{maxAttempts: maxAttempts}
}

// Next returns a reference not yet present in the store. Each attempt draws
// a fresh random value; once the attempt budget is spent it fails with
// domain.ErrReferenceExhausted and the enclosing operation must abort.
func (g *ReferenceGenerator) Next(ctx context.Context, probe ReferenceProbe) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		ref, err := newReference()
		if err != nil {
			return "", fmt.Errorf("drawing reference: %w", err)
		}

		taken, err := probe.ReferenceExists(ctx, ref)
		if err != nil {
			return "", fmt.Errorf("probing reference: %w", err)
		}
		if !taken {
			return ref, nil
		}
	}
	return "", domain.ErrReferenceExhausted
}

// newReference draws 8 random bytes and formats them Stripe-style, e.g.
// "tx_9f86d081884c7d65".
func newReference() (string, error) {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return fmt.Sprintf("tx_%s", hex.EncodeToString(bytes)), nil
}
