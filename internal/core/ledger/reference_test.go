package ledger_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/domain"
	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/ledger"
)

// probeFunc adapts a function to the ReferenceProbe interface.
type probeFunc func(ctx context.Context, reference string) (bool, error)

func (f probeFunc) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	return f(ctx, reference)
}

func TestReferenceGeneratorNext(t *testing.T) {
	gen := ledger.NewReferenceGenerator(3)

	ref, err := gen.Next(context.Background(), probeFunc(func(context.Context, string) (bool, error) {
		return false, nil
	}))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "tx_"))
	assert.Len(t, ref, len("tx_")+16)
}

func TestReferenceGeneratorRetriesOnCollision(t *testing.T) {
	gen := ledger.NewReferenceGenerator(3)

	probes := 0
	ref, err := gen.Next(context.Background(), probeFunc(func(context.Context, string) (bool, error) {
		probes++
		return probes < 3, nil // first two candidates are taken
	}))
	require.NoError(t, err)
	assert.NotEmpty(t, ref)
	assert.Equal(t, 3, probes)
}

func TestReferenceGeneratorExhausted(t *testing.T) {
	gen := ledger.NewReferenceGenerator(3)

	probes := 0
	_, err := gen.Next(context.Background(), probeFunc(func(context.Context, string) (bool, error) {
		probes++
		return true, nil
	}))
	assert.ErrorIs(t, err, domain.ErrReferenceExhausted)
	assert.Equal(t, 3, probes, "must stop at the configured attempt cap")
}

func TestReferenceGeneratorProbeError(t *testing.T) {
	gen := ledger.NewReferenceGenerator(3)

	probeErr := errors.New("store unavailable")
	_, err := gen.Next(context.Background(), probeFunc(func(context.Context, string) (bool, error) {
		return false, probeErr
	}))
	assert.ErrorIs(t, err, probeErr)
}

func TestReferenceGeneratorDistinctValues(t *testing.T) {
	gen := ledger.NewReferenceGenerator(1)
	none := probeFunc(func(context.Context, string) (bool, error) { return false, nil })

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		ref, err := gen.Next(context.Background(), none)
		require.NoError(t, err)
		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}
