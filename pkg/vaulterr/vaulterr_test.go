package vaulterr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solvault/engine/pkg/vaulterr"
)

func TestKindOf_UnwrapsThroughFmtErrorf(t *testing.T) {
	base := vaulterr.New("deposit", vaulterr.KindZeroAmount, nil)
	wrapped := fmt.Errorf("handler: %w", base)

	require.Equal(t, vaulterr.KindZeroAmount, vaulterr.KindOf(wrapped))
	require.True(t, vaulterr.Is(wrapped, vaulterr.KindZeroAmount))
}

func TestKindOf_NonVaultError_ReturnsUnknown(t *testing.T) {
	require.Equal(t, vaulterr.KindUnknown, vaulterr.KindOf(errors.New("boom")))
}

func TestError_MessageIncludesOpAndKind(t *testing.T) {
	err := vaulterr.New("request_redeem", vaulterr.KindInsufficientBalance, errors.New("detail"))
	require.Contains(t, err.Error(), "request_redeem")
	require.Contains(t, err.Error(), "InsufficientBalance")
	require.Contains(t, err.Error(), "detail")
}
