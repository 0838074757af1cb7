package vault_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/solvault/engine/pkg/vaulterr"
)

func TestStakeUpdateConfig_RotatesUnbondingPeriod(t *testing.T) {
	f := newStakeFixture(t)
	ctx := context.Background()

	require.NoError(t, f.engine.UpdateConfig(ctx, f.upgradeAuth, unbondingPeriod*2))

	require.NoError(t, f.engine.Deposit(ctx, f.user, f.userReserve, f.userShare, f.reserveAcct, 1_000_000))
	require.NoError(t, f.engine.Unbond(ctx, f.user, f.userShare, f.reserveAcct, 100_000))

	f.clock.Advance(time.Duration(unbondingPeriod+1) * time.Second)
	err := f.engine.Redeem(ctx, f.user, f.userReserve, f.reserveAcct)
	require.Equal(t, vaulterr.KindNotUnbonded, vaulterr.KindOf(err), "the doubled period has not yet elapsed")
}

func TestStakeUpdateConfig_RejectsNonPositivePeriod(t *testing.T) {
	f := newStakeFixture(t)
	err := f.engine.UpdateConfig(context.Background(), f.upgradeAuth, 0)
	require.Equal(t, vaulterr.KindZeroAmount, vaulterr.KindOf(err))
}

func TestStakeUpdateConfig_RejectsNonUpgradeAuthority(t *testing.T) {
	f := newStakeFixture(t)
	err := f.engine.UpdateConfig(context.Background(), f.user, unbondingPeriod*2)
	require.Equal(t, vaulterr.KindUnauthorized, vaulterr.KindOf(err))
}

func TestStakeSetStakeVaultTokenAccountConfig_RejectsWrongMint(t *testing.T) {
	f := newStakeFixture(t)
	err := f.engine.SetStakeVaultTokenAccountConfig(context.Background(), f.upgradeAuth, f.userShare, f.vaultAuthority)
	require.Equal(t, vaulterr.KindInvalidVaultTokenAccount, vaulterr.KindOf(err))
}

func TestStakeSetStakeVaultTokenAccountConfig_RejectsNonUpgradeAuthority(t *testing.T) {
	f := newStakeFixture(t)
	err := f.engine.SetStakeVaultTokenAccountConfig(context.Background(), f.user, f.reserveAcct, f.vaultAuthority)
	require.Equal(t, vaulterr.KindUnauthorized, vaulterr.KindOf(err))
}
