package vault_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solvault/engine/pkg/vaulterr"
)

func TestStakeFreezeTokenAccount_BlocksSubsequentDeposit(t *testing.T) {
	f := newStakeFixture(t)
	ctx := context.Background()

	require.NoError(t, f.engine.FreezeTokenAccount(ctx, f.upgradeAuth, f.userShare))

	err := f.engine.Deposit(ctx, f.user, f.userReserve, f.userShare, f.reserveAcct, 1_000)
	require.Equal(t, vaulterr.KindAccountFrozen, vaulterr.KindOf(err))
}

func TestStakeThawTokenAccount_RestoresDeposit(t *testing.T) {
	f := newStakeFixture(t)
	ctx := context.Background()

	require.NoError(t, f.engine.FreezeTokenAccount(ctx, f.upgradeAuth, f.userShare))
	require.NoError(t, f.engine.ThawTokenAccount(ctx, f.upgradeAuth, f.userShare))

	require.NoError(t, f.engine.Deposit(ctx, f.user, f.userReserve, f.userShare, f.reserveAcct, 1_000))
}

func TestStakeFreezeTokenAccount_RejectsNonFreezeAdmin(t *testing.T) {
	f := newStakeFixture(t)
	err := f.engine.FreezeTokenAccount(context.Background(), f.user, f.userShare)
	require.Equal(t, vaulterr.KindUnauthorized, vaulterr.KindOf(err))
}
