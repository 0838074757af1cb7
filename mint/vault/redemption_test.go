package vault_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solvault/engine/pkg/vaulterr"
)

func TestRequestThenCompleteRedeem_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.engine.Deposit(ctx, f.user, f.userReserve, f.userDeriv, f.reserveAcct, 100_000))
	// Fund the redeem-reserve account the way an off-chain sweep would.
	require.NoError(t, f.ledger.Transfer(ctx, f.reserveAcct, f.redeemAcct, f.vaultAuthority, 100_000))

	require.NoError(t, f.engine.RequestRedeem(ctx, f.user, f.userDeriv, 40_000))

	err := f.engine.RequestRedeem(ctx, f.user, f.userDeriv, 1)
	require.Equal(t, vaulterr.KindRedemptionAlreadyOpen, vaulterr.KindOf(err))

	require.NoError(t, f.engine.CompleteRedeem(ctx, f.upgradeAuth, f.user, f.userReserve, f.userDeriv))

	derivBal, err := f.ledger.BalanceOf(ctx, f.userDeriv)
	require.NoError(t, err)
	require.Equal(t, uint64(60_000), derivBal)

	reserveBal, err := f.ledger.BalanceOf(ctx, f.userReserve)
	require.NoError(t, err)
	require.Equal(t, uint64(940_000), reserveBal)

	// Closed request means a second complete_redeem has nothing to settle.
	err = f.engine.CompleteRedeem(ctx, f.upgradeAuth, f.user, f.userReserve, f.userDeriv)
	require.Equal(t, vaulterr.KindNoOpenRedemption, vaulterr.KindOf(err))

	// And a fresh request_redeem can open again at the same address.
	require.NoError(t, f.engine.RequestRedeem(ctx, f.user, f.userDeriv, 1_000))
}

func TestCompleteRedeem_RejectsNonRewardsAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.engine.Deposit(ctx, f.user, f.userReserve, f.userDeriv, f.reserveAcct, 1_000))
	require.NoError(t, f.engine.RequestRedeem(ctx, f.user, f.userDeriv, 500))

	err := f.engine.CompleteRedeem(ctx, f.user, f.user, f.userReserve, f.userDeriv)
	require.Equal(t, vaulterr.KindUnauthorized, vaulterr.KindOf(err))
}

func TestCompleteRedeem_InsufficientRedeemReserve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.engine.Deposit(ctx, f.user, f.userReserve, f.userDeriv, f.reserveAcct, 1_000))
	require.NoError(t, f.engine.RequestRedeem(ctx, f.user, f.userDeriv, 500))

	// redeem-reserve account was never funded.
	err := f.engine.CompleteRedeem(ctx, f.upgradeAuth, f.user, f.userReserve, f.userDeriv)
	require.Equal(t, vaulterr.KindInsufficientRedeemReserve, vaulterr.KindOf(err))
}

func TestSweepRedeemVaultFunds_MovesFundsToDestination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.engine.Deposit(ctx, f.user, f.userReserve, f.userDeriv, f.reserveAcct, 100_000))
	require.NoError(t, f.ledger.Transfer(ctx, f.reserveAcct, f.redeemAcct, f.vaultAuthority, 100_000))

	dest := testKey(0x30)
	require.NoError(t, f.ledger.CreateAccount(ctx, dest, f.reserveMint, f.upgradeAuth))

	require.NoError(t, f.engine.SweepRedeemVaultFunds(ctx, f.upgradeAuth, dest, 30_000))

	destBal, err := f.ledger.BalanceOf(ctx, dest)
	require.NoError(t, err)
	require.Equal(t, uint64(30_000), destBal)

	redeemBal, err := f.ledger.BalanceOf(ctx, f.redeemAcct)
	require.NoError(t, err)
	require.Equal(t, uint64(70_000), redeemBal)
}

func TestSweepRedeemVaultFunds_RejectsNonUpgradeAuthority(t *testing.T) {
	f := newFixture(t)
	err := f.engine.SweepRedeemVaultFunds(context.Background(), f.user, f.user, 1)
	require.Equal(t, vaulterr.KindUnauthorized, vaulterr.KindOf(err))
}
