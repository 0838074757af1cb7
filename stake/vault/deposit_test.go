package vault_test

import (
	"context"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/solvault/engine/pkg/clock"
	"github.com/solvault/engine/pkg/guard"
	"github.com/solvault/engine/pkg/pda"
	"github.com/solvault/engine/pkg/store"
	"github.com/solvault/engine/pkg/tokenledger"
	"github.com/solvault/engine/pkg/vaulterr"
	"github.com/solvault/engine/pkg/vaulttest"
	"github.com/solvault/engine/stake/vault"
)

func testKey(b byte) solana.PublicKey {
	var pk solana.PublicKey
	pk[0] = b
	return pk
}

const unbondingPeriod = int64(7 * 24 * 3600)

type stakeFixture struct {
	engine         *vault.Engine
	clock          *clockwork.FakeClock
	upgradeAuth    solana.PublicKey
	reserveMint    solana.PublicKey
	shareMint      solana.PublicKey
	vaultAuthority solana.PublicKey
	reserveAcct    solana.PublicKey
	user           solana.PublicKey
	userReserve    solana.PublicKey
	userShare      solana.PublicKey
	ledger         *tokenledger.Memory
}

func newStakeFixture(t *testing.T) *stakeFixture {
	t.Helper()
	ctx := context.Background()
	programID := testKey(0x20)
	upgradeAuth := testKey(1)
	reserveMint := testKey(2) // the Mint Vault's derivative token
	shareMint := testKey(3)
	vaultAuthorityOwner := testKey(4)
	reserveAcct := testKey(5)
	user := testKey(7)
	userReserve := testKey(8)
	userShare := testKey(9)

	ledger := tokenledger.NewMemory()
	meta := guard.StaticProgramMetadata{Authority: upgradeAuth}
	clk := clock.NewFake()
	e := vault.New(programID, store.NewMemory(), ledger, clk, meta, nil, vaulttest.NewLogger())

	shareMintAuthDerived, err := pda.StakeMintAuthority(programID)
	require.NoError(t, err)

	require.NoError(t, ledger.CreateMint(ctx, reserveMint, 6, testKey(0xaa)))
	require.NoError(t, ledger.CreateMint(ctx, shareMint, 6, shareMintAuthDerived.Address))
	require.NoError(t, ledger.CreateAccount(ctx, reserveAcct, reserveMint, vaultAuthorityOwner))
	require.NoError(t, ledger.CreateAccount(ctx, userReserve, reserveMint, user))
	require.NoError(t, ledger.CreateAccount(ctx, userShare, shareMint, user))
	require.NoError(t, ledger.MintTo(ctx, reserveMint, userReserve, testKey(0xaa), 1_000_000))

	require.NoError(t, e.Initialize(ctx, vault.InitializeParams{
		Caller:                 upgradeAuth,
		UnbondingPeriodSeconds: unbondingPeriod,
		ReserveMint:            reserveMint,
		ShareMint:              shareMint,
		ReserveAccount:         reserveAcct,
	}))

	return &stakeFixture{
		engine: e, clock: clk, upgradeAuth: upgradeAuth, reserveMint: reserveMint, shareMint: shareMint,
		vaultAuthority: vaultAuthorityOwner, reserveAcct: reserveAcct, user: user,
		userReserve: userReserve, userShare: userShare, ledger: ledger,
	}
}

func TestStakeDeposit_FirstDepositMintsAtParity(t *testing.T) {
	f := newStakeFixture(t)
	ctx := context.Background()

	require.NoError(t, f.engine.Deposit(ctx, f.user, f.userReserve, f.userShare, f.reserveAcct, 1_000_000))

	shareBal, err := f.ledger.BalanceOf(ctx, f.userShare)
	require.NoError(t, err)
	require.Equal(t, uint64(1_000_000), shareBal, "the first deposit into an empty pool mints 1:1")
}

func TestStakeUnbondThenRedeem_BlocksBeforeMaturity(t *testing.T) {
	f := newStakeFixture(t)
	ctx := context.Background()
	require.NoError(t, f.engine.Deposit(ctx, f.user, f.userReserve, f.userShare, f.reserveAcct, 1_000_000))

	require.NoError(t, f.engine.Unbond(ctx, f.user, f.userShare, f.reserveAcct, 400_000))

	err := f.engine.Redeem(ctx, f.user, f.userReserve, f.reserveAcct)
	require.Equal(t, vaulterr.KindNotUnbonded, vaulterr.KindOf(err))
}

func TestStakeUnbondThenRedeem_PaysOutAfterMaturity(t *testing.T) {
	f := newStakeFixture(t)
	ctx := context.Background()
	require.NoError(t, f.engine.Deposit(ctx, f.user, f.userReserve, f.userShare, f.reserveAcct, 1_000_000))

	shareBalBefore, err := f.ledger.BalanceOf(ctx, f.userShare)
	require.NoError(t, err)
	require.NoError(t, f.engine.Unbond(ctx, f.user, f.userShare, f.reserveAcct, 400_000))

	shareBalAfter, err := f.ledger.BalanceOf(ctx, f.userShare)
	require.NoError(t, err)
	require.Equal(t, shareBalBefore-400_000, shareBalAfter, "unbond burns shares immediately")

	f.clock.Advance(time.Duration(unbondingPeriod+1) * time.Second)

	reserveBalBefore, err := f.ledger.BalanceOf(ctx, f.userReserve)
	require.NoError(t, err)

	require.NoError(t, f.engine.Redeem(ctx, f.user, f.userReserve, f.reserveAcct))

	reserveBalAfter, err := f.ledger.BalanceOf(ctx, f.userReserve)
	require.NoError(t, err)
	require.Equal(t, reserveBalBefore+400_000, reserveBalAfter)

	// The ticket is closed, so a second redeem has nothing left to settle.
	err = f.engine.Redeem(ctx, f.user, f.userReserve, f.reserveAcct)
	require.Equal(t, vaulterr.KindNoTicket, vaulterr.KindOf(err))
}

func TestStakeUnbond_RejectsSecondOpenTicket(t *testing.T) {
	f := newStakeFixture(t)
	ctx := context.Background()
	require.NoError(t, f.engine.Deposit(ctx, f.user, f.userReserve, f.userShare, f.reserveAcct, 1_000_000))
	require.NoError(t, f.engine.Unbond(ctx, f.user, f.userShare, f.reserveAcct, 100_000))

	err := f.engine.Unbond(ctx, f.user, f.userShare, f.reserveAcct, 100_000)
	require.Equal(t, vaulterr.KindTicketAlreadyOpen, vaulterr.KindOf(err))
}

func TestStakeExchangeRate_RisesAfterRewardsLandInVaultBalance(t *testing.T) {
	f := newStakeFixture(t)
	ctx := context.Background()
	require.NoError(t, f.engine.Deposit(ctx, f.user, f.userReserve, f.userShare, f.reserveAcct, 1_000_000))

	rateBefore, err := f.engine.ExchangeRate(ctx)
	require.NoError(t, err)

	// Simulate a reward publication landing reserve tokens directly in the
	// vault's reserve account, the way publish_rewards does.
	require.NoError(t, f.ledger.MintTo(ctx, f.reserveMint, f.reserveAcct, testKey(0xaa), 500_000))

	rateAfter, err := f.engine.ExchangeRate(ctx)
	require.NoError(t, err)
	require.Greater(t, rateAfter, rateBefore)
}
