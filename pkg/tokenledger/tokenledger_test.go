package tokenledger_test

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/solvault/engine/pkg/tokenledger"
	"github.com/solvault/engine/pkg/vaulterr"
)

func key(b byte) solana.PublicKey {
	var pk solana.PublicKey
	pk[0] = b
	return pk
}

func TestMintTo_And_BalanceOf(t *testing.T) {
	ctx := context.Background()
	l := tokenledger.NewMemory()

	mint, mintAuthority, owner, account := key(1), key(2), key(3), key(4)
	require.NoError(t, l.CreateMint(ctx, mint, 6, mintAuthority))
	require.NoError(t, l.CreateAccount(ctx, account, mint, owner))

	require.NoError(t, l.MintTo(ctx, mint, account, mintAuthority, 1_000))
	bal, err := l.BalanceOf(ctx, account)
	require.NoError(t, err)
	require.Equal(t, uint64(1_000), bal)

	supply, err := l.SupplyOf(ctx, mint)
	require.NoError(t, err)
	require.Equal(t, uint64(1_000), supply)
}

func TestMintTo_WrongAuthority_Unauthorized(t *testing.T) {
	ctx := context.Background()
	l := tokenledger.NewMemory()
	mint, mintAuthority, owner, account := key(1), key(2), key(3), key(4)
	require.NoError(t, l.CreateMint(ctx, mint, 6, mintAuthority))
	require.NoError(t, l.CreateAccount(ctx, account, mint, owner))

	err := l.MintTo(ctx, mint, account, key(99), 100)
	require.Equal(t, vaulterr.KindUnauthorized, vaulterr.KindOf(err))
}

func TestApprove_DelegateCanBurnWithinAllowance(t *testing.T) {
	ctx := context.Background()
	l := tokenledger.NewMemory()
	mint, mintAuthority, owner, account, delegate := key(1), key(2), key(3), key(4), key(5)
	require.NoError(t, l.CreateMint(ctx, mint, 6, mintAuthority))
	require.NoError(t, l.CreateAccount(ctx, account, mint, owner))
	require.NoError(t, l.MintTo(ctx, mint, account, mintAuthority, 500))

	require.NoError(t, l.Approve(ctx, account, delegate, owner, 200))
	require.NoError(t, l.Burn(ctx, mint, account, delegate, 150))

	bal, err := l.BalanceOf(ctx, account)
	require.NoError(t, err)
	require.Equal(t, uint64(350), bal)

	// Exceeding the remaining delegated allowance (50 left) must fail, even
	// though the account balance (350) would cover it.
	err = l.Burn(ctx, mint, account, delegate, 100)
	require.Equal(t, vaulterr.KindUnauthorized, vaulterr.KindOf(err))
}

func TestFreeze_BlocksTransferAndBurn(t *testing.T) {
	ctx := context.Background()
	l := tokenledger.NewMemory()
	mint, mintAuthority, freezeAuthority, owner, account, other := key(1), key(2), key(6), key(3), key(4), key(7)
	require.NoError(t, l.CreateMint(ctx, mint, 6, mintAuthority))
	require.NoError(t, l.CreateAccount(ctx, account, mint, owner))
	require.NoError(t, l.CreateAccount(ctx, other, mint, owner))
	require.NoError(t, l.MintTo(ctx, mint, account, mintAuthority, 100))

	require.NoError(t, l.Freeze(ctx, account, mint, freezeAuthority))
	err := l.Transfer(ctx, account, other, owner, 10)
	require.Equal(t, vaulterr.KindAccountFrozen, vaulterr.KindOf(err))

	require.NoError(t, l.Thaw(ctx, account, mint, freezeAuthority))
	require.NoError(t, l.Transfer(ctx, account, other, owner, 10))
}

func TestBurn_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	l := tokenledger.NewMemory()
	mint, mintAuthority, owner, account := key(1), key(2), key(3), key(4)
	require.NoError(t, l.CreateMint(ctx, mint, 6, mintAuthority))
	require.NoError(t, l.CreateAccount(ctx, account, mint, owner))
	require.NoError(t, l.MintTo(ctx, mint, account, mintAuthority, 10))

	err := l.Burn(ctx, mint, account, owner, 11)
	require.Equal(t, vaulterr.KindInsufficientBalance, vaulterr.KindOf(err))
}
