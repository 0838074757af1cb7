package vault

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/solvault/engine/pkg/vaulterr"
	"github.com/solvault/engine/pkg/vaultmetrics"
)

// Deposit pulls amount of reserve_mint from the user's reserve account into
// the bound reserve account and mints amount of derivative_mint to the
// user's derivative account, at fixed 1:1 parity (spec.md §4.3).
func (e *Engine) Deposit(ctx context.Context, caller, userReserveAccount, userDerivativeAccount, reserveAccount solana.PublicKey, amount uint64) error {
	const op = "mint.Deposit"

	if amount == 0 {
		return vaulterr.New(op, vaulterr.KindZeroAmount, nil)
	}

	cfg, configAddr, err := e.loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := e.checkNotPausedForUser(cfg, op); err != nil {
		return err
	}

	binding, _, err := e.loadBinding(ctx, configAddr)
	if err != nil {
		return err
	}
	if binding.ReserveAccount != reserveAccount {
		return vaulterr.New(op, vaulterr.KindInvalidVaultTokenAccount, nil)
	}

	frozen, err := e.Ledger.IsFrozen(ctx, userDerivativeAccount)
	if err != nil {
		return err
	}
	if frozen {
		return vaulterr.New(op, vaulterr.KindAccountFrozen, nil)
	}

	balance, err := e.Ledger.BalanceOf(ctx, userReserveAccount)
	if err != nil {
		return err
	}
	if balance < amount {
		return vaulterr.New(op, vaulterr.KindInsufficientBalance, nil)
	}

	mintAuthority, err := mintAuthorityAddress(e)
	if err != nil {
		return err
	}

	if err := e.Ledger.Transfer(ctx, userReserveAccount, reserveAccount, caller, amount); err != nil {
		return err
	}
	if err := e.Ledger.MintTo(ctx, cfg.DerivativeMint, userDerivativeAccount, mintAuthority, amount); err != nil {
		return err
	}

	vaultmetrics.DepositsTotal.WithLabelValues("mint").Inc()
	e.Log.Info("mint vault deposit", "user", caller.String(), "amount", amount)
	return nil
}
