package vault

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/solvault/engine/pkg/sharemath"
	"github.com/solvault/engine/pkg/vaulterr"
	"github.com/solvault/engine/pkg/vaultmetrics"
)

// Deposit converts amount of reserve (derivative token) into shares at the
// current exchange rate and mints them to the caller (spec.md §4.6). Share
// count is computed *before* the reserve transfer lands, so the deposit is
// never double-counted in the vault's balance.
func (e *Engine) Deposit(ctx context.Context, caller, userReserveAccount, userShareAccount, reserveAccount solana.PublicKey, amount uint64) error {
	const op = "stake.Deposit"

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

	frozen, err := e.Ledger.IsFrozen(ctx, userShareAccount)
	if err != nil {
		return err
	}
	if frozen {
		return vaulterr.New(op, vaulterr.KindAccountFrozen, nil)
	}

	userBalance, err := e.Ledger.BalanceOf(ctx, userReserveAccount)
	if err != nil {
		return err
	}
	if userBalance < amount {
		return vaulterr.New(op, vaulterr.KindInsufficientBalance, nil)
	}

	vaultBalance, err := e.Ledger.BalanceOf(ctx, reserveAccount)
	if err != nil {
		return err
	}
	totalShares, err := e.Ledger.SupplyOf(ctx, cfg.ShareMint)
	if err != nil {
		return err
	}

	shares, err := sharemath.AssetsToShares(amount, totalShares, vaultBalance)
	if err != nil {
		return err
	}

	mintAuthority, err := stakeMintAuthorityAddress(e)
	if err != nil {
		return err
	}

	if err := e.Ledger.Transfer(ctx, userReserveAccount, reserveAccount, caller, amount); err != nil {
		return err
	}
	if err := e.Ledger.MintTo(ctx, cfg.ShareMint, userShareAccount, mintAuthority, shares); err != nil {
		return err
	}

	vaultmetrics.DepositsTotal.WithLabelValues("stake").Inc()
	e.Log.Info("stake vault deposit", "user", caller.String(), "amount", amount, "shares", shares)
	return nil
}

// AssetsToShares is a non-mutating query: no pause gate, no authority check
// (spec.md §4.6).
func (e *Engine) AssetsToShares(ctx context.Context, amount uint64) (uint64, error) {
	cfg, configAddr, err := e.loadConfig(ctx)
	if err != nil {
		return 0, err
	}
	binding, _, err := e.loadBinding(ctx, configAddr)
	if err != nil {
		return 0, err
	}
	vaultBalance, err := e.Ledger.BalanceOf(ctx, binding.ReserveAccount)
	if err != nil {
		return 0, err
	}
	totalShares, err := e.Ledger.SupplyOf(ctx, cfg.ShareMint)
	if err != nil {
		return 0, err
	}
	return sharemath.AssetsToShares(amount, totalShares, vaultBalance)
}

// SharesToAssets is a non-mutating query: no pause gate, no authority check.
func (e *Engine) SharesToAssets(ctx context.Context, shares uint64) (uint64, error) {
	cfg, configAddr, err := e.loadConfig(ctx)
	if err != nil {
		return 0, err
	}
	binding, _, err := e.loadBinding(ctx, configAddr)
	if err != nil {
		return 0, err
	}
	vaultBalance, err := e.Ledger.BalanceOf(ctx, binding.ReserveAccount)
	if err != nil {
		return 0, err
	}
	totalShares, err := e.Ledger.SupplyOf(ctx, cfg.ShareMint)
	if err != nil {
		return 0, err
	}
	return sharemath.SharesToAssets(shares, totalShares, vaultBalance)
}

// ExchangeRate is a non-mutating query: assets-per-share scaled by
// sharemath.RateScale.
func (e *Engine) ExchangeRate(ctx context.Context) (uint64, error) {
	cfg, configAddr, err := e.loadConfig(ctx)
	if err != nil {
		return 0, err
	}
	binding, _, err := e.loadBinding(ctx, configAddr)
	if err != nil {
		return 0, err
	}
	vaultBalance, err := e.Ledger.BalanceOf(ctx, binding.ReserveAccount)
	if err != nil {
		return 0, err
	}
	totalShares, err := e.Ledger.SupplyOf(ctx, cfg.ShareMint)
	if err != nil {
		return 0, err
	}
	rate, err := sharemath.ExchangeRate(totalShares, vaultBalance)
	if err != nil {
		return 0, err
	}
	vaultmetrics.ExchangeRate.Set(float64(rate))
	return rate, nil
}
