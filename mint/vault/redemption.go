package vault

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/solvault/engine/pkg/pda"
	"github.com/solvault/engine/pkg/vaulterr"
	"github.com/solvault/engine/pkg/vaultmetrics"
)

// RequestRedeem opens a Redemption Request for the caller (spec.md §4.4).
// The derivative stays in the user's account — it is not escrowed — but an
// Approve grants the redeem-vault authority delegate rights over exactly
// amount, so complete_redeem can burn it later without the user re-signing.
func (e *Engine) RequestRedeem(ctx context.Context, caller, userDerivativeAccount solana.PublicKey, amount uint64) error {
	const op = "mint.RequestRedeem"

	if amount == 0 {
		return vaulterr.New(op, vaulterr.KindZeroAmount, nil)
	}

	cfg, _, err := e.loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := e.checkNotPausedForUser(cfg, op); err != nil {
		return err
	}

	balance, err := e.Ledger.BalanceOf(ctx, userDerivativeAccount)
	if err != nil {
		return err
	}
	if balance < amount {
		return vaulterr.New(op, vaulterr.KindInsufficientBalance, nil)
	}

	reqAddr, err := pda.RedemptionRequestAddress(e.ProgramID, caller)
	if err != nil {
		return err
	}

	req := RedemptionRequest{User: caller, Amount: amount, DerivativeMint: cfg.DerivativeMint, Bump: reqAddr.Bump}
	if err := e.Backend.Create(ctx, reqAddr.Address, &req); err != nil {
		if vaulterr.Is(err, vaulterr.KindAlreadyExists) {
			return vaulterr.New(op, vaulterr.KindRedemptionAlreadyOpen, nil)
		}
		return err
	}

	redeemAuthority, err := redeemVaultAuthorityAddress(e)
	if err != nil {
		return err
	}
	if err := e.Ledger.Approve(ctx, userDerivativeAccount, redeemAuthority, caller, amount); err != nil {
		return err
	}

	vaultmetrics.RedemptionsOpenedTotal.Inc()
	e.Log.Info("mint vault redemption requested", "user", caller.String(), "amount", amount)
	return nil
}

// CompleteRedeem settles an open Redemption Request: reserve flows from the
// redeem-reserve account to the user, derivative is burned from the user's
// account, and the request is closed (spec.md §4.4). Rewards-admin signed.
func (e *Engine) CompleteRedeem(ctx context.Context, caller, user, userReserveAccount, userDerivativeAccount solana.PublicKey) error {
	const op = "mint.CompleteRedeem"

	cfg, configAddr, err := e.loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := e.requireRewardsAdmin(ctx, cfg, caller, op); err != nil {
		return err
	}

	reqAddr, err := pda.RedemptionRequestAddress(e.ProgramID, user)
	if err != nil {
		return err
	}
	var req RedemptionRequest
	found, err := e.Backend.Get(ctx, reqAddr.Address, &req)
	if err != nil {
		return err
	}
	if !found {
		return vaulterr.New(op, vaulterr.KindNoOpenRedemption, nil)
	}

	binding, _, err := e.loadBinding(ctx, configAddr)
	if err != nil {
		return err
	}

	redeemBalance, err := e.Ledger.BalanceOf(ctx, binding.RedeemReserveAccount)
	if err != nil {
		return err
	}
	if redeemBalance < req.Amount {
		return vaulterr.New(op, vaulterr.KindInsufficientRedeemReserve, nil)
	}

	redeemAuthority, err := redeemVaultAuthorityAddress(e)
	if err != nil {
		return err
	}

	if err := e.Ledger.Transfer(ctx, binding.RedeemReserveAccount, userReserveAccount, redeemAuthority, req.Amount); err != nil {
		return err
	}
	if err := e.Ledger.Burn(ctx, req.DerivativeMint, userDerivativeAccount, redeemAuthority, req.Amount); err != nil {
		return err
	}
	if err := e.Backend.Delete(ctx, reqAddr.Address); err != nil {
		return err
	}

	vaultmetrics.RedemptionsCompletedTotal.Inc()
	e.Log.Info("mint vault redemption completed", "user", user.String(), "amount", req.Amount)
	return nil
}

// SweepRedeemVaultFunds moves amount out of the redeem-reserve account to an
// arbitrary destination, for operational recovery when off-chain funding
// overshoots (spec.md §4.9). Upgrade authority only.
func (e *Engine) SweepRedeemVaultFunds(ctx context.Context, caller, destination solana.PublicKey, amount uint64) error {
	const op = "mint.SweepRedeemVaultFunds"
	cfg, configAddr, err := e.loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := e.requireUpgradeAuthority(ctx, cfg, caller, op); err != nil {
		return err
	}
	binding, _, err := e.loadBinding(ctx, configAddr)
	if err != nil {
		return err
	}
	redeemAuthority, err := redeemVaultAuthorityAddress(e)
	if err != nil {
		return err
	}
	return e.Ledger.Transfer(ctx, binding.RedeemReserveAccount, destination, redeemAuthority, amount)
}
