package vault

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/solvault/engine/pkg/pda"
	"github.com/solvault/engine/pkg/sharemath"
	"github.com/solvault/engine/pkg/vaulterr"
	"github.com/solvault/engine/pkg/vaultmetrics"
)

// Unbond burns shares from the caller immediately and opens a time-locked
// ticket recording the share count burned (spec.md §4.7); the reserve payout
// itself is priced later, at redeem time, against the pool state then.
func (e *Engine) Unbond(ctx context.Context, caller, userShareAccount, reserveAccount solana.PublicKey, shares uint64) error {
	const op = "stake.Unbond"

	if shares == 0 {
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

	userShares, err := e.Ledger.BalanceOf(ctx, userShareAccount)
	if err != nil {
		return err
	}
	if userShares < shares {
		return vaulterr.New(op, vaulterr.KindInsufficientBalance, nil)
	}

	ticketAddr, err := pda.TicketAddress(e.ProgramID, caller)
	if err != nil {
		return err
	}
	open, err := e.Backend.Has(ctx, ticketAddr.Address)
	if err != nil {
		return err
	}
	if open {
		return vaulterr.New(op, vaulterr.KindTicketAlreadyOpen, nil)
	}

	if err := e.Ledger.Burn(ctx, cfg.ShareMint, userShareAccount, caller, shares); err != nil {
		return err
	}

	ticket := UnbondingTicket{
		Owner:           caller,
		RequestedShares: shares,
		StartTimestamp:  e.Clock.Now().Unix(),
		Bump:            ticketAddr.Bump,
	}
	if err := e.Backend.Create(ctx, ticketAddr.Address, &ticket); err != nil {
		if vaulterr.Is(err, vaulterr.KindAlreadyExists) {
			return vaulterr.New(op, vaulterr.KindTicketAlreadyOpen, nil)
		}
		return err
	}

	vaultmetrics.UnbondingTicketsOpenTotal.Inc()
	e.Log.Info("stake vault unbond", "user", caller.String(), "shares", shares)
	return nil
}

// Redeem pays out a matured unbonding ticket: once
// now ≥ ticket.start_timestamp + unbonding_period_seconds, it transfers
// shares_to_assets(ticket.requested_shares) — computed against the *current*
// pool state, which may have grown from published rewards in the interim —
// and closes the ticket (spec.md §4.7).
func (e *Engine) Redeem(ctx context.Context, caller, userReserveAccount, reserveAccount solana.PublicKey) error {
	const op = "stake.Redeem"

	cfg, configAddr, err := e.loadConfig(ctx)
	if err != nil {
		return err
	}

	ticketAddr, err := pda.TicketAddress(e.ProgramID, caller)
	if err != nil {
		return err
	}
	var ticket UnbondingTicket
	found, err := e.Backend.Get(ctx, ticketAddr.Address, &ticket)
	if err != nil {
		return err
	}
	if !found {
		return vaulterr.New(op, vaulterr.KindNoTicket, nil)
	}

	now := e.Clock.Now().Unix()
	if now < ticket.StartTimestamp+cfg.UnbondingPeriodSeconds {
		return vaulterr.New(op, vaulterr.KindNotUnbonded, nil)
	}

	binding, _, err := e.loadBinding(ctx, configAddr)
	if err != nil {
		return err
	}
	if binding.ReserveAccount != reserveAccount {
		return vaulterr.New(op, vaulterr.KindInvalidVaultTokenAccount, nil)
	}

	// SupplyOf reflects the post-burn supply (Unbond already burned
	// ticket.RequestedShares out of it), so the burned shares are added back
	// here to price the payout against the supply as it stood when the
	// ticket was opened — otherwise the shrunk supply inflates every payout.
	totalShares, err := e.Ledger.SupplyOf(ctx, cfg.ShareMint)
	if err != nil {
		return err
	}
	vaultBalance, err := e.Ledger.BalanceOf(ctx, reserveAccount)
	if err != nil {
		return err
	}
	payout, err := sharemath.SharesToAssets(ticket.RequestedShares, totalShares+ticket.RequestedShares, vaultBalance)
	if err != nil {
		return err
	}

	if err := e.Ledger.Transfer(ctx, reserveAccount, userReserveAccount, binding.VaultAuthority, payout); err != nil {
		return err
	}
	if err := e.Backend.Delete(ctx, ticketAddr.Address); err != nil {
		return err
	}

	vaultmetrics.UnbondingTicketsOpenTotal.Dec()
	e.Log.Info("stake vault redeem", "user", caller.String(), "shares", ticket.RequestedShares, "payout", payout)
	return nil
}
