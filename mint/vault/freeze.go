package vault

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// FreezeTokenAccount freezes a derivative token account (freeze-admin).
func (e *Engine) FreezeTokenAccount(ctx context.Context, caller, account solana.PublicKey) error {
	const op = "mint.FreezeTokenAccount"
	cfg, _, err := e.loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := e.requireFreezeAdmin(ctx, cfg, caller, op); err != nil {
		return err
	}
	freezeAuthority, err := freezeAuthorityAddress(e)
	if err != nil {
		return err
	}
	return e.Ledger.Freeze(ctx, account, cfg.DerivativeMint, freezeAuthority)
}

// ThawTokenAccount thaws a previously frozen derivative token account
// (freeze-admin).
func (e *Engine) ThawTokenAccount(ctx context.Context, caller, account solana.PublicKey) error {
	const op = "mint.ThawTokenAccount"
	cfg, _, err := e.loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := e.requireFreezeAdmin(ctx, cfg, caller, op); err != nil {
		return err
	}
	freezeAuthority, err := freezeAuthorityAddress(e)
	if err != nil {
		return err
	}
	return e.Ledger.Thaw(ctx, account, cfg.DerivativeMint, freezeAuthority)
}
