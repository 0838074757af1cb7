package vault

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"

	"github.com/solvault/engine/pkg/guard"
	"github.com/solvault/engine/pkg/pda"
	"github.com/solvault/engine/pkg/vaulterr"
)

// InitializeParams bundles Initialize's inputs (spec.md §4.6/§6).
type InitializeParams struct {
	Caller                solana.PublicKey
	UnbondingPeriodSeconds int64
	ReserveMint           solana.PublicKey // derivative token
	ShareMint             solana.PublicKey
	ReserveAccount        solana.PublicKey
	FreezeAdministrators  []solana.PublicKey
	RewardsAdministrators []solana.PublicKey
}

// Initialize creates the Stake Vault's config and reserve-account binding.
func (e *Engine) Initialize(ctx context.Context, p InitializeParams) error {
	const op = "stake.Initialize"

	if len(p.FreezeAdministrators) > guard.MaxAdministrators || len(p.RewardsAdministrators) > guard.MaxAdministrators {
		return vaulterr.New(op, vaulterr.KindAdminListTooLong, nil)
	}
	if p.UnbondingPeriodSeconds <= 0 {
		return vaulterr.New(op, vaulterr.KindZeroAmount, errors.New("unbonding_period_seconds must be positive"))
	}

	lvl, err := guard.Resolve(ctx, e.Meta, guard.AdminSets{}, p.Caller)
	if err != nil {
		return err
	}
	if lvl != guard.LevelUpgradeAuthority {
		return vaulterr.New(op, vaulterr.KindUnauthorized, nil)
	}

	if p.ReserveMint == p.ShareMint {
		return vaulterr.New(op, vaulterr.KindInvalidMint, errors.New("reserve_mint must differ from share_mint"))
	}

	reserveMint, err := e.Ledger.MintOf(ctx, p.ReserveAccount)
	if err != nil {
		return err
	}
	if reserveMint != p.ReserveMint {
		return vaulterr.New(op, vaulterr.KindInvalidMint, errors.New("reserve account mint mismatch"))
	}
	reserveOwner, err := e.Ledger.OwnerOf(ctx, p.ReserveAccount)
	if err != nil {
		return err
	}

	configDerived, err := pda.StakeConfigAddress(e.ProgramID)
	if err != nil {
		return err
	}
	configAddr := configDerived.Address

	cfg := StakeConfig{
		ReserveMint:            p.ReserveMint,
		ShareMint:              p.ShareMint,
		UnbondingPeriodSeconds: p.UnbondingPeriodSeconds,
		FreezeAdministrators:   guard.DedupAdministrators(p.FreezeAdministrators),
		RewardsAdministrators:  guard.DedupAdministrators(p.RewardsAdministrators),
		Paused:                 false,
		Bump:                   configDerived.Bump,
	}
	if err := e.Backend.Create(ctx, configAddr, &cfg); err != nil {
		if vaulterr.Is(err, vaulterr.KindAlreadyExists) {
			return vaulterr.New(op, vaulterr.KindAlreadyInitialized, nil)
		}
		return err
	}

	bindingAddr, err := pda.StakeVaultTokenAccountConfigAddress(e.ProgramID, configAddr)
	if err != nil {
		return err
	}
	binding := StakeVaultTokenAccountConfig{ReserveAccount: p.ReserveAccount, VaultAuthority: reserveOwner, Bump: bindingAddr.Bump}
	if err := e.Backend.Put(ctx, bindingAddr.Address, &binding); err != nil {
		return err
	}

	e.Log.Info("stake vault initialized",
		"reserve_mint", p.ReserveMint.String(),
		"share_mint", p.ShareMint.String(),
		"unbonding_period_seconds", p.UnbondingPeriodSeconds,
	)
	return nil
}

// Pause toggles the protocol-wide pause flag. Unlike the Mint Vault, the
// Stake Vault allows either the upgrade authority or a freeze administrator
// to do this (spec.md §4.1).
func (e *Engine) Pause(ctx context.Context, caller solana.PublicKey, paused bool) error {
	const op = "stake.Pause"
	cfg, addr, err := e.loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := e.requirePauseToggleAuthority(ctx, cfg, caller, op); err != nil {
		return err
	}
	cfg.Paused = paused
	if err := e.Backend.Put(ctx, addr, &cfg); err != nil {
		return err
	}
	e.Log.Info("stake vault pause toggled", "paused", paused)
	return nil
}

// UpdateConfig rotates the unbonding period (upgrade authority only).
func (e *Engine) UpdateConfig(ctx context.Context, caller solana.PublicKey, newUnbondingPeriodSeconds int64) error {
	const op = "stake.UpdateConfig"
	if newUnbondingPeriodSeconds <= 0 {
		return vaulterr.New(op, vaulterr.KindZeroAmount, errors.New("unbonding_period_seconds must be positive"))
	}
	cfg, addr, err := e.loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := e.requireUpgradeAuthority(ctx, cfg, caller, op); err != nil {
		return err
	}
	cfg.UnbondingPeriodSeconds = newUnbondingPeriodSeconds
	if err := e.Backend.Put(ctx, addr, &cfg); err != nil {
		return err
	}
	e.Log.Info("stake vault unbonding period updated", "unbonding_period_seconds", newUnbondingPeriodSeconds)
	return nil
}

// UpdateFreezeAdministrators replaces the freeze-administrator list
// (upgrade authority only).
func (e *Engine) UpdateFreezeAdministrators(ctx context.Context, caller solana.PublicKey, admins []solana.PublicKey) error {
	const op = "stake.UpdateFreezeAdministrators"
	if len(admins) > guard.MaxAdministrators {
		return vaulterr.New(op, vaulterr.KindAdminListTooLong, nil)
	}
	cfg, addr, err := e.loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := e.requireUpgradeAuthority(ctx, cfg, caller, op); err != nil {
		return err
	}
	cfg.FreezeAdministrators = guard.DedupAdministrators(admins)
	return e.Backend.Put(ctx, addr, &cfg)
}

// UpdateRewardsAdministrators replaces the rewards-administrator list
// (upgrade authority only).
func (e *Engine) UpdateRewardsAdministrators(ctx context.Context, caller solana.PublicKey, admins []solana.PublicKey) error {
	const op = "stake.UpdateRewardsAdministrators"
	if len(admins) > guard.MaxAdministrators {
		return vaulterr.New(op, vaulterr.KindAdminListTooLong, nil)
	}
	cfg, addr, err := e.loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := e.requireUpgradeAuthority(ctx, cfg, caller, op); err != nil {
		return err
	}
	cfg.RewardsAdministrators = guard.DedupAdministrators(admins)
	return e.Backend.Put(ctx, addr, &cfg)
}

// SetStakeVaultTokenAccountConfig (re)binds the active reserve account and
// its owning vault-authority identity.
func (e *Engine) SetStakeVaultTokenAccountConfig(ctx context.Context, caller, reserveAccount, vaultAuthority solana.PublicKey) error {
	const op = "stake.SetStakeVaultTokenAccountConfig"
	cfg, configAddr, err := e.loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := e.requireUpgradeAuthority(ctx, cfg, caller, op); err != nil {
		return err
	}
	mint, err := e.Ledger.MintOf(ctx, reserveAccount)
	if err != nil {
		return err
	}
	if mint != cfg.ReserveMint {
		return vaulterr.New(op, vaulterr.KindInvalidVaultTokenAccount, errors.New("account mint does not match reserve_mint"))
	}
	bindingAddr, err := pda.StakeVaultTokenAccountConfigAddress(e.ProgramID, configAddr)
	if err != nil {
		return err
	}
	binding := StakeVaultTokenAccountConfig{ReserveAccount: reserveAccount, VaultAuthority: vaultAuthority, Bump: bindingAddr.Bump}
	return e.Backend.Put(ctx, bindingAddr.Address, &binding)
}
