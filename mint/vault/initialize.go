package vault

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"

	"github.com/solvault/engine/pkg/guard"
	"github.com/solvault/engine/pkg/pda"
	"github.com/solvault/engine/pkg/vaulterr"
)

// InitializeParams bundles Initialize's inputs (spec.md §4.2).
type InitializeParams struct {
	Caller                     solana.PublicKey
	ReserveMint                solana.PublicKey
	DerivativeMint             solana.PublicKey
	ReserveAccount             solana.PublicKey
	RedeemReserveAccount       solana.PublicKey
	FreezeAdministrators       []solana.PublicKey
	RewardsAdministrators      []solana.PublicKey
	AllowedExternalMintProgram solana.PublicKey
}

// Initialize creates the Mint Vault's Config and reserve-account binding.
func (e *Engine) Initialize(ctx context.Context, p InitializeParams) error {
	const op = "mint.Initialize"

	if len(p.FreezeAdministrators) > guard.MaxAdministrators || len(p.RewardsAdministrators) > guard.MaxAdministrators {
		return vaulterr.New(op, vaulterr.KindAdminListTooLong, nil)
	}

	lvl, err := guard.Resolve(ctx, e.Meta, guard.AdminSets{}, p.Caller)
	if err != nil {
		return err
	}
	if lvl != guard.LevelUpgradeAuthority {
		return vaulterr.New(op, vaulterr.KindUnauthorized, nil)
	}

	if p.ReserveMint == p.DerivativeMint {
		return vaulterr.New(op, vaulterr.KindInvalidMint, errors.New("reserve_mint must differ from derivative_mint"))
	}

	reserveMint, err := e.Ledger.MintOf(ctx, p.ReserveAccount)
	if err != nil {
		return err
	}
	if reserveMint != p.ReserveMint {
		return vaulterr.New(op, vaulterr.KindInvalidMint, errors.New("reserve account mint mismatch"))
	}
	redeemMint, err := e.Ledger.MintOf(ctx, p.RedeemReserveAccount)
	if err != nil {
		return err
	}
	if redeemMint != p.ReserveMint {
		return vaulterr.New(op, vaulterr.KindInvalidMint, errors.New("redeem reserve account mint mismatch"))
	}

	reserveOwner, err := e.Ledger.OwnerOf(ctx, p.ReserveAccount)
	if err != nil {
		return err
	}

	configDerived, err := pda.ConfigAddress(e.ProgramID)
	if err != nil {
		return err
	}
	configAddr := configDerived.Address

	cfg := Config{
		ReserveMint:                p.ReserveMint,
		DerivativeMint:             p.DerivativeMint,
		VaultAuthority:             reserveOwner,
		FreezeAdministrators:       guard.DedupAdministrators(p.FreezeAdministrators),
		RewardsAdministrators:      guard.DedupAdministrators(p.RewardsAdministrators),
		AllowedExternalMintProgram: p.AllowedExternalMintProgram,
		Paused:                     false,
		Bump:                       configDerived.Bump,
	}
	if err := e.Backend.Create(ctx, configAddr, &cfg); err != nil {
		if vaulterr.Is(err, vaulterr.KindAlreadyExists) {
			return vaulterr.New(op, vaulterr.KindAlreadyInitialized, nil)
		}
		return err
	}

	bindingAddr, err := pda.VaultTokenAccountConfigAddress(e.ProgramID, configAddr)
	if err != nil {
		return err
	}
	binding := VaultTokenAccountConfig{
		ReserveAccount:       p.ReserveAccount,
		RedeemReserveAccount: p.RedeemReserveAccount,
		Bump:                 bindingAddr.Bump,
	}
	if err := e.Backend.Put(ctx, bindingAddr.Address, &binding); err != nil {
		return err
	}

	e.Log.Info("mint vault initialized",
		"reserve_mint", p.ReserveMint.String(),
		"derivative_mint", p.DerivativeMint.String(),
		"reserve_account", p.ReserveAccount.String(),
	)
	return nil
}

// Pause toggles the protocol-wide pause flag (upgrade authority only).
func (e *Engine) Pause(ctx context.Context, caller solana.PublicKey, paused bool) error {
	const op = "mint.Pause"
	cfg, addr, err := e.loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := e.requireUpgradeAuthority(ctx, cfg, caller, op); err != nil {
		return err
	}
	cfg.Paused = paused
	if err := e.Backend.Put(ctx, addr, &cfg); err != nil {
		return err
	}
	e.Log.Info("mint vault pause toggled", "paused", paused)
	return nil
}

// UpdateFreezeAdministrators replaces the freeze-administrator list
// (upgrade authority only).
func (e *Engine) UpdateFreezeAdministrators(ctx context.Context, caller solana.PublicKey, admins []solana.PublicKey) error {
	const op = "mint.UpdateFreezeAdministrators"
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
	const op = "mint.UpdateRewardsAdministrators"
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

// SetVaultTokenAccountConfig (re)binds both the reserve and redeem-reserve
// accounts in one call — used at setup time and whenever both need to
// rotate together.
func (e *Engine) SetVaultTokenAccountConfig(ctx context.Context, caller, reserveAccount, redeemReserveAccount solana.PublicKey) error {
	const op = "mint.SetVaultTokenAccountConfig"
	cfg, configAddr, err := e.loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := e.requireUpgradeAuthority(ctx, cfg, caller, op); err != nil {
		return err
	}
	if err := e.validateReserveAccount(ctx, cfg, reserveAccount); err != nil {
		return err
	}
	if err := e.validateReserveAccount(ctx, cfg, redeemReserveAccount); err != nil {
		return err
	}
	bindingAddr, err := pda.VaultTokenAccountConfigAddress(e.ProgramID, configAddr)
	if err != nil {
		return err
	}
	binding := VaultTokenAccountConfig{ReserveAccount: reserveAccount, RedeemReserveAccount: redeemReserveAccount, Bump: bindingAddr.Bump}
	return e.Backend.Put(ctx, bindingAddr.Address, &binding)
}

// UpdateVaultTokenAccount rotates only the active reserve-holding account,
// leaving the redeem-reserve binding untouched (spec.md §9's cycle-breaking
// rationale for keeping the binding record separate from Config).
func (e *Engine) UpdateVaultTokenAccount(ctx context.Context, caller, reserveAccount solana.PublicKey) error {
	const op = "mint.UpdateVaultTokenAccount"
	cfg, configAddr, err := e.loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := e.requireUpgradeAuthority(ctx, cfg, caller, op); err != nil {
		return err
	}
	if err := e.validateReserveAccount(ctx, cfg, reserveAccount); err != nil {
		return err
	}
	binding, bindingAddr, err := e.loadBinding(ctx, configAddr)
	if err != nil {
		return err
	}
	binding.ReserveAccount = reserveAccount
	return e.Backend.Put(ctx, bindingAddr, &binding)
}

func (e *Engine) validateReserveAccount(ctx context.Context, cfg Config, account solana.PublicKey) error {
	mint, err := e.Ledger.MintOf(ctx, account)
	if err != nil {
		return err
	}
	if mint != cfg.ReserveMint {
		return vaulterr.New("mint.validateReserveAccount", vaulterr.KindInvalidVaultTokenAccount, errors.New("account mint does not match reserve_mint"))
	}
	return nil
}
