package vault

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gagliardetto/solana-go"

	mintvault "github.com/solvault/engine/mint/vault"
	"github.com/solvault/engine/pkg/clock"
	"github.com/solvault/engine/pkg/guard"
	"github.com/solvault/engine/pkg/pda"
	"github.com/solvault/engine/pkg/store"
	"github.com/solvault/engine/pkg/tokenledger"
	"github.com/solvault/engine/pkg/vaulterr"
)

// Engine is the Stake Vault's state machine. It depends on a narrow
// mintvault.ExternalMinter for reward publication rather than the Mint
// Vault's full engine surface (SPEC_FULL §4.8).
type Engine struct {
	ProgramID solana.PublicKey

	Backend store.Backend
	Ledger  tokenledger.Ledger
	Clock   clock.Clock
	Meta    guard.ProgramMetadata
	Log     *slog.Logger
	Minter  mintvault.ExternalMinter
}

// New constructs an Engine. log may be nil, in which case slog.Default is
// used.
func New(programID solana.PublicKey, backend store.Backend, ledger tokenledger.Ledger, clk clock.Clock, meta guard.ProgramMetadata, minter mintvault.ExternalMinter, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{ProgramID: programID, Backend: backend, Ledger: ledger, Clock: clk, Meta: meta, Minter: minter, Log: log}
}

func (e *Engine) configAddr() (solana.PublicKey, error) {
	d, err := pda.StakeConfigAddress(e.ProgramID)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return d.Address, nil
}

func (e *Engine) loadConfig(ctx context.Context) (StakeConfig, solana.PublicKey, error) {
	addr, err := e.configAddr()
	if err != nil {
		return StakeConfig{}, solana.PublicKey{}, err
	}
	var cfg StakeConfig
	found, err := e.Backend.Get(ctx, addr, &cfg)
	if err != nil {
		return StakeConfig{}, solana.PublicKey{}, err
	}
	if !found {
		return StakeConfig{}, solana.PublicKey{}, vaulterr.New("loadConfig", vaulterr.KindNotFound, errors.New("stake config not initialized"))
	}
	return cfg, addr, nil
}

func (e *Engine) loadBinding(ctx context.Context, config solana.PublicKey) (StakeVaultTokenAccountConfig, solana.PublicKey, error) {
	d, err := pda.StakeVaultTokenAccountConfigAddress(e.ProgramID, config)
	if err != nil {
		return StakeVaultTokenAccountConfig{}, solana.PublicKey{}, err
	}
	var b StakeVaultTokenAccountConfig
	found, err := e.Backend.Get(ctx, d.Address, &b)
	if err != nil {
		return StakeVaultTokenAccountConfig{}, solana.PublicKey{}, err
	}
	if !found {
		return StakeVaultTokenAccountConfig{}, solana.PublicKey{}, vaulterr.New("loadBinding", vaulterr.KindInvalidVaultTokenAccount, errors.New("stake vault token account not configured"))
	}
	return b, d.Address, nil
}

func (e *Engine) resolve(ctx context.Context, cfg StakeConfig, caller solana.PublicKey) (guard.Level, error) {
	return guard.Resolve(ctx, e.Meta, guard.AdminSets{
		FreezeAdministrators:  cfg.FreezeAdministrators,
		RewardsAdministrators: cfg.RewardsAdministrators,
	}, caller)
}

func (e *Engine) requireUpgradeAuthority(ctx context.Context, cfg StakeConfig, caller solana.PublicKey, op string) error {
	lvl, err := e.resolve(ctx, cfg, caller)
	if err != nil {
		return err
	}
	if lvl != guard.LevelUpgradeAuthority {
		return vaulterr.New(op, vaulterr.KindUnauthorized, nil)
	}
	return nil
}

// requirePauseToggleAuthority implements spec.md §4.1's Stake-Vault-only
// widening: both the upgrade authority and any freeze administrator may
// toggle pause here (the Mint Vault restricts this to upgrade authority
// alone).
func (e *Engine) requirePauseToggleAuthority(ctx context.Context, cfg StakeConfig, caller solana.PublicKey, op string) error {
	lvl, err := e.resolve(ctx, cfg, caller)
	if err != nil {
		return err
	}
	if lvl != guard.LevelUpgradeAuthority && lvl != guard.LevelFreezeAdmin {
		return vaulterr.New(op, vaulterr.KindUnauthorized, nil)
	}
	return nil
}

func (e *Engine) requireRewardsAdmin(ctx context.Context, cfg StakeConfig, caller solana.PublicKey, op string) error {
	lvl, err := e.resolve(ctx, cfg, caller)
	if err != nil {
		return err
	}
	if lvl != guard.LevelUpgradeAuthority && lvl != guard.LevelRewardsAdmin {
		return vaulterr.New(op, vaulterr.KindUnauthorized, nil)
	}
	return nil
}

func (e *Engine) requireFreezeAdmin(ctx context.Context, cfg StakeConfig, caller solana.PublicKey, op string) error {
	lvl, err := e.resolve(ctx, cfg, caller)
	if err != nil {
		return err
	}
	if lvl != guard.LevelUpgradeAuthority && lvl != guard.LevelFreezeAdmin {
		return vaulterr.New(op, vaulterr.KindUnauthorized, nil)
	}
	return nil
}

func (e *Engine) checkNotPausedForUser(cfg StakeConfig, op string) error {
	if cfg.Paused {
		return vaulterr.New(op, vaulterr.KindProtocolPaused, nil)
	}
	return nil
}

func stakeMintAuthorityAddress(e *Engine) (solana.PublicKey, error) {
	d, err := pda.StakeMintAuthority(e.ProgramID)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return d.Address, nil
}

func stakeFreezeAuthorityAddress(e *Engine) (solana.PublicKey, error) {
	d, err := pda.StakeFreezeAuthority(e.ProgramID)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return d.Address, nil
}
