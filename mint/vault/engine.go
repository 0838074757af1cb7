package vault

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gagliardetto/solana-go"

	"github.com/solvault/engine/pkg/clock"
	"github.com/solvault/engine/pkg/guard"
	"github.com/solvault/engine/pkg/pda"
	"github.com/solvault/engine/pkg/store"
	"github.com/solvault/engine/pkg/tokenledger"
	"github.com/solvault/engine/pkg/vaulterr"
)

// Engine is the Mint Vault's state machine, backed by a store.Backend for
// PDA-addressed records and a tokenledger.Ledger for token primitives. One
// Engine is wired per program instance (one ProgramID) in cmd/vaultd.
type Engine struct {
	ProgramID solana.PublicKey

	Backend store.Backend
	Ledger  tokenledger.Ledger
	Clock   clock.Clock
	Meta    guard.ProgramMetadata
	Log     *slog.Logger
}

// New constructs an Engine. log may be nil, in which case slog.Default is
// used.
func New(programID solana.PublicKey, backend store.Backend, ledger tokenledger.Ledger, clk clock.Clock, meta guard.ProgramMetadata, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{ProgramID: programID, Backend: backend, Ledger: ledger, Clock: clk, Meta: meta, Log: log}
}

func (e *Engine) configAddr() (solana.PublicKey, error) {
	d, err := pda.ConfigAddress(e.ProgramID)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return d.Address, nil
}

func (e *Engine) loadConfig(ctx context.Context) (Config, solana.PublicKey, error) {
	addr, err := e.configAddr()
	if err != nil {
		return Config{}, solana.PublicKey{}, err
	}
	var cfg Config
	found, err := e.Backend.Get(ctx, addr, &cfg)
	if err != nil {
		return Config{}, solana.PublicKey{}, err
	}
	if !found {
		return Config{}, solana.PublicKey{}, vaulterr.New("loadConfig", vaulterr.KindNotFound, errors.New("config not initialized"))
	}
	return cfg, addr, nil
}

func (e *Engine) loadBinding(ctx context.Context, config solana.PublicKey) (VaultTokenAccountConfig, solana.PublicKey, error) {
	d, err := pda.VaultTokenAccountConfigAddress(e.ProgramID, config)
	if err != nil {
		return VaultTokenAccountConfig{}, solana.PublicKey{}, err
	}
	var b VaultTokenAccountConfig
	found, err := e.Backend.Get(ctx, d.Address, &b)
	if err != nil {
		return VaultTokenAccountConfig{}, solana.PublicKey{}, err
	}
	if !found {
		return VaultTokenAccountConfig{}, solana.PublicKey{}, vaulterr.New("loadBinding", vaulterr.KindInvalidVaultTokenAccount, errors.New("vault token account not configured"))
	}
	return b, d.Address, nil
}

func (e *Engine) resolve(ctx context.Context, cfg Config, caller solana.PublicKey) (guard.Level, error) {
	return guard.Resolve(ctx, e.Meta, guard.AdminSets{
		FreezeAdministrators:  cfg.FreezeAdministrators,
		RewardsAdministrators: cfg.RewardsAdministrators,
	}, caller)
}

func (e *Engine) requireUpgradeAuthority(ctx context.Context, cfg Config, caller solana.PublicKey, op string) error {
	lvl, err := e.resolve(ctx, cfg, caller)
	if err != nil {
		return err
	}
	if lvl != guard.LevelUpgradeAuthority {
		return vaulterr.New(op, vaulterr.KindUnauthorized, nil)
	}
	return nil
}

func (e *Engine) requireRewardsAdmin(ctx context.Context, cfg Config, caller solana.PublicKey, op string) error {
	lvl, err := e.resolve(ctx, cfg, caller)
	if err != nil {
		return err
	}
	if lvl != guard.LevelUpgradeAuthority && lvl != guard.LevelRewardsAdmin {
		return vaulterr.New(op, vaulterr.KindUnauthorized, nil)
	}
	return nil
}

func (e *Engine) requireFreezeAdmin(ctx context.Context, cfg Config, caller solana.PublicKey, op string) error {
	lvl, err := e.resolve(ctx, cfg, caller)
	if err != nil {
		return err
	}
	if lvl != guard.LevelUpgradeAuthority && lvl != guard.LevelFreezeAdmin {
		return vaulterr.New(op, vaulterr.KindUnauthorized, nil)
	}
	return nil
}

func (e *Engine) checkNotPausedForUser(cfg Config, op string) error {
	if cfg.Paused {
		return vaulterr.New(op, vaulterr.KindProtocolPaused, nil)
	}
	return nil
}

func mintAuthorityAddress(e *Engine) (solana.PublicKey, error) {
	d, err := pda.MintAuthority(e.ProgramID)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return d.Address, nil
}

func freezeAuthorityAddress(e *Engine) (solana.PublicKey, error) {
	d, err := pda.FreezeAuthority(e.ProgramID)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return d.Address, nil
}

func redeemVaultAuthorityAddress(e *Engine) (solana.PublicKey, error) {
	d, err := pda.RedeemVaultAuthority(e.ProgramID)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return d.Address, nil
}
