package vault

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/solvault/engine/pkg/vaulterr"
)

// ExternalMinter is the narrow interface the Stake Vault depends on to
// publish rewards (SPEC_FULL §4.8 / spec.md §9's capability-narrowing
// pattern): it exposes only the one mint-into-account primitive, under the
// caller's own program identity, never the Mint Vault's full engine API.
type ExternalMinter interface {
	ExternalProgramMint(ctx context.Context, callerProgram, destination solana.PublicKey, amount uint64) error
}

// ExternalProgramMint implements ExternalMinter: it mints amount of
// derivative_mint directly into destination, reachable only by the program
// configured as AllowedExternalMintProgram and only targeting a derivative
// token account (spec.md §4.8).
func (e *Engine) ExternalProgramMint(ctx context.Context, callerProgram, destination solana.PublicKey, amount uint64) error {
	const op = "mint.ExternalProgramMint"

	cfg, _, err := e.loadConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.Paused {
		return vaulterr.New(op, vaulterr.KindProtocolPaused, nil)
	}
	if callerProgram != cfg.AllowedExternalMintProgram {
		return vaulterr.New(op, vaulterr.KindCrossProgramCallRejected, nil)
	}

	destMint, err := e.Ledger.MintOf(ctx, destination)
	if err != nil {
		return err
	}
	if destMint != cfg.DerivativeMint {
		return vaulterr.New(op, vaulterr.KindCrossProgramCallRejected, nil)
	}

	mintAuthority, err := mintAuthorityAddress(e)
	if err != nil {
		return err
	}
	if err := e.Ledger.MintTo(ctx, cfg.DerivativeMint, destination, mintAuthority, amount); err != nil {
		return err
	}

	e.Log.Info("mint vault external mint", "caller_program", callerProgram.String(), "destination", destination.String(), "amount", amount)
	return nil
}

var _ ExternalMinter = (*Engine)(nil)
