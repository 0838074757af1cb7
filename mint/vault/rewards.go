package vault

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/solvault/engine/pkg/merkle"
	"github.com/solvault/engine/pkg/pda"
	"github.com/solvault/engine/pkg/vaulterr"
	"github.com/solvault/engine/pkg/vaultmetrics"
)

// CreateRewardsEpoch registers an immutable reward-distribution window
// (spec.md §4.5). Rewards-admin signed; fails if index already exists.
func (e *Engine) CreateRewardsEpoch(ctx context.Context, caller solana.PublicKey, index uint64, root [32]byte, total uint64, now int64) error {
	const op = "mint.CreateRewardsEpoch"

	cfg, _, err := e.loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := e.requireRewardsAdmin(ctx, cfg, caller, op); err != nil {
		return err
	}

	epochAddr, err := pda.EpochAddress(e.ProgramID, index)
	if err != nil {
		return err
	}
	epoch := RewardsEpoch{Index: index, MerkleRoot: root, Total: total, CreatedAt: now, Bump: epochAddr.Bump}
	if err := e.Backend.Create(ctx, epochAddr.Address, &epoch); err != nil {
		if vaulterr.Is(err, vaulterr.KindAlreadyExists) {
			return vaulterr.New(op, vaulterr.KindDuplicateRewardID, nil)
		}
		return err
	}

	e.Log.Info("mint vault rewards epoch created", "index", index, "total", total)
	return nil
}

// ClaimRewards verifies a Merkle inclusion proof for (caller, amount,
// epochIndex), mints amount derivative to the caller, and permanently marks
// the claim consumed (spec.md §4.5).
func (e *Engine) ClaimRewards(ctx context.Context, caller, userDerivativeAccount solana.PublicKey, epochIndex, amount uint64, proof []merkle.ProofStep) error {
	const op = "mint.ClaimRewards"

	cfg, _, err := e.loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := e.checkNotPausedForUser(cfg, op); err != nil {
		return err
	}

	epochAddr, err := pda.EpochAddress(e.ProgramID, epochIndex)
	if err != nil {
		return err
	}
	var epoch RewardsEpoch
	found, err := e.Backend.Get(ctx, epochAddr.Address, &epoch)
	if err != nil {
		return err
	}
	if !found {
		return vaulterr.New(op, vaulterr.KindEpochMissing, nil)
	}

	leaf := merkle.Leaf(caller, amount, epochIndex)
	if !merkle.VerifyProof(leaf, proof, epoch.MerkleRoot) {
		return vaulterr.New(op, vaulterr.KindInvalidProof, nil)
	}

	frozen, err := e.Ledger.IsFrozen(ctx, userDerivativeAccount)
	if err != nil {
		return err
	}
	if frozen {
		return vaulterr.New(op, vaulterr.KindAccountFrozen, nil)
	}

	claimAddr, err := pda.ClaimAddress(e.ProgramID, epochAddr.Address, caller)
	if err != nil {
		return err
	}
	claim := ClaimRecord{Bump: claimAddr.Bump}
	if err := e.Backend.Create(ctx, claimAddr.Address, &claim); err != nil {
		if vaulterr.Is(err, vaulterr.KindAlreadyExists) {
			return vaulterr.New(op, vaulterr.KindAlreadyClaimed, nil)
		}
		return err
	}

	mintAuthority, err := mintAuthorityAddress(e)
	if err != nil {
		return err
	}
	if err := e.Ledger.MintTo(ctx, cfg.DerivativeMint, userDerivativeAccount, mintAuthority, amount); err != nil {
		return err
	}

	vaultmetrics.RewardsClaimedTotal.Inc()
	e.Log.Info("mint vault rewards claimed", "user", caller.String(), "epoch", epochIndex, "amount", amount)
	return nil
}
