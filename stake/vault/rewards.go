package vault

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/solvault/engine/pkg/pda"
	"github.com/solvault/engine/pkg/vaulterr"
	"github.com/solvault/engine/pkg/vaultmetrics"
)

// PublishRewards records a (id, amount) reward publication and invokes the
// Mint Vault's reward-mint entry point under the Stake Vault's own program
// identity, minting amount derivative directly into the active reserve
// account and raising the exchange rate for all holders (spec.md §4.8).
//
// The publication record is created before the cross-program call so a
// duplicate (id, amount) is rejected before any minting is attempted; if
// the external mint call fails, the record is rolled back so a retried
// publication with the same (id, amount) is not permanently blocked by a
// publication that never actually took effect.
func (e *Engine) PublishRewards(ctx context.Context, caller, reserveAccount solana.PublicKey, id uint32, amount uint64, now int64) error {
	const op = "stake.PublishRewards"

	if amount == 0 {
		return vaulterr.New(op, vaulterr.KindZeroAmount, nil)
	}

	cfg, configAddr, err := e.loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := e.requireRewardsAdmin(ctx, cfg, caller, op); err != nil {
		return err
	}

	binding, _, err := e.loadBinding(ctx, configAddr)
	if err != nil {
		return err
	}
	if binding.ReserveAccount != reserveAccount {
		return vaulterr.New(op, vaulterr.KindInvalidVaultTokenAccount, nil)
	}

	recordAddr, err := pda.RewardRecordAddress(e.ProgramID, id, amount)
	if err != nil {
		return err
	}
	record := RewardPublicationRecord{ID: id, Amount: amount, Timestamp: now, Bump: recordAddr.Bump}
	if err := e.Backend.Create(ctx, recordAddr.Address, &record); err != nil {
		if vaulterr.Is(err, vaulterr.KindAlreadyExists) {
			return vaulterr.New(op, vaulterr.KindDuplicateRewardID, nil)
		}
		return err
	}

	if err := e.Minter.ExternalProgramMint(ctx, e.ProgramID, reserveAccount, amount); err != nil {
		// The nested call failed: roll back the publication record so this
		// exact (id, amount) can be retried (spec.md §5's "if the callee
		// fails, the entire transaction including the reward-record
		// creation is rolled back").
		_ = e.Backend.Delete(ctx, recordAddr.Address)
		if vaulterr.Is(err, vaulterr.KindProtocolPaused) {
			return vaulterr.New(op, vaulterr.KindProtocolPaused, nil)
		}
		return vaulterr.New(op, vaulterr.KindCrossProgramCallRejected, err)
	}

	vaultmetrics.RewardsPublishedTotal.Inc()
	e.Log.Info("stake vault rewards published", "id", id, "amount", amount)
	return nil
}
