package vault_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solvault/engine/pkg/merkle"
	"github.com/solvault/engine/pkg/vaulterr"
)

func newEpochFixture(t *testing.T) (*fixture, *merkle.Tree, []merkle.Allocation) {
	t.Helper()
	f := newFixture(t)
	allocs := []merkle.Allocation{
		{User: f.user, Amount: 500, EpochIndex: 0},
		{User: testKey(0x20), Amount: 1_500, EpochIndex: 0},
	}
	tree := merkle.BuildTree(allocs)
	require.NoError(t, f.engine.CreateRewardsEpoch(context.Background(), f.upgradeAuth, 0, tree.Root(), 2_000, 1_700_000_000))
	return f, tree, allocs
}

func TestClaimRewards_ValidProofMintsAmount(t *testing.T) {
	f, tree, allocs := newEpochFixture(t)
	ctx := context.Background()

	proof := tree.ProveLeaf(0)
	require.NoError(t, f.engine.ClaimRewards(ctx, f.user, f.userDeriv, 0, allocs[0].Amount, proof))

	bal, err := f.ledger.BalanceOf(ctx, f.userDeriv)
	require.NoError(t, err)
	require.Equal(t, allocs[0].Amount, bal)
}

func TestClaimRewards_RejectsSecondClaim(t *testing.T) {
	f, tree, allocs := newEpochFixture(t)
	ctx := context.Background()
	proof := tree.ProveLeaf(0)

	require.NoError(t, f.engine.ClaimRewards(ctx, f.user, f.userDeriv, 0, allocs[0].Amount, proof))
	err := f.engine.ClaimRewards(ctx, f.user, f.userDeriv, 0, allocs[0].Amount, proof)
	require.Equal(t, vaulterr.KindAlreadyClaimed, vaulterr.KindOf(err))
}

func TestClaimRewards_RejectsWrongAmount(t *testing.T) {
	f, tree, allocs := newEpochFixture(t)
	proof := tree.ProveLeaf(0)

	err := f.engine.ClaimRewards(context.Background(), f.user, f.userDeriv, 0, allocs[0].Amount+1, proof)
	require.Equal(t, vaulterr.KindInvalidProof, vaulterr.KindOf(err))
}

func TestClaimRewards_RejectsUnknownEpoch(t *testing.T) {
	f, tree, allocs := newEpochFixture(t)
	proof := tree.ProveLeaf(0)

	err := f.engine.ClaimRewards(context.Background(), f.user, f.userDeriv, 1, allocs[0].Amount, proof)
	require.Equal(t, vaulterr.KindEpochMissing, vaulterr.KindOf(err))
}

func TestCreateRewardsEpoch_RejectsDuplicateIndex(t *testing.T) {
	f, tree, _ := newEpochFixture(t)
	err := f.engine.CreateRewardsEpoch(context.Background(), f.upgradeAuth, 0, tree.Root(), 2_000, 1_700_000_100)
	require.Equal(t, vaulterr.KindDuplicateRewardID, vaulterr.KindOf(err))
}

func TestCreateRewardsEpoch_RejectsNonRewardsAdmin(t *testing.T) {
	f := newFixture(t)
	err := f.engine.CreateRewardsEpoch(context.Background(), f.user, 0, [32]byte{}, 1, 1_700_000_000)
	require.Equal(t, vaulterr.KindUnauthorized, vaulterr.KindOf(err))
}
