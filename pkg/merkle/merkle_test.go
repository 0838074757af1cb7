package merkle_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/solvault/engine/pkg/merkle"
)

func randKey(b byte) solana.PublicKey {
	var pk solana.PublicKey
	for i := range pk {
		pk[i] = b
	}
	return pk
}

func TestBuildTree_ProveLeaf_VerifiesForEveryLeaf(t *testing.T) {
	allocations := []merkle.Allocation{
		{User: randKey(1), Amount: 100, EpochIndex: 0},
		{User: randKey(2), Amount: 200, EpochIndex: 0},
		{User: randKey(3), Amount: 300, EpochIndex: 0},
		{User: randKey(4), Amount: 400, EpochIndex: 0},
		{User: randKey(5), Amount: 500, EpochIndex: 0},
	}
	tree := merkle.BuildTree(allocations)
	root := tree.Root()

	for i, a := range allocations {
		leaf := merkle.Leaf(a.User, a.Amount, a.EpochIndex)
		proof := tree.ProveLeaf(i)
		require.True(t, merkle.VerifyProof(leaf, proof, root), "leaf %d must verify against the tree root", i)
	}
}

func TestVerifyProof_RejectsWrongAmount(t *testing.T) {
	allocations := []merkle.Allocation{
		{User: randKey(1), Amount: 100, EpochIndex: 0},
		{User: randKey(2), Amount: 200, EpochIndex: 0},
	}
	tree := merkle.BuildTree(allocations)
	root := tree.Root()
	proof := tree.ProveLeaf(0)

	tampered := merkle.Leaf(allocations[0].User, 999, allocations[0].EpochIndex)
	require.False(t, merkle.VerifyProof(tampered, proof, root))
}

func TestVerifyProof_RejectsWrongRoot(t *testing.T) {
	allocations := []merkle.Allocation{
		{User: randKey(1), Amount: 100, EpochIndex: 0},
		{User: randKey(2), Amount: 200, EpochIndex: 0},
	}
	tree := merkle.BuildTree(allocations)
	leaf := merkle.Leaf(allocations[0].User, allocations[0].Amount, allocations[0].EpochIndex)
	proof := tree.ProveLeaf(0)

	var wrongRoot [32]byte
	wrongRoot[0] = 0xff
	require.False(t, merkle.VerifyProof(leaf, proof, wrongRoot))
}

func TestBuildTree_SingleLeaf_RootEqualsLeaf(t *testing.T) {
	a := merkle.Allocation{User: randKey(7), Amount: 42, EpochIndex: 3}
	tree := merkle.BuildTree([]merkle.Allocation{a})
	leaf := merkle.Leaf(a.User, a.Amount, a.EpochIndex)
	require.Equal(t, leaf, tree.Root())
	require.Empty(t, tree.ProveLeaf(0))
}
