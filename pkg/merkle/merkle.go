// Package merkle implements the positional Merkle-proof convention used by
// the Mint Vault's rewards-claim subsystem (SPEC_FULL §4.5): leaves are
// SHA256(user || amount_le || epoch_index_le), and proof steps carry an
// explicit is_left flag rather than relying on sorted-pair hashing.
package merkle

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// ProofStep is one sibling hash plus the position it occupies relative to
// the node being folded.
type ProofStep struct {
	Sibling [32]byte
	IsLeft  bool
}

// Leaf constructs the leaf hash for a single allocation.
func Leaf(user solana.PublicKey, amount uint64, epochIndex uint64) [32]byte {
	buf := make([]byte, 32+8+8)
	copy(buf[0:32], user.Bytes())
	binary.LittleEndian.PutUint64(buf[32:40], amount)
	binary.LittleEndian.PutUint64(buf[40:48], epochIndex)
	return sha256.Sum256(buf)
}

// fold applies one proof step to a running node hash.
func fold(node [32]byte, step ProofStep) [32]byte {
	var buf [64]byte
	if step.IsLeft {
		copy(buf[0:32], step.Sibling[:])
		copy(buf[32:64], node[:])
	} else {
		copy(buf[0:32], node[:])
		copy(buf[32:64], step.Sibling[:])
	}
	return sha256.Sum256(buf[:])
}

// VerifyProof walks proof from leaf and reports whether the resulting root
// matches the epoch's recorded merkle_root.
func VerifyProof(leaf [32]byte, proof []ProofStep, root [32]byte) bool {
	node := leaf
	for _, step := range proof {
		node = fold(node, step)
	}
	return node == root
}

// Allocation is one leaf's worth of input to BuildTree.
type Allocation struct {
	User       solana.PublicKey
	Amount     uint64
	EpochIndex uint64
}

// Tree is a canonical positional Merkle tree built over a fixed leaf order.
// It is the Go-native counterpart to the original source's
// allocationsToMerkleTree helper (SPEC_FULL §4.5), used by epoch creation
// and by tests that need to manufacture valid proofs.
type Tree struct {
	levels [][][32]byte // levels[0] is the leaves, levels[len-1] is [root]
}

// BuildTree constructs a tree over allocations in the given order. Proofs
// produced by ProveLeaf are only valid against the tree built from the same
// order, since this is a positional (not sorted-pair) convention.
func BuildTree(allocations []Allocation) *Tree {
	leaves := make([][32]byte, len(allocations))
	for i, a := range allocations {
		leaves[i] = Leaf(a.User, a.Amount, a.EpochIndex)
	}
	return buildFromLeaves(leaves)
}

func buildFromLeaves(leaves [][32]byte) *Tree {
	if len(leaves) == 0 {
		return &Tree{levels: [][][32]byte{{{}}}}
	}
	t := &Tree{levels: [][][32]byte{leaves}}
	cur := leaves
	for len(cur) > 1 {
		next := make([][32]byte, 0, (len(cur)+1)/2)
		for i := 0; i < len(cur); i += 2 {
			if i+1 == len(cur) {
				// Odd node out is carried up unchanged.
				next = append(next, cur[i])
				continue
			}
			var buf [64]byte
			copy(buf[0:32], cur[i][:])
			copy(buf[32:64], cur[i+1][:])
			next = append(next, sha256.Sum256(buf[:]))
		}
		t.levels = append(t.levels, next)
		cur = next
	}
	return t
}

// Root returns the tree's root hash.
func (t *Tree) Root() [32]byte {
	top := t.levels[len(t.levels)-1]
	return top[0]
}

// ProveLeaf returns the positional proof for the leaf at index i.
func (t *Tree) ProveLeaf(i int) []ProofStep {
	var proof []ProofStep
	idx := i
	for level := 0; level < len(t.levels)-1; level++ {
		cur := t.levels[level]
		isRightChild := idx%2 == 1
		var siblingIdx int
		if isRightChild {
			siblingIdx = idx - 1
		} else {
			siblingIdx = idx + 1
		}
		if siblingIdx < len(cur) {
			// A right child's sibling sits to its left, so it must be
			// folded in as the left operand (IsLeft=true); a left child's
			// sibling sits to its right (IsLeft=false).
			proof = append(proof, ProofStep{
				Sibling: cur[siblingIdx],
				IsLeft:  isRightChild,
			})
		}
		idx /= 2
	}
	return proof
}
