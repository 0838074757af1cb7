// Package guard implements the authority/pause gate applied before every
// mutating operation (SPEC_FULL §4.1): upgrade authority, freeze
// administrator, rewards administrator, user — resolved in that priority
// order.
package guard

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// Level is one of the four authority tiers; values ascend with privilege,
// from LevelUser to LevelUpgradeAuthority (LevelNone is the zero value).
type Level int

const (
	LevelNone Level = iota
	LevelUser
	LevelRewardsAdmin
	LevelFreezeAdmin
	LevelUpgradeAuthority
)

// ProgramMetadata stands in for the host's program-deployment metadata
// lookup (spec.md §6): "upgrade-authority lookup from program-deployment
// metadata". Rotating it is an external-runtime concern out of scope here.
type ProgramMetadata interface {
	UpgradeAuthority(ctx context.Context) (solana.PublicKey, error)
}

// StaticProgramMetadata is a fixed-authority ProgramMetadata, sufficient
// since this repo does not implement upgrade-authority rotation itself.
type StaticProgramMetadata struct {
	Authority solana.PublicKey
}

func (s StaticProgramMetadata) UpgradeAuthority(ctx context.Context) (solana.PublicKey, error) {
	return s.Authority, nil
}

// AdminSets is the pair of administrator lists every config record carries.
type AdminSets struct {
	FreezeAdministrators  []solana.PublicKey
	RewardsAdministrators []solana.PublicKey
}

func contains(list []solana.PublicKey, k solana.PublicKey) bool {
	for _, a := range list {
		if a == k {
			return true
		}
	}
	return false
}

// Resolve returns the highest authority level the caller holds.
func Resolve(ctx context.Context, meta ProgramMetadata, admins AdminSets, caller solana.PublicKey) (Level, error) {
	upgradeAuthority, err := meta.UpgradeAuthority(ctx)
	if err != nil {
		return LevelNone, err
	}
	if caller == upgradeAuthority {
		return LevelUpgradeAuthority, nil
	}
	if contains(admins.FreezeAdministrators, caller) {
		return LevelFreezeAdmin, nil
	}
	if contains(admins.RewardsAdministrators, caller) {
		return LevelRewardsAdmin, nil
	}
	return LevelUser, nil
}

// MaxAdministrators is the cap enforced on both administrator lists
// (spec.md §4.1: "len ≤ 5").
const MaxAdministrators = 5

// DedupAdministrators returns admins with duplicates removed, preserving
// first-seen order — administrator list updates are "idempotent in the
// element set" (spec.md §4.1).
func DedupAdministrators(admins []solana.PublicKey) []solana.PublicKey {
	seen := make(map[solana.PublicKey]bool, len(admins))
	out := make([]solana.PublicKey, 0, len(admins))
	for _, a := range admins {
		if seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}
