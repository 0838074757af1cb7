// Package sharemath implements the Stake Vault's virtual-offset share
// accounting (SPEC_FULL §4.6). All intermediate arithmetic is carried out
// in 256-bit width via holiman/uint256 to avoid overflow ahead of the final
// truncation back to uint64.
package sharemath

import (
	"github.com/holiman/uint256"

	"github.com/solvault/engine/pkg/vaulterr"
)

// VirtualAssets and VirtualShares are the inflation-attack-resistance
// offsets added to the vault's real balances before every conversion.
//
// SPEC_FULL §3 resolves an inconsistency here: spec.md's prose gives
// effective_A = A+1, effective_S = S+10^6, but that formula cannot produce
// the worked numbers in spec.md §8 scenario 3 (a first deposit of
// 1,000,000 must yield exactly 1,000,000 shares). original_source's
// vault-stake/src/state.rs defines both offsets as 1_000_000, which does
// match every worked number in §8 — that is the convention used here.
const (
	VirtualAssets = 1_000_000
	VirtualShares = 1_000_000

	// RateScale is the fixed-point scale applied to ExchangeRate's result.
	RateScale = 1_000_000_000
)

func effective(balance uint64, offset uint64) *uint256.Int {
	return new(uint256.Int).AddUint64(uint256.NewInt(balance), offset)
}

func toUint64(op string, v *uint256.Int) (uint64, error) {
	if !v.IsUint64() {
		return 0, vaulterr.New(op, vaulterr.KindOverflow, nil)
	}
	return v.Uint64(), nil
}

// AssetsToShares converts a deposit amount of reserve assets into the
// number of shares it mints, given the pool's current total share supply
// and reserve balance (both measured *before* the deposit lands).
func AssetsToShares(assets, totalShares, vaultBalance uint64) (uint64, error) {
	effA := effective(vaultBalance, VirtualAssets)
	effS := effective(totalShares, VirtualShares)

	num := new(uint256.Int).Mul(uint256.NewInt(assets), effS)
	out := new(uint256.Int).Div(num, effA)
	return toUint64("AssetsToShares", out)
}

// SharesToAssets converts a number of shares into the reserve-asset payout
// they represent, given the pool's current total share supply and reserve
// balance.
func SharesToAssets(shares, totalShares, vaultBalance uint64) (uint64, error) {
	effA := effective(vaultBalance, VirtualAssets)
	effS := effective(totalShares, VirtualShares)

	num := new(uint256.Int).Mul(uint256.NewInt(shares), effA)
	out := new(uint256.Int).Div(num, effS)
	return toUint64("SharesToAssets", out)
}

// ExchangeRate returns assets-per-share scaled by RateScale.
func ExchangeRate(totalShares, vaultBalance uint64) (uint64, error) {
	effA := effective(vaultBalance, VirtualAssets)
	effS := effective(totalShares, VirtualShares)

	num := new(uint256.Int).Mul(effA, uint256.NewInt(RateScale))
	out := new(uint256.Int).Div(num, effS)
	return toUint64("ExchangeRate", out)
}
