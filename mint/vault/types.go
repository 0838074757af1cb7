// Package vault implements the Mint Vault: 1:1 reserve↔derivative exchange
// with asynchronous two-phase redemption and Merkle-proof reward
// distribution (SPEC_FULL §4.2–§4.5, §4.9).
package vault

import "github.com/gagliardetto/solana-go"

// Config is the Mint Vault's singleton configuration record, addressed by
// pkg/pda.ConfigAddress.
type Config struct {
	ReserveMint                solana.PublicKey
	DerivativeMint              solana.PublicKey
	VaultAuthority              solana.PublicKey
	FreezeAdministrators        []solana.PublicKey
	RewardsAdministrators       []solana.PublicKey
	AllowedExternalMintProgram solana.PublicKey
	Paused                      bool
	Bump                        uint8
}

// VaultTokenAccountConfig is the reserve-account binding record, separated
// from Config so rotating the active reserve account never requires
// reinitializing configuration (spec.md §9).
type VaultTokenAccountConfig struct {
	ReserveAccount       solana.PublicKey
	RedeemReserveAccount solana.PublicKey
	Bump                 uint8
}

// RedemptionRequest is the single in-flight redemption ticket for a user.
// Its existence at the derived address is itself the "in-flight" flag.
type RedemptionRequest struct {
	User           solana.PublicKey
	Amount         uint64
	DerivativeMint solana.PublicKey
	Bump           uint8
}

// RewardsEpoch is an immutable reward-distribution window.
type RewardsEpoch struct {
	Index      uint64
	MerkleRoot [32]byte
	Total      uint64
	CreatedAt  int64
	Bump       uint8
}

// ClaimRecord is a permanent marker proving a (epoch, user) claim was
// consumed. It carries no data beyond its own existence.
type ClaimRecord struct {
	Bump uint8
}
