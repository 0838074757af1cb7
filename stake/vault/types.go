// Package vault implements the Stake Vault: virtual-offset share
// accounting, time-locked unbond/redeem, and cross-program reward
// publication (SPEC_FULL §4.6–§4.8).
package vault

import "github.com/gagliardetto/solana-go"

// StakeConfig is the Stake Vault's singleton configuration record.
type StakeConfig struct {
	ReserveMint           solana.PublicKey // the derivative token the pool holds
	ShareMint             solana.PublicKey // the share token the pool issues
	UnbondingPeriodSeconds int64
	FreezeAdministrators  []solana.PublicKey
	RewardsAdministrators []solana.PublicKey
	Paused                bool
	Bump                  uint8
}

// StakeVaultTokenAccountConfig is the active reserve-account binding,
// separated from StakeConfig for the same cycle-breaking reason as the
// Mint Vault's binding record (spec.md §9).
type StakeVaultTokenAccountConfig struct {
	ReserveAccount solana.PublicKey
	VaultAuthority solana.PublicKey
	Bump           uint8
}

// UnbondingTicket records a user's in-flight unbond: the shares are already
// burned, but their payout is priced against the pool state at redeem time,
// not at unbond time (spec.md §4.7).
type UnbondingTicket struct {
	Owner           solana.PublicKey
	RequestedShares uint64
	StartTimestamp  int64
	Bump            uint8
}

// RewardPublicationRecord marks a (id, amount) reward publication as
// consumed; its address collision is the sole idempotence guard.
type RewardPublicationRecord struct {
	ID        uint32
	Amount    uint64
	Timestamp int64
	Bump      uint8
}
