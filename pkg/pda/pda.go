// Package pda computes program-derived addresses for every record in the
// vault protocol's data model, grounded on solana-go's off-curve address
// derivation (the same algorithm the host runtime uses, so an address
// computed here is byte-identical to what a deployed program would derive).
package pda

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// Derived is a program-derived address together with the bump seed that
// produced it.
type Derived struct {
	Address solana.PublicKey
	Bump    uint8
}

func find(programID solana.PublicKey, seeds ...[]byte) (Derived, error) {
	addr, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		return Derived{}, err
	}
	return Derived{Address: addr, Bump: bump}, nil
}

func u64le(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

// --- Mint Vault seeds ---

// ConfigAddress derives the singleton Mint Vault config address.
func ConfigAddress(programID solana.PublicKey) (Derived, error) {
	return find(programID, []byte("config"))
}

// VaultTokenAccountConfigAddress derives the Mint Vault's active
// reserve-account binding record, keyed on the config address.
func VaultTokenAccountConfigAddress(programID, config solana.PublicKey) (Derived, error) {
	return find(programID, []byte("vault_token_account_config"), config.Bytes())
}

// RedemptionRequestAddress derives the single in-flight redemption request
// for a user.
func RedemptionRequestAddress(programID, user solana.PublicKey) (Derived, error) {
	return find(programID, []byte("redemption_request"), user.Bytes())
}

// EpochAddress derives a rewards epoch record by its index.
func EpochAddress(programID solana.PublicKey, index uint64) (Derived, error) {
	return find(programID, []byte("epoch"), u64le(index))
}

// ClaimAddress derives the permanent per-(epoch,user) claim marker.
func ClaimAddress(programID, epoch, user solana.PublicKey) (Derived, error) {
	return find(programID, []byte("claim"), epoch.Bytes(), user.Bytes())
}

// MintAuthority derives the Mint Vault's mint-authority identity.
func MintAuthority(programID solana.PublicKey) (Derived, error) {
	return find(programID, []byte("mint_authority"))
}

// FreezeAuthority derives the Mint Vault's freeze-authority identity.
func FreezeAuthority(programID solana.PublicKey) (Derived, error) {
	return find(programID, []byte("freeze_authority"))
}

// VaultAuthority derives the Mint Vault's reserve-account owner identity.
func VaultAuthority(programID solana.PublicKey) (Derived, error) {
	return find(programID, []byte("vault_authority"))
}

// RedeemVaultAuthority derives the identity authorised to move funds out of
// the redeem-reserve account.
func RedeemVaultAuthority(programID solana.PublicKey) (Derived, error) {
	return find(programID, []byte("redeem_vault_authority"))
}

// --- Stake Vault seeds ---

// StakeConfigAddress derives the singleton Stake Vault config address.
func StakeConfigAddress(programID solana.PublicKey) (Derived, error) {
	return find(programID, []byte("stake_config"))
}

// StakeVaultTokenAccountConfigAddress derives the Stake Vault's active
// reserve-account binding record.
func StakeVaultTokenAccountConfigAddress(programID, stakeConfig solana.PublicKey) (Derived, error) {
	return find(programID, []byte("stake_vault_token_account_config"), stakeConfig.Bytes())
}

// TicketAddress derives a user's unbonding ticket.
func TicketAddress(programID, user solana.PublicKey) (Derived, error) {
	return find(programID, []byte("ticket"), user.Bytes())
}

// RewardRecordAddress derives a reward publication record, keyed on the
// (id, amount) pair so a duplicate publication collides at the address
// level rather than requiring an explicit duplicate check.
func RewardRecordAddress(programID solana.PublicKey, id uint32, amount uint64) (Derived, error) {
	return find(programID, []byte("reward_record"), u32le(id), u64le(amount))
}

// ExternalMintAuthority derives the Stake Vault's capability-narrowed
// external-mint identity. PublishRewards does not use it: it identifies
// itself to the Mint Vault by the Stake Vault's program ID.
func ExternalMintAuthority(stakeProgramID solana.PublicKey) (Derived, error) {
	return find(stakeProgramID, []byte("external_mint_authority"))
}

// StakeMintAuthority derives the Stake Vault's own mint-authority identity,
// distinct from ExternalMintAuthority (see SPEC_FULL §4.8 / §9).
func StakeMintAuthority(stakeProgramID solana.PublicKey) (Derived, error) {
	return find(stakeProgramID, []byte("mint_authority"))
}

// StakeFreezeAuthority derives the Stake Vault's freeze-authority identity.
func StakeFreezeAuthority(stakeProgramID solana.PublicKey) (Derived, error) {
	return find(stakeProgramID, []byte("freeze_authority"))
}
