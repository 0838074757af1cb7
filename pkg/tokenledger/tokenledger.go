// Package tokenledger defines the abstract token-ledger interface the vault
// core consumes (SPEC_FULL §6 / spec.md §1 "external collaborators"): create
// mint, create account, transfer, mint-to, burn, freeze/thaw, set-authority.
// The host's real implementation (the on-chain SPL-token-equivalent module)
// is out of scope; this package also ships the in-memory reference
// implementation used by the engines' tests and by cmd/vaultd's default
// wiring.
package tokenledger

import (
	"context"
	"errors"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/solvault/engine/pkg/vaulterr"
)

// Ledger is the token-ledger primitive set the engines depend on. All
// amounts are unsigned 64-bit minor units (spec.md §3).
type Ledger interface {
	CreateMint(ctx context.Context, mint solana.PublicKey, decimals uint8, mintAuthority solana.PublicKey) error
	CreateAccount(ctx context.Context, account, mint, owner solana.PublicKey) error

	Transfer(ctx context.Context, from, to solana.PublicKey, authority solana.PublicKey, amount uint64) error
	MintTo(ctx context.Context, mint, to, authority solana.PublicKey, amount uint64) error
	Burn(ctx context.Context, mint, from, authority solana.PublicKey, amount uint64) error

	SetAccountOwner(ctx context.Context, account, newOwner, currentAuthority solana.PublicKey) error

	// Approve grants delegate the right to move up to amount out of account
	// on the owner's behalf, without transferring ownership — the
	// mechanism request_redeem uses so complete_redeem's admin-signed burn
	// can act on a derivative account it does not own (spec.md §4.4: the
	// derivative "is left in the user's account", never escrowed).
	Approve(ctx context.Context, account, delegate, owner solana.PublicKey, amount uint64) error

	Freeze(ctx context.Context, account, mint, freezeAuthority solana.PublicKey) error
	Thaw(ctx context.Context, account, mint, freezeAuthority solana.PublicKey) error

	BalanceOf(ctx context.Context, account solana.PublicKey) (uint64, error)
	MintOf(ctx context.Context, account solana.PublicKey) (solana.PublicKey, error)
	OwnerOf(ctx context.Context, account solana.PublicKey) (solana.PublicKey, error)
	SupplyOf(ctx context.Context, mint solana.PublicKey) (uint64, error)
	IsFrozen(ctx context.Context, account solana.PublicKey) (bool, error)
}

type mintState struct {
	decimals      uint8
	mintAuthority solana.PublicKey
	supply        uint64
}

type accountState struct {
	mint            solana.PublicKey
	owner           solana.PublicKey
	amount          uint64
	frozen          bool
	created         bool
	delegate        solana.PublicKey
	delegatedAmount uint64
	hasDelegate     bool
}

// Memory is an in-memory reference Ledger, safe for concurrent use. It is
// the default token ledger wired into cmd/vaultd and the engines' tests.
type Memory struct {
	mu       sync.Mutex
	mints    map[solana.PublicKey]*mintState
	accounts map[solana.PublicKey]*accountState
}

// NewMemory returns an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{
		mints:    make(map[solana.PublicKey]*mintState),
		accounts: make(map[solana.PublicKey]*accountState),
	}
}

func (m *Memory) CreateMint(ctx context.Context, mint solana.PublicKey, decimals uint8, mintAuthority solana.PublicKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.mints[mint]; ok {
		return vaulterr.New("CreateMint", vaulterr.KindAlreadyExists, nil)
	}
	m.mints[mint] = &mintState{decimals: decimals, mintAuthority: mintAuthority}
	return nil
}

func (m *Memory) CreateAccount(ctx context.Context, account, mint, owner solana.PublicKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account]; ok {
		return vaulterr.New("CreateAccount", vaulterr.KindAlreadyExists, nil)
	}
	if _, ok := m.mints[mint]; !ok {
		return vaulterr.New("CreateAccount", vaulterr.KindInvalidMint, errors.New("unknown mint"))
	}
	m.accounts[account] = &accountState{mint: mint, owner: owner, created: true}
	return nil
}

func (m *Memory) get(account solana.PublicKey) (*accountState, error) {
	a, ok := m.accounts[account]
	if !ok {
		return nil, vaulterr.New("tokenledger", vaulterr.KindNotFound, errors.New("unknown account"))
	}
	return a, nil
}

func (m *Memory) Transfer(ctx context.Context, from, to, authority solana.PublicKey, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	src, err := m.get(from)
	if err != nil {
		return err
	}
	dst, err := m.get(to)
	if err != nil {
		return err
	}
	if src.frozen {
		return vaulterr.New("Transfer", vaulterr.KindAccountFrozen, nil)
	}
	if src.owner != authority {
		return vaulterr.New("Transfer", vaulterr.KindUnauthorized, nil)
	}
	if src.amount < amount {
		return vaulterr.New("Transfer", vaulterr.KindInsufficientBalance, nil)
	}
	src.amount -= amount
	dst.amount += amount
	return nil
}

func (m *Memory) MintTo(ctx context.Context, mint, to, authority solana.PublicKey, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.mints[mint]
	if !ok {
		return vaulterr.New("MintTo", vaulterr.KindInvalidMint, errors.New("unknown mint"))
	}
	if ms.mintAuthority != authority {
		return vaulterr.New("MintTo", vaulterr.KindUnauthorized, nil)
	}
	dst, err := m.get(to)
	if err != nil {
		return err
	}
	if dst.mint != mint {
		return vaulterr.New("MintTo", vaulterr.KindInvalidMint, errors.New("destination account mint mismatch"))
	}
	if dst.frozen {
		return vaulterr.New("MintTo", vaulterr.KindAccountFrozen, nil)
	}
	newSupply := ms.supply + amount
	if newSupply < ms.supply {
		return vaulterr.New("MintTo", vaulterr.KindOverflow, nil)
	}
	ms.supply = newSupply
	dst.amount += amount
	return nil
}

func (m *Memory) Burn(ctx context.Context, mint, from, authority solana.PublicKey, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.mints[mint]
	if !ok {
		return vaulterr.New("Burn", vaulterr.KindInvalidMint, errors.New("unknown mint"))
	}
	src, err := m.get(from)
	if err != nil {
		return err
	}
	if src.mint != mint {
		return vaulterr.New("Burn", vaulterr.KindInvalidMint, errors.New("source account mint mismatch"))
	}
	switch {
	case src.owner == authority:
		// owner-signed burn.
	case src.hasDelegate && src.delegate == authority:
		if src.delegatedAmount < amount {
			return vaulterr.New("Burn", vaulterr.KindUnauthorized, errors.New("delegated amount exhausted"))
		}
		src.delegatedAmount -= amount
	default:
		return vaulterr.New("Burn", vaulterr.KindUnauthorized, nil)
	}
	if src.frozen {
		return vaulterr.New("Burn", vaulterr.KindAccountFrozen, nil)
	}
	if src.amount < amount {
		return vaulterr.New("Burn", vaulterr.KindInsufficientBalance, nil)
	}
	src.amount -= amount
	ms.supply -= amount
	return nil
}

// Approve sets account's delegate and delegated allowance. Approving zero
// clears any existing delegate.
func (m *Memory) Approve(ctx context.Context, account, delegate, owner solana.PublicKey, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, err := m.get(account)
	if err != nil {
		return err
	}
	if a.owner != owner {
		return vaulterr.New("Approve", vaulterr.KindUnauthorized, nil)
	}
	a.delegate = delegate
	a.delegatedAmount = amount
	a.hasDelegate = amount > 0
	return nil
}

func (m *Memory) SetAccountOwner(ctx context.Context, account, newOwner, currentAuthority solana.PublicKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, err := m.get(account)
	if err != nil {
		return err
	}
	if a.owner != currentAuthority {
		return vaulterr.New("SetAccountOwner", vaulterr.KindUnauthorized, nil)
	}
	a.owner = newOwner
	return nil
}

func (m *Memory) Freeze(ctx context.Context, account, mint, freezeAuthority solana.PublicKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, err := m.get(account)
	if err != nil {
		return err
	}
	if a.mint != mint {
		return vaulterr.New("Freeze", vaulterr.KindInvalidMint, nil)
	}
	a.frozen = true
	return nil
}

func (m *Memory) Thaw(ctx context.Context, account, mint, freezeAuthority solana.PublicKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, err := m.get(account)
	if err != nil {
		return err
	}
	if a.mint != mint {
		return vaulterr.New("Thaw", vaulterr.KindInvalidMint, nil)
	}
	a.frozen = false
	return nil
}

func (m *Memory) BalanceOf(ctx context.Context, account solana.PublicKey) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, err := m.get(account)
	if err != nil {
		return 0, err
	}
	return a.amount, nil
}

func (m *Memory) MintOf(ctx context.Context, account solana.PublicKey) (solana.PublicKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, err := m.get(account)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return a.mint, nil
}

func (m *Memory) OwnerOf(ctx context.Context, account solana.PublicKey) (solana.PublicKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, err := m.get(account)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return a.owner, nil
}

func (m *Memory) SupplyOf(ctx context.Context, mint solana.PublicKey) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.mints[mint]
	if !ok {
		return 0, vaulterr.New("SupplyOf", vaulterr.KindInvalidMint, errors.New("unknown mint"))
	}
	return ms.supply, nil
}

func (m *Memory) IsFrozen(ctx context.Context, account solana.PublicKey) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, err := m.get(account)
	if err != nil {
		return false, err
	}
	return a.frozen, nil
}

var _ Ledger = (*Memory)(nil)
