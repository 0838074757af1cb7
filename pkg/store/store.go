// Package store implements PDA-addressed record persistence: the in-memory
// Backend used by the engines' tests and an optional Postgres-backed
// Backend (see postgres.go) for cmd/vaultd. Records are borsh-encoded
// (near/borsh-go) keyed by their derived address, matching spec.md §6's
// "All persisted records are borsh-encoded with a leading discriminator"
// as closely as a Go service outside the BPF loader can: the address
// remains the primary key and Create still fails on collision, which is
// the property the protocol's mutual-exclusion invariants actually depend
// on (spec.md §9).
package store

import (
	"context"
	"reflect"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"

	"github.com/solvault/engine/pkg/vaulterr"
)

// Backend is the PDA-addressed record store the engines depend on.
type Backend interface {
	// Create writes value at addr, failing with vaulterr.KindAlreadyExists
	// if a record is already present there. This is the sole mutual-
	// exclusion primitive behind RedemptionAlreadyOpen, TicketAlreadyOpen,
	// AlreadyClaimed and DuplicateRewardId.
	Create(ctx context.Context, addr solana.PublicKey, value any) error

	// Put is an idempotent upsert, used only for the mutable Config and
	// account-binding records.
	Put(ctx context.Context, addr solana.PublicKey, value any) error

	// Get decodes the record at addr into out, reporting found=false (no
	// error) if nothing is stored there.
	Get(ctx context.Context, addr solana.PublicKey, out any) (found bool, err error)

	// Has reports whether a record exists at addr without decoding it.
	Has(ctx context.Context, addr solana.PublicKey) (bool, error)

	// Delete removes the record at addr. Deleting an absent record is not
	// an error (closing an already-closed ticket/request never happens in
	// practice since engines always check existence first, but Delete
	// itself is not the place to enforce that).
	Delete(ctx context.Context, addr solana.PublicKey) error
}

// Memory is an in-memory Backend, safe for concurrent use via a single
// mutex — the Go-native stand-in for "serialised across invocations that
// touch overlapping accounts" (spec.md §5).
type Memory struct {
	mu   sync.Mutex
	data map[solana.PublicKey][]byte
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{data: make(map[solana.PublicKey][]byte)}
}

func (m *Memory) Create(ctx context.Context, addr solana.PublicKey, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[addr]; ok {
		return vaulterr.New("store.Create", vaulterr.KindAlreadyExists, nil)
	}
	enc, err := encode(value)
	if err != nil {
		return err
	}
	m.data[addr] = enc
	return nil
}

func (m *Memory) Put(ctx context.Context, addr solana.PublicKey, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	enc, err := encode(value)
	if err != nil {
		return err
	}
	m.data[addr] = enc
	return nil
}

func (m *Memory) Get(ctx context.Context, addr solana.PublicKey, out any) (bool, error) {
	m.mu.Lock()
	enc, ok := m.data[addr]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := borsh.Deserialize(out, enc); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) Has(ctx context.Context, addr solana.PublicKey) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[addr]
	return ok, nil
}

func (m *Memory) Delete(ctx context.Context, addr solana.PublicKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, addr)
	return nil
}

// encode borsh-encodes the record value points to. borsh-go writes a
// pointer as an Option (a presence byte before the value), while Get
// decodes into the pointed-to type directly, so the pointer is
// dereferenced before serializing.
func encode(value any) ([]byte, error) {
	return borsh.Serialize(reflect.Indirect(reflect.ValueOf(value)).Interface())
}

var _ Backend = (*Memory)(nil)
