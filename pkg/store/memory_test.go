package store_test

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/solvault/engine/pkg/store"
	"github.com/solvault/engine/pkg/vaulterr"
)

type record struct {
	Amount uint64
	Flag   bool
}

func addr(b byte) solana.PublicKey {
	var pk solana.PublicKey
	pk[0] = b
	return pk
}

func TestMemory_Create_RejectsCollision(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	a := addr(1)

	require.NoError(t, m.Create(ctx, a, &record{Amount: 1}))
	err := m.Create(ctx, a, &record{Amount: 2})
	require.Equal(t, vaulterr.KindAlreadyExists, vaulterr.KindOf(err))
}

func TestMemory_Get_RoundTrips(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	a := addr(1)
	require.NoError(t, m.Create(ctx, a, &record{Amount: 42, Flag: true}))

	var out record
	found, err := m.Get(ctx, a, &out)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, record{Amount: 42, Flag: true}, out)
}

func TestMemory_Get_AbsentReturnsNotFoundWithoutError(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	var out record
	found, err := m.Get(ctx, addr(9), &out)
	require.NoError(t, err)
	require.False(t, found)
}

func TestMemory_Put_Upserts(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	a := addr(1)
	require.NoError(t, m.Put(ctx, a, &record{Amount: 1}))
	require.NoError(t, m.Put(ctx, a, &record{Amount: 2}))

	var out record
	found, err := m.Get(ctx, a, &out)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, uint64(2), out.Amount)
}

func TestMemory_Delete_ThenAbsent(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	a := addr(1)
	require.NoError(t, m.Create(ctx, a, &record{Amount: 1}))
	require.NoError(t, m.Delete(ctx, a))

	has, err := m.Has(ctx, a)
	require.NoError(t, err)
	require.False(t, has)

	// Creating again at the same address after delete must succeed — this
	// is what lets a closed ticket/redemption address be reopened.
	require.NoError(t, m.Create(ctx, a, &record{Amount: 2}))
}
