package guard_test

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/solvault/engine/pkg/guard"
)

func key(b byte) solana.PublicKey {
	var pk solana.PublicKey
	pk[0] = b
	return pk
}

func TestResolve_PriorityOrder(t *testing.T) {
	upgradeAuthority := key(1)
	freezeAdmin := key(2)
	rewardsAdmin := key(3)
	user := key(4)

	meta := guard.StaticProgramMetadata{Authority: upgradeAuthority}
	admins := guard.AdminSets{
		FreezeAdministrators:  []solana.PublicKey{freezeAdmin},
		RewardsAdministrators: []solana.PublicKey{rewardsAdmin},
	}

	level, err := guard.Resolve(context.Background(), meta, admins, upgradeAuthority)
	require.NoError(t, err)
	require.Equal(t, guard.LevelUpgradeAuthority, level)

	level, err = guard.Resolve(context.Background(), meta, admins, freezeAdmin)
	require.NoError(t, err)
	require.Equal(t, guard.LevelFreezeAdmin, level)

	level, err = guard.Resolve(context.Background(), meta, admins, rewardsAdmin)
	require.NoError(t, err)
	require.Equal(t, guard.LevelRewardsAdmin, level)

	level, err = guard.Resolve(context.Background(), meta, admins, user)
	require.NoError(t, err)
	require.Equal(t, guard.LevelUser, level)
}

func TestResolve_UpgradeAuthorityOutranksOverlappingAdminEntry(t *testing.T) {
	upgradeAuthority := key(1)
	meta := guard.StaticProgramMetadata{Authority: upgradeAuthority}
	admins := guard.AdminSets{
		FreezeAdministrators: []solana.PublicKey{upgradeAuthority},
	}

	level, err := guard.Resolve(context.Background(), meta, admins, upgradeAuthority)
	require.NoError(t, err)
	require.Equal(t, guard.LevelUpgradeAuthority, level, "the upgrade authority must resolve at its own level even if it is also listed as an admin")
}

func TestDedupAdministrators_PreservesFirstSeenOrder(t *testing.T) {
	a, b, c := key(1), key(2), key(3)
	out := guard.DedupAdministrators([]solana.PublicKey{a, b, a, c, b})
	require.Equal(t, []solana.PublicKey{a, b, c}, out)
}

func TestDedupAdministrators_Empty(t *testing.T) {
	out := guard.DedupAdministrators(nil)
	require.Empty(t, out)
}
