package replay_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farconic/custody-api/internal/domain"
	"github.com/farconic/custody-api/internal/logger"
	"github.com/farconic/custody-api/internal/replay"
)

func init() {
	logger.InitLogger()
}

func TestGuard_ConsumeOnce(t *testing.T) {
	guard, err := replay.NewGuard(nil)
	require.NoError(t, err)

	uid := domain.NewUID()
	assert.False(t, guard.IsConsumed(uid))

	fresh, err := guard.Consume(uid)
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.True(t, guard.IsConsumed(uid))

	fresh, err = guard.Consume(uid)
	require.NoError(t, err)
	assert.False(t, fresh, "second consume of the same uid must fail")
}

func TestGuard_IndependentUIDs(t *testing.T) {
	guard, err := replay.NewGuard(nil)
	require.NoError(t, err)

	first, err := guard.Consume(domain.NewUID())
	require.NoError(t, err)
	second, err := guard.Consume(domain.NewUID())
	require.NoError(t, err)

	assert.True(t, first)
	assert.True(t, second)
}

func TestGuard_SurvivesRestartWithLevelStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replay")

	store, err := replay.OpenLevelStore(path)
	require.NoError(t, err)
	guard, err := replay.NewGuard(store)
	require.NoError(t, err)

	uid := domain.NewUID()
	fresh, err := guard.Consume(uid)
	require.NoError(t, err)
	require.True(t, fresh)
	require.NoError(t, guard.Close())

	// Reopen: the uid must still be burned.
	store, err = replay.OpenLevelStore(path)
	require.NoError(t, err)
	guard, err = replay.NewGuard(store)
	require.NoError(t, err)
	defer guard.Close()

	assert.True(t, guard.IsConsumed(uid))
	fresh, err = guard.Consume(uid)
	require.NoError(t, err)
	assert.False(t, fresh)

	fresh, err = guard.Consume(domain.NewUID())
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestLevelStore_HasAndAll(t *testing.T) {
	store, err := replay.OpenLevelStore(filepath.Join(t.TempDir(), "replay"))
	require.NoError(t, err)
	defer store.Close()

	uid := domain.NewUID()
	ok, err := store.Has(uid)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(uid))
	ok, err = store.Has(uid)
	require.NoError(t, err)
	assert.True(t, ok)

	all, err := store.All()
	require.NoError(t, err)
	assert.Equal(t, []domain.UID{uid}, all)
}
