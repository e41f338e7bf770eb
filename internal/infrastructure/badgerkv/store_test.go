package badgerkv_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billmaker-api/internal/infrastructure/badgerkv"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/kvstore"
)

func TestStore_EnMemoria(t *testing.T) {
	ctx := context.Background()
	s, err := badgerkv.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Set(ctx, "unifyx:b", []byte("2")))
	require.NoError(t, s.Set(ctx, "unifyx:a", []byte("1")))
	require.NoError(t, s.Set(ctx, "otro:z", []byte("3")))

	v, ok, err := s.Get(ctx, "unifyx:a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", string(v))

	keys, err := s.Keys(ctx, "unifyx:")
	require.NoError(t, err)
	assert.Equal(t, []string{"unifyx:a", "unifyx:b"}, keys)

	require.NoError(t, s.Delete(ctx, "unifyx:a"))
	_, ok, err = s.Get(ctx, "unifyx:a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Delete(ctx, "no-existe"))
}

func TestStore_PersisteEnDisco(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := badgerkv.Open(dir)
	require.NoError(t, err)
	dm := kvstore.NewDataManager(s, kvstore.Options{})
	require.NoError(t, dm.Save(ctx, "products", []string{"chai"}))
	require.NoError(t, s.Close())

	s, err = badgerkv.Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	var out []string
	found, err := kvstore.NewDataManager(s, kvstore.Options{}).Load(ctx, "products", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"chai"}, out)
}
