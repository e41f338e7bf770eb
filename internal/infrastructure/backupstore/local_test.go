package backupstore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billmaker-api/internal/domain"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/backupstore"
	"github.com/jhoicas/billmaker-api/pkg/config"
)

// ─── LocalStore ────────────────────────────────────────────────────────────

func TestLocalStore_PutGetListDelete(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "backups")
	s, err := backupstore.NewLocalStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "b.json", []byte(`{"b":1}`)))
	require.NoError(t, s.Put(ctx, "a.json.gz", []byte{0x1f, 0x8b}))
	// sobrescribe
	require.NoError(t, s.Put(ctx, "b.json", []byte(`{"b":2}`)))

	got, err := s.Get(ctx, "b.json")
	require.NoError(t, err)
	assert.Equal(t, `{"b":2}`, string(got))

	// temporales y subdirectorios no se listan
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tmp-x"), []byte("x"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o750))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a.json.gz", list[0].Name)
	assert.Equal(t, int64(2), list[0].Size)
	assert.Equal(t, "b.json", list[1].Name)

	require.NoError(t, s.Delete(ctx, "b.json"))
	require.NoError(t, s.Delete(ctx, "b.json"))
	_, err = s.Get(ctx, "b.json")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestLocalStore_RechazaRutas(t *testing.T) {
	ctx := context.Background()
	s, err := backupstore.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../x.json", "sub/x.json", ".oculto"} {
		err := s.Put(ctx, name, []byte("x"))
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), name)
	}
	_, err = backupstore.NewLocalStore("")
	assert.Error(t, err)
}

// ─── S3Store ───────────────────────────────────────────────────────────────

func TestNewS3Store_Validaciones(t *testing.T) {
	ctx := context.Background()

	_, err := backupstore.NewS3Store(ctx, config.S3Config{AccessKey: "k", SecretKey: "s"})
	assert.Error(t, err)
	_, err = backupstore.NewS3Store(ctx, config.S3Config{Bucket: "b"})
	assert.Error(t, err)

	s, err := backupstore.NewS3Store(ctx, config.S3Config{
		Endpoint:     "localhost:9000",
		Bucket:       "billmaker",
		AccessKey:    "minio",
		SecretKey:    "minio123",
		UsePathStyle: true,
		Prefix:       "backups/",
	})
	require.NoError(t, err)
	assert.NotNil(t, s)
}
