package kvrepo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billmaker-api/internal/domain"
	"github.com/jhoicas/billmaker-api/internal/domain/entity"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/kvrepo"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/kvstore"
)

func TestBusinessRepo_CRUDyOrden(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	repos := kvrepo.New(kvstore.NewDataManager(store, kvstore.Options{}))

	now := time.Now()
	b2 := &entity.Business{ID: "b2", Name: "Segundo", CreatedAt: now}
	b1 := &entity.Business{ID: "b1", Name: "Primero", CreatedAt: now.Add(-time.Hour)}
	require.NoError(t, repos.Businesses.Save(ctx, b2))
	require.NoError(t, repos.Businesses.Save(ctx, b1))

	list, err := repos.Businesses.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b1", list[0].ID)

	// las copias devueltas no comparten memoria con la caché
	got, err := repos.Businesses.GetByID(ctx, "b1")
	require.NoError(t, err)
	got.Name = "mutado"
	again, _ := repos.Businesses.GetByID(ctx, "b1")
	assert.Equal(t, "Primero", again.Name)

	require.NoError(t, repos.Businesses.Delete(ctx, "b2"))
	_, err = repos.Businesses.GetByID(ctx, "b2")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.True(t, errors.Is(repos.Businesses.Delete(ctx, "b2"), domain.ErrNotFound))

	// una instancia nueva sobre el mismo backend reconstruye la caché
	fresh := kvrepo.New(kvstore.NewDataManager(store, kvstore.Options{}))
	list, err = fresh.Businesses.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Primero", list[0].Name)
}

func TestProductRepo_SaveManyYReplaceAll(t *testing.T) {
	ctx := context.Background()
	dm := kvstore.NewDataManager(kvstore.NewMemoryStore(), kvstore.Options{})
	repos := kvrepo.New(dm)

	require.NoError(t, repos.Products.SaveMany(ctx, []*entity.Product{{ID: "p1"}, {ID: "p2"}}))
	require.NoError(t, repos.Products.SaveMany(ctx, nil))
	list, err := repos.Products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, repos.Products.ReplaceAll(ctx, []*entity.Product{{ID: "p9"}}))
	list, err = repos.Products.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p9", list[0].ID)
}

func TestRepositories_ReloadTrasClear(t *testing.T) {
	ctx := context.Background()
	dm := kvstore.NewDataManager(kvstore.NewMemoryStore(), kvstore.Options{})
	repos := kvrepo.New(dm)

	require.NoError(t, repos.Invoices.Save(ctx, &entity.Invoice{ID: "i1"}))
	require.NoError(t, dm.Clear(ctx))
	repos.Reload()

	list, err := repos.Invoices.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
