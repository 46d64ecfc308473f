package category

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/db/dbtest"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/db/models"
	pkgerrors "github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/errors"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	svc, err := NewService(repo, client)
	require.NoError(t, err)
	return svc, repo
}

func TestServiceListOrdersByName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Vapes", "Edibles", "Flower"} {
		_, err := svc.Create(ctx, name)
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Edibles", list[0].Name)
	assert.Equal(t, "Flower", list[1].Name)
	assert.Equal(t, "Vapes", list[2].Name)
}

func TestServiceCreateTrimsAndRejectsBlank(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "  Pre-Rolls ")
	require.NoError(t, err)
	assert.Equal(t, "Pre-Rolls", created.Name)
	assert.NotEqual(t, uuid.Nil, created.ID)

	_, err = svc.Create(ctx, "   ")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestServiceCreateDuplicateIsConflict(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "Flower")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "Flower")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.Equal(t, ErrDuplicateName, typed.Message())

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestServiceRename(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	flower, err := svc.Create(ctx, "Flower")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Edibles")
	require.NoError(t, err)

	renamed, err := svc.Rename(ctx, flower.ID, "Flowers")
	require.NoError(t, err)
	assert.Equal(t, "Flowers", renamed.Name)

	_, err = svc.Rename(ctx, flower.ID, "Edibles")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	_, err = svc.Rename(ctx, uuid.New(), "Ghost")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestServiceDeleteRemovesProductLinks(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	flower, err := svc.Create(ctx, "Flower")
	require.NoError(t, err)

	product := &models.Product{Name: "Blue Dream"}
	dbtest.MustCreate(t, repo.db, product)
	dbtest.MustCreate(t, repo.db, &models.ProductCategory{ProductID: product.ID, CategoryID: flower.ID})

	require.NoError(t, svc.Delete(ctx, flower.ID))

	var links int64
	require.NoError(t, repo.db.Model(&models.ProductCategory{}).Count(&links).Error)
	assert.Zero(t, links)

	err = svc.Delete(ctx, flower.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
