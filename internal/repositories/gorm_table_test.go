package repositories_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"orbio/internal/models"
	"orbio/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupGORM opens a private in-memory SQLite database and migrates every table.
func setupGORM(t *testing.T) *repositories.Set {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	client := repositories.NewGORMTableClient(db, models.Tables()...)
	require.NoError(t, client.Migrate())
	return repositories.NewSet(client, nil)
}

func TestGORMProductLifecycle(t *testing.T) {
	ctx := context.Background()
	repos := setupGORM(t)

	created, err := repos.Products.Create(ctx, tumbler())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, int64(25000), created.Price)

	got, err := repos.Products.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Specifications, got.Specifications)
	assert.Equal(t, created.Features, got.Features)

	name := "Tumbler 500ml"
	updated, err := repos.Products.Update(ctx, created.ID, models.ProductPatch{
		Name:           &name,
		Specifications: &models.Specifications{Material: "stainless steel", Capacity: "500ml"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Tumbler 500ml", updated.Name)
	assert.Equal(t, "500ml", updated.Specifications.Capacity)
	assert.Equal(t, int64(25000), updated.Price)

	require.NoError(t, repos.Products.Delete(ctx, created.ID))
	_, err = repos.Products.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, repos.Products.Delete(ctx, created.ID), repositories.ErrNotFound)
}

func TestGORMEmptyTable(t *testing.T) {
	events, err := setupGORM(t).Events.GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestGORMUpdateMissingRow(t *testing.T) {
	_, err := setupGORM(t).Orders.UpdateStatus(context.Background(), "missing", models.OrderShipped)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMInventoryStock(t *testing.T) {
	ctx := context.Background()
	repos := setupGORM(t)

	item, err := repos.Inventory.Create(ctx, &models.InventoryItem{
		SKU: "TB-500", ProductName: "Tumbler 500ml", CurrentStock: 30, MinStock: 10, MaxStock: 300,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StockLow, item.Status)

	out, err := repos.Inventory.UpdateStock(ctx, item.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, models.StockOut, out.Status)

	outs, err := repos.Inventory.GetByStatus(ctx, models.StockOut)
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, "TB-500", outs[0].SKU)
}

func TestGORMTagAndFlagFilters(t *testing.T) {
	ctx := context.Background()
	repos := setupGORM(t)

	now := time.Now().UTC()
	for _, p := range []models.BlogPost{
		{Title: "A", Content: "x", Author: "ORBIO", PublishedAt: now.Add(-time.Hour), Tags: []string{"eco", "care"}, Featured: true},
		{Title: "B", Content: "y", Author: "ORBIO", PublishedAt: now, Tags: []string{"ecology"}},
	} {
		p := p
		_, err := repos.Blog.Create(ctx, &p)
		require.NoError(t, err)
	}

	eco, err := repos.Blog.GetByTag(ctx, "eco")
	require.NoError(t, err)
	require.Len(t, eco, 1)
	assert.Equal(t, "A", eco[0].Title)

	featured, err := repos.Blog.GetFeatured(ctx)
	require.NoError(t, err)
	require.Len(t, featured, 1)

	all, err := repos.Blog.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "B", all[0].Title)
}

func TestGORMTagFilterIsLiteral(t *testing.T) {
	ctx := context.Background()
	repos := setupGORM(t)

	for _, p := range []models.BlogPost{
		{Title: "Sale", Content: "x", Author: "ORBIO", Tags: []string{"50%_off"}},
		{Title: "Plain", Content: "y", Author: "ORBIO", Tags: []string{"50xoff"}},
	} {
		p := p
		_, err := repos.Blog.Create(ctx, &p)
		require.NoError(t, err)
	}

	sale, err := repos.Blog.GetByTag(ctx, "50%_off")
	require.NoError(t, err)
	require.Len(t, sale, 1)
	assert.Equal(t, "Sale", sale[0].Title)

	wildcard, err := repos.Blog.GetByTag(ctx, "5_%")
	require.NoError(t, err)
	assert.Empty(t, wildcard)

	underscore, err := repos.Blog.GetByTag(ctx, "50_off")
	require.NoError(t, err)
	assert.Empty(t, underscore)
}

func TestGORMDuplicateCredentialIsConflict(t *testing.T) {
	ctx := context.Background()
	repos := setupGORM(t)

	_, err := repos.Credentials.Create(ctx, &models.Credential{Email: "admin@orbio.com", PasswordHash: "h"})
	require.NoError(t, err)
	_, err = repos.Credentials.Create(ctx, &models.Credential{Email: "admin@orbio.com", PasswordHash: "h"})
	assert.Equal(t, repositories.CodeConflict, repositories.CodeOf(err))
}
