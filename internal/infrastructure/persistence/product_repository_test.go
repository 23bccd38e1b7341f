package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productNames(products []catalog.Product) []string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	return names
}

func TestGormProductRepository_List(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormProductRepository(db)

	mugs := seedCategory(t, db, "Mugs")
	shirts := seedCategory(t, db, "Shirts")
	seedProduct(t, db, "Blue Mug", 3*time.Hour, true, mugs)
	seedProduct(t, db, "Red Mug", 1*time.Hour, true, mugs)
	seedProduct(t, db, "Logo Shirt", 2*time.Hour, true, shirts)
	seedProduct(t, db, "Retired Mug", 0, false, mugs)

	t.Run("active only, newest first, with category", func(t *testing.T) {
		products, err := repo.List(ctx, catalog.ProductQuery{ActiveOnly: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"Red Mug", "Logo Shirt", "Blue Mug"}, productNames(products))
		assert.Equal(t, "Mugs", products[0].CategoryName())
	})

	t.Run("search is case-insensitive substring", func(t *testing.T) {
		products, err := repo.List(ctx, catalog.ProductQuery{ActiveOnly: true, Search: "mUg"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Red Mug", "Blue Mug"}, productNames(products))
	})

	t.Run("wildcards in search are literal", func(t *testing.T) {
		products, err := repo.List(ctx, catalog.ProductQuery{ActiveOnly: true, Search: "%"})
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("category filter", func(t *testing.T) {
		products, err := repo.List(ctx, catalog.ProductQuery{ActiveOnly: true, CategoryID: &shirts.ID})
		require.NoError(t, err)
		assert.Equal(t, []string{"Logo Shirt"}, productNames(products))
	})

	t.Run("limit", func(t *testing.T) {
		products, err := repo.List(ctx, catalog.ProductQuery{ActiveOnly: true, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})

	t.Run("inactive included when not filtered", func(t *testing.T) {
		products, err := repo.List(ctx, catalog.ProductQuery{})
		require.NoError(t, err)
		assert.Len(t, products, 4)
	})
}

func TestGormProductRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormProductRepository(db)

	seeded := seedProduct(t, db, "Plain Mug", 0, true, nil)

	p, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "19.99", p.Price.StringFixed(2))
	assert.Equal(t, "", p.CategoryName())

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormCategoryRepository_FindAllOrderedByName(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormCategoryRepository(db)

	seedCategory(t, db, "Toys")
	seedCategory(t, db, "Books")

	categories, err := repo.FindAllOrderedByName(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Books", categories[0].Name)
	assert.Equal(t, "Toys", categories[1].Name)

	found, err := repo.FindByID(ctx, categories[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Toys", found.Name)
}
