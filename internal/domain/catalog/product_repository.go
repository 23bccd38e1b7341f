package catalog

import (
	"context"

	"github.com/google/uuid"
)

// FeaturedLimit is the number of newest products shown on the home page
const FeaturedLimit = 8

// ProductQuery selects products for listing pages.
// Results are always ordered newest first.
type ProductQuery struct {
	// Search matches a case-insensitive substring of the product name
	Search string
	// CategoryID restricts results to one category
	CategoryID *uuid.UUID
	// ActiveOnly excludes products with is_active = false
	ActiveOnly bool
	// Limit caps the result size; zero means no limit
	Limit int
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID with its category
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// List returns products matching the query with their categories
	List(ctx context.Context, query ProductQuery) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}
