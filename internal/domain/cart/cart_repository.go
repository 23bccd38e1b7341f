package cart

import (
	"context"

	"github.com/google/uuid"
)

// QuantityCheck validates the merged quantity of a line before it is committed
type QuantityCheck func(total int) error

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// CountByUser counts the user's cart lines
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// FindByUserAndProduct finds the user's line for a product
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*CartItem, error)

	// AddQuantity atomically inserts the line or adds its quantity to the user's
	// existing line for the product. The write is rolled back when check rejects
	// the merged quantity, and check's error is returned unchanged.
	AddQuantity(ctx context.Context, item *CartItem, check QuantityCheck) (*CartItem, error)
}
