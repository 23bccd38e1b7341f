package order

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// CountByUser counts all orders placed by the user
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// FindRecentByUser returns the newest orders with items and product names
	FindRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Order, error)
}
