package cart

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// MaxQuantity caps a single cart line
const MaxQuantity = 99

// ErrInvalidQuantity is returned for non-positive or oversized quantities
var ErrInvalidQuantity = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be between 1 and 99")

// CartItem is one product line in a user's cart
type CartItem struct {
	shared.BaseEntity
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}

// NewCartItem creates a cart line for the user
func NewCartItem(userID, productID uuid.UUID, quantity int) (*CartItem, error) {
	if userID == uuid.Nil || productID == uuid.Nil {
		return nil, shared.ErrInvalidInput
	}
	if quantity < 1 || quantity > MaxQuantity {
		return nil, ErrInvalidQuantity
	}
	return &CartItem{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		ProductID:  productID,
		Quantity:   quantity,
	}, nil
}
