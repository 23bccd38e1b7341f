package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var ErrProductNotFound = shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")

// Metrics records add-to-cart outcomes. A nil Metrics is allowed.
type Metrics interface {
	RecordCartAdd(ctx context.Context, err error)
}

// AddItemInput is an add-to-cart request
type AddItemInput struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int // zero means 1
}

// AddItemResult is the cart line after the add and the new header count
type AddItemResult struct {
	ItemID    uuid.UUID `json:"item_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CartCount int64     `json:"cart_count"`
}

// CartService adds products to a user's cart
type CartService struct {
	cartRepo    cart.CartRepository
	productRepo catalog.ProductRepository
	metrics     Metrics
	logger      *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(cartRepo cart.CartRepository, productRepo catalog.ProductRepository, metrics Metrics, logger *zap.Logger) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		metrics:     metrics,
		logger:      logger,
	}
}

// AddItem adds a product to the cart, merging into an existing line for the same product.
// Stock is checked against the merged quantity before the write commits.
func (s *CartService) AddItem(ctx context.Context, input AddItemInput) (result *AddItemResult, err error) {
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordCartAdd(ctx, err)
		}
	}()

	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 || quantity > cart.MaxQuantity {
		return nil, cart.ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		s.logger.Error("Failed to load product", zap.String("product_id", input.ProductID.String()), zap.Error(err))
		return nil, shared.ErrUnknown
	}

	if err := product.CheckAvailable(quantity); err != nil {
		return nil, err
	}
	line, err := cart.NewCartItem(input.UserID, input.ProductID, quantity)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.AddQuantity(ctx, line, func(total int) error {
		if total > cart.MaxQuantity {
			return cart.ErrInvalidQuantity
		}
		return product.CheckAvailable(total)
	})
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		s.logger.Error("Failed to save cart line", zap.String("user_id", input.UserID.String()), zap.Error(err))
		return nil, shared.ErrUnknown
	}

	count, err := s.cartRepo.CountByUser(ctx, input.UserID)
	if err != nil {
		s.logger.Warn("Failed to count cart items", zap.String("user_id", input.UserID.String()), zap.Error(err))
		count = 0
	}

	s.logger.Info("Added to cart",
		zap.String("user_id", input.UserID.String()),
		zap.String("product_id", input.ProductID.String()),
		zap.Int("quantity", item.Quantity),
	)

	return &AddItemResult{
		ItemID:    item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		CartCount: count,
	}, nil
}

// Count returns the number of lines in the user's cart
func (s *CartService) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.cartRepo.CountByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to count cart items", zap.String("user_id", userID.String()), zap.Error(err))
		return 0, shared.ErrUnknown
	}
	return count, nil
}
