package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCartRepository is a mock implementation of cart.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCartRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*cart.CartItem, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

// AddQuantity returns the stubbed merged line, or item itself for a fresh insert,
// and applies check to it as the real repository does before committing.
func (m *MockCartRepository) AddQuantity(ctx context.Context, item *cart.CartItem, check cart.QuantityCheck) (*cart.CartItem, error) {
	args := m.Called(ctx, item)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	merged := item
	if args.Get(0) != nil {
		merged = args.Get(0).(*cart.CartItem)
	}
	if err := check(merged.Quantity); err != nil {
		return nil, err
	}
	return merged, nil
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, query catalog.ProductQuery) ([]catalog.Product, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

type recordingMetrics struct{ errs []error }

func (r *recordingMetrics) RecordCartAdd(_ context.Context, err error) { r.errs = append(r.errs, err) }

func newStockedProduct(t *testing.T, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("Mug", decimal.NewFromInt(8), stock)
	require.NoError(t, err)
	return p
}

func TestCartService_AddItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	anyLine := mock.AnythingOfType("*cart.CartItem")

	t.Run("new line defaults to one", func(t *testing.T) {
		carts, products := new(MockCartRepository), new(MockProductRepository)
		metrics := &recordingMetrics{}
		svc := NewCartService(carts, products, metrics, zap.NewNop())
		product := newStockedProduct(t, 10)

		products.On("FindByID", ctx, product.ID).Return(product, nil)
		carts.On("AddQuantity", ctx, anyLine).Return(nil, nil)
		carts.On("CountByUser", ctx, userID).Return(int64(1), nil)

		result, err := svc.AddItem(ctx, AddItemInput{UserID: userID, ProductID: product.ID})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Quantity)
		assert.Equal(t, int64(1), result.CartCount)
		assert.Equal(t, []error{nil}, metrics.errs)

		added := carts.Calls[0].Arguments.Get(1).(*cart.CartItem)
		assert.Equal(t, userID, added.UserID)
		assert.Equal(t, product.ID, added.ProductID)
		assert.Equal(t, 1, added.Quantity)
	})

	t.Run("existing line is merged", func(t *testing.T) {
		carts, products := new(MockCartRepository), new(MockProductRepository)
		svc := NewCartService(carts, products, nil, zap.NewNop())
		product := newStockedProduct(t, 10)
		merged, err := cart.NewCartItem(userID, product.ID, 5)
		require.NoError(t, err)

		products.On("FindByID", ctx, product.ID).Return(product, nil)
		carts.On("AddQuantity", ctx, anyLine).Return(merged, nil)
		carts.On("CountByUser", ctx, userID).Return(int64(1), nil)

		result, err := svc.AddItem(ctx, AddItemInput{UserID: userID, ProductID: product.ID, Quantity: 3})
		require.NoError(t, err)
		assert.Equal(t, merged.ID, result.ItemID)
		assert.Equal(t, 5, result.Quantity)
	})

	t.Run("out of stock", func(t *testing.T) {
		carts, products := new(MockCartRepository), new(MockProductRepository)
		svc := NewCartService(carts, products, nil, zap.NewNop())
		product := newStockedProduct(t, 0)

		products.On("FindByID", ctx, product.ID).Return(product, nil)

		_, err := svc.AddItem(ctx, AddItemInput{UserID: userID, ProductID: product.ID})
		require.Error(t, err)
		assert.Equal(t, "Product is out of stock", err.Error())
		carts.AssertNotCalled(t, "AddQuantity", mock.Anything, mock.Anything)
	})

	t.Run("merged quantity exceeds stock", func(t *testing.T) {
		carts, products := new(MockCartRepository), new(MockProductRepository)
		svc := NewCartService(carts, products, nil, zap.NewNop())
		product := newStockedProduct(t, 4)
		merged, err := cart.NewCartItem(userID, product.ID, 5)
		require.NoError(t, err)

		products.On("FindByID", ctx, product.ID).Return(product, nil)
		carts.On("AddQuantity", ctx, anyLine).Return(merged, nil)

		_, err = svc.AddItem(ctx, AddItemInput{UserID: userID, ProductID: product.ID, Quantity: 2})
		require.Error(t, err)
		assert.Equal(t, "Only 4 left in stock", err.Error())
		carts.AssertNotCalled(t, "CountByUser", mock.Anything, mock.Anything)
	})

	t.Run("merged quantity exceeds line cap", func(t *testing.T) {
		carts, products := new(MockCartRepository), new(MockProductRepository)
		svc := NewCartService(carts, products, nil, zap.NewNop())
		product := newStockedProduct(t, 500)
		merged := &cart.CartItem{UserID: userID, ProductID: product.ID, Quantity: cart.MaxQuantity + 1}

		products.On("FindByID", ctx, product.ID).Return(product, nil)
		carts.On("AddQuantity", ctx, anyLine).Return(merged, nil)

		_, err := svc.AddItem(ctx, AddItemInput{UserID: userID, ProductID: product.ID})
		assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
	})

	t.Run("repository failure hides details", func(t *testing.T) {
		carts, products := new(MockCartRepository), new(MockProductRepository)
		metrics := &recordingMetrics{}
		svc := NewCartService(carts, products, metrics, zap.NewNop())
		product := newStockedProduct(t, 10)

		products.On("FindByID", ctx, product.ID).Return(product, nil)
		carts.On("AddQuantity", ctx, anyLine).Return(nil, errors.New("database is locked"))

		_, err := svc.AddItem(ctx, AddItemInput{UserID: userID, ProductID: product.ID})
		assert.ErrorIs(t, err, shared.ErrUnknown)
		require.Len(t, metrics.errs, 1)
		assert.Error(t, metrics.errs[0])
	})

	t.Run("inactive product", func(t *testing.T) {
		carts, products := new(MockCartRepository), new(MockProductRepository)
		svc := NewCartService(carts, products, nil, zap.NewNop())
		product := newStockedProduct(t, 4)
		product.IsActive = false

		products.On("FindByID", ctx, product.ID).Return(product, nil)

		_, err := svc.AddItem(ctx, AddItemInput{UserID: userID, ProductID: product.ID})
		assert.ErrorIs(t, err, catalog.ErrProductUnavailable)
	})

	t.Run("unknown product", func(t *testing.T) {
		carts, products := new(MockCartRepository), new(MockProductRepository)
		svc := NewCartService(carts, products, nil, zap.NewNop())
		id := uuid.New()
		products.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := svc.AddItem(ctx, AddItemInput{UserID: userID, ProductID: id})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("negative quantity", func(t *testing.T) {
		svc := NewCartService(new(MockCartRepository), new(MockProductRepository), nil, zap.NewNop())
		_, err := svc.AddItem(ctx, AddItemInput{UserID: userID, ProductID: uuid.New(), Quantity: -1})
		assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
	})
}

func TestCartService_Count(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	carts := new(MockCartRepository)
	svc := NewCartService(carts, new(MockProductRepository), nil, zap.NewNop())
	carts.On("CountByUser", ctx, userID).Return(int64(3), nil).Once()
	carts.On("CountByUser", ctx, userID).Return(int64(0), errors.New("db down")).Once()

	count, err := svc.Count(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	_, err = svc.Count(ctx, userID)
	assert.ErrorIs(t, err, shared.ErrUnknown)
}
