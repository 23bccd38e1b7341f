package storefront

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type dashboardMocks struct {
	users    *MockUserRepository
	profiles *MockProfileRepository
	orders   *MockOrderRepository
	carts    *MockCartRepository
}

func newDashboardService() (*DashboardService, *dashboardMocks) {
	m := &dashboardMocks{
		users:    new(MockUserRepository),
		profiles: new(MockProfileRepository),
		orders:   new(MockOrderRepository),
		carts:    new(MockCartRepository),
	}
	return NewDashboardService(m.users, m.profiles, m.orders, m.carts, zap.NewNop()), m
}

func newDashboardUser(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("shopper@example.com", "secret123", 6)
	require.NoError(t, err)
	user.CreatedAt = time.Date(2023, 6, 15, 10, 0, 0, 0, time.UTC)
	return user
}

func TestDashboardService_Dashboard(t *testing.T) {
	ctx := context.Background()
	svc, m := newDashboardService()
	user := newDashboardUser(t)
	viewer := &Viewer{UserID: user.ID, Email: user.Email}
	profile, err := identity.NewProfile(user.ID, user.Email, "Jane Doe")
	require.NoError(t, err)

	orderID := uuid.MustParse("a1b2c3d4-e5f6-7890-abcd-ef1234567890")
	recent := []order.Order{{
		BaseEntity:  shared.BaseEntity{ID: orderID, CreatedAt: time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)},
		UserID:      user.ID,
		TotalAmount: decimal.RequireFromString("42.5"),
		Status:      order.StatusShipped,
		Items: []order.OrderItem{
			{ProductName: "Mug", Quantity: 2, Price: decimal.NewFromInt(10)},
			{ProductName: "Tee", Quantity: 1, Price: decimal.RequireFromString("22.5")},
		},
	}}

	m.users.On("FindByID", ctx, user.ID).Return(user, nil)
	m.profiles.On("FindByID", ctx, user.ID).Return(profile, nil)
	m.orders.On("CountByUser", ctx, user.ID).Return(int64(7), nil)
	m.carts.On("CountByUser", ctx, user.ID).Return(int64(2), nil)
	m.orders.On("FindRecentByUser", ctx, user.ID, order.RecentLimit).Return(recent, nil)

	got, err := svc.Dashboard(ctx, viewer)
	require.NoError(t, err)

	want := &Dashboard{
		Welcome:     "Welcome back, Jane Doe!",
		FullName:    "Jane Doe",
		Email:       "shopper@example.com",
		MemberSince: 2023,
		OrdersCount: 7,
		CartCount:   2,
		RecentOrders: []RecentOrder{{
			ID:          orderID,
			ShortID:     "#a1b2c3d4",
			ItemCount:   2,
			ItemsLabel:  "2 items",
			Date:        "3/5/2024",
			CreatedAt:   recent[0].CreatedAt,
			Total:       decimal.RequireFromString("42.5"),
			TotalLabel:  "$42.50",
			Status:      "shipped",
			StatusLabel: "Shipped",
			Products:    []string{"Mug", "Tee"},
		}},
	}
	opts := cmp.Options{
		cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
		cmpopts.EquateEmpty(),
	}
	if diff := cmp.Diff(want, got, opts); diff != "" {
		t.Errorf("Dashboard() mismatch (-want +got):\n%s", diff)
	}
}

func TestDashboardService_MissingProfileAndFailures(t *testing.T) {
	ctx := context.Background()
	svc, m := newDashboardService()
	user := newDashboardUser(t)

	m.users.On("FindByID", ctx, user.ID).Return(user, nil)
	m.profiles.On("FindByID", ctx, user.ID).Return(nil, shared.ErrNotFound)
	m.orders.On("CountByUser", ctx, user.ID).Return(int64(0), errors.New("timeout"))
	m.carts.On("CountByUser", ctx, user.ID).Return(int64(4), nil)
	m.orders.On("FindRecentByUser", ctx, user.ID, order.RecentLimit).Return(nil, errors.New("timeout"))

	got, err := svc.Dashboard(ctx, &Viewer{UserID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, "Welcome back, Customer!", got.Welcome)
	assert.Zero(t, got.OrdersCount)
	assert.Equal(t, int64(4), got.CartCount)
	assert.Empty(t, got.RecentOrders)
	assert.Equal(t, "No orders yet", got.EmptyOrders)
}

func TestDashboardService_RequiresSignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("no session", func(t *testing.T) {
		svc, _ := newDashboardService()
		_, err := svc.Dashboard(ctx, nil)
		assert.ErrorIs(t, err, ErrSignInRequired)
	})

	t.Run("deleted user", func(t *testing.T) {
		svc, m := newDashboardService()
		id := uuid.New()
		m.users.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Dashboard(ctx, &Viewer{UserID: id})
		assert.ErrorIs(t, err, ErrSignInRequired)
	})
}
