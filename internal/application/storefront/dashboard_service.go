package storefront

import (
	"context"
	"errors"
	"fmt"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// OrderDateLayout renders order dates as month/day/year
const OrderDateLayout = "1/2/2006"

// ErrSignInRequired is returned when the dashboard is requested without a valid account
var ErrSignInRequired = shared.NewDomainError("UNAUTHORIZED", "Please sign in to continue")

// DashboardService assembles the customer dashboard
type DashboardService struct {
	userRepo    identity.UserRepository
	profileRepo identity.ProfileRepository
	orderRepo   order.OrderRepository
	cartRepo    cart.CartRepository
	logger      *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	userRepo identity.UserRepository,
	profileRepo identity.ProfileRepository,
	orderRepo order.OrderRepository,
	cartRepo cart.CartRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		logger:      logger,
	}
}

// Dashboard loads the profile, the order and cart counts, and the most recent orders.
// The two counts are fetched concurrently; missing data renders as zero or empty.
func (s *DashboardService) Dashboard(ctx context.Context, viewer *Viewer) (*Dashboard, error) {
	if viewer == nil {
		return nil, ErrSignInRequired
	}
	log := s.logger.With(zap.String("user_id", viewer.UserID.String()))

	user, err := s.userRepo.FindByID(ctx, viewer.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrSignInRequired
		}
		log.Error("Failed to load user", zap.Error(err))
		return nil, shared.ErrUnknown
	}

	profile, err := s.profileRepo.FindByID(ctx, viewer.UserID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			log.Warn("Failed to load profile", zap.Error(err))
		}
		profile = nil
	}

	var ordersCount, cartCount int64
	var g errgroup.Group
	g.Go(func() error {
		n, err := s.orderRepo.CountByUser(ctx, viewer.UserID)
		if err != nil {
			return fmt.Errorf("count orders: %w", err)
		}
		ordersCount = n
		return nil
	})
	g.Go(func() error {
		n, err := s.cartRepo.CountByUser(ctx, viewer.UserID)
		if err != nil {
			return fmt.Errorf("count cart items: %w", err)
		}
		cartCount = n
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Warn("Dashboard count failed", zap.Error(err))
	}

	orders, err := s.orderRepo.FindRecentByUser(ctx, viewer.UserID, order.RecentLimit)
	if err != nil {
		log.Warn("Failed to load recent orders", zap.Error(err))
		orders = nil
	}

	dashboard := &Dashboard{
		Welcome:      fmt.Sprintf("Welcome back, %s!", profile.DisplayName()),
		Email:        user.Email,
		MemberSince:  user.MemberSince(),
		OrdersCount:  ordersCount,
		CartCount:    cartCount,
		RecentOrders: make([]RecentOrder, 0, len(orders)),
	}
	if profile != nil {
		dashboard.FullName = profile.FullName
	}
	for i := range orders {
		dashboard.RecentOrders = append(dashboard.RecentOrders, toRecentOrder(&orders[i]))
	}
	if len(dashboard.RecentOrders) == 0 {
		dashboard.EmptyOrders = "No orders yet"
	}
	return dashboard, nil
}

func toRecentOrder(o *order.Order) RecentOrder {
	products := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		products = append(products, item.ProductName)
	}
	return RecentOrder{
		ID:          o.ID,
		ShortID:     o.ShortID(),
		ItemCount:   o.ItemCount(),
		ItemsLabel:  fmt.Sprintf("%d items", o.ItemCount()),
		Date:        o.CreatedAt.Format(OrderDateLayout),
		CreatedAt:   o.CreatedAt,
		Total:       o.TotalAmount,
		TotalLabel:  "$" + o.TotalAmount.StringFixed(2),
		Status:      string(o.Status),
		StatusLabel: o.Status.Label(),
		Products:    products,
	}
}
