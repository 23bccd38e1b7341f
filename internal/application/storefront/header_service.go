package storefront

import (
	"context"
	"net/url"
	"strings"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/identity"
	"go.uber.org/zap"
)

// HeaderService computes the store header for a session
type HeaderService struct {
	cartRepo  cart.CartRepository
	adminRepo identity.AdminRepository
	logger    *zap.Logger
}

// NewHeaderService creates a new HeaderService
func NewHeaderService(cartRepo cart.CartRepository, adminRepo identity.AdminRepository, logger *zap.Logger) *HeaderService {
	return &HeaderService{
		cartRepo:  cartRepo,
		adminRepo: adminRepo,
		logger:    logger,
	}
}

// Header returns the header state. A nil viewer is an anonymous visitor.
// Lookup failures fall back to an empty cart and no admin link.
func (s *HeaderService) Header(ctx context.Context, viewer *Viewer) *HeaderState {
	state := &HeaderState{}
	if viewer == nil {
		state.Nav = navigation(state)
		return state
	}

	state.User = &HeaderUser{ID: viewer.UserID, Email: viewer.Email}

	count, err := s.cartRepo.CountByUser(ctx, viewer.UserID)
	if err != nil {
		s.logger.Warn("Failed to count cart items", zap.String("user_id", viewer.UserID.String()), zap.Error(err))
		count = 0
	}
	state.CartCount = count

	isAdmin, err := s.adminRepo.IsAdmin(ctx, viewer.UserID)
	if err != nil {
		s.logger.Warn("Failed to check admin membership", zap.String("user_id", viewer.UserID.String()), zap.Error(err))
		isAdmin = false
	}
	state.IsAdmin = isAdmin

	state.Nav = navigation(state)
	return state
}

func navigation(state *HeaderState) []NavLink {
	nav := []NavLink{{Label: "Products", Href: "/products"}}
	if state.User == nil {
		return append(nav,
			NavLink{Label: "Sign In", Href: "/auth/login"},
			NavLink{Label: "Sign Up", Href: "/auth/signup"},
		)
	}

	cartLink := NavLink{Label: "Cart", Href: "/cart"}
	if state.CartCount > 0 {
		cartLink.Badge = int(state.CartCount)
	}
	nav = append(nav,
		cartLink,
		NavLink{Label: "Orders", Href: "/orders"},
		NavLink{Label: "Dashboard", Href: "/dashboard"},
	)
	if state.IsAdmin {
		nav = append(nav, NavLink{Label: "Admin", Href: "/admin/dashboard"})
	}
	return nav
}

// SearchRedirect returns the listing URL for a header search, or "" for a blank query
func SearchRedirect(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}
	return "/products?search=" + encodeURIComponent(query)
}

// encodeURIComponent escapes like the browser function of the same name:
// spaces become %20 and the characters !'()* stay literal.
func encodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	return strings.NewReplacer("%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*").Replace(escaped)
}
