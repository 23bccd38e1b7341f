package storefront

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Viewer is the signed-in user making a request
type Viewer struct {
	UserID uuid.UUID
	Email  string
}

// NavLink is one entry of the header navigation
type NavLink struct {
	Label string `json:"label"`
	Href  string `json:"href"`
	Badge int    `json:"badge,omitempty"`
}

// HeaderUser is the session user shown in the header
type HeaderUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// HeaderState is the store header for the current session
type HeaderState struct {
	User      *HeaderUser `json:"user"`
	CartCount int64       `json:"cart_count"`
	IsAdmin   bool        `json:"is_admin"`
	Nav       []NavLink   `json:"nav"`
}

// RecentOrder is one row of the dashboard's recent orders
type RecentOrder struct {
	ID          uuid.UUID       `json:"id"`
	ShortID     string          `json:"short_id"`
	ItemCount   int             `json:"item_count"`
	ItemsLabel  string          `json:"items_label"`
	Date        string          `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
	Total       decimal.Decimal `json:"total"`
	TotalLabel  string          `json:"total_label"`
	Status      string          `json:"status"`
	StatusLabel string          `json:"status_label"`
	Products    []string        `json:"products"`
}

// Dashboard is the customer dashboard view
type Dashboard struct {
	Welcome      string        `json:"welcome"`
	FullName     string        `json:"full_name"`
	Email        string        `json:"email"`
	MemberSince  int           `json:"member_since"`
	OrdersCount  int64         `json:"orders_count"`
	CartCount    int64         `json:"cart_count"`
	RecentOrders []RecentOrder `json:"recent_orders"`
	EmptyOrders  string        `json:"empty_orders,omitempty"`
}
