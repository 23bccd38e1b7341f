package order

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// RecentLimit is the number of orders shown on the dashboard
const RecentLimit = 3

// Status represents the lifecycle state of an order
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Label returns the status capitalized for display
func (s Status) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Order is a placed order. Orders are read-only in the storefront.
type Order struct {
	shared.BaseEntity
	UserID      uuid.UUID
	TotalAmount decimal.Decimal
	Status      Status
	Items       []OrderItem
}

// OrderItem is one product line of an order
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	Price       decimal.Decimal
}

// ShortID returns "#" followed by the first 8 characters of the order ID
func (o *Order) ShortID() string {
	return "#" + o.ID.String()[:8]
}

// ItemCount returns the number of order lines
func (o *Order) ItemCount() int {
	return len(o.Items)
}
