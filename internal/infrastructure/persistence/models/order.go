package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
)

// OrderModel is the persistence model for the Order domain entity.
type OrderModel struct {
	BaseModel
	UserID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	TotalAmount decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	Status      string           `gorm:"type:varchar(20);not null;default:'pending'"`
	Items       []OrderItemModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseEntity:  m.BaseModel.ToDomain(),
		UserID:      m.UserID,
		TotalAmount: m.TotalAmount,
		Status:      order.Status(m.Status),
		Items:       make([]order.OrderItem, 0, len(m.Items)),
	}
	for i := range m.Items {
		o.Items = append(o.Items, m.Items[i].ToDomain())
	}
	return o
}

// OrderItemModel is the persistence model for an order line.
type OrderItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time       `gorm:"not null"`
	Product   *ProductModel   `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem.
// The product name comes from the preloaded product, if any.
func (m *OrderItemModel) ToDomain() order.OrderItem {
	item := order.OrderItem{
		ID:        m.ID,
		OrderID:   m.OrderID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		Price:     m.Price,
	}
	if m.Product != nil {
		item.ProductName = m.Product.Name
	}
	return item
}
