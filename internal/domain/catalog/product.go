package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// LowStockThreshold is the highest positive stock level flagged as running low
const LowStockThreshold = 5

// StockLevel classifies a product's stock for display
type StockLevel string

const (
	StockLevelOut StockLevel = "out_of_stock"
	StockLevelLow StockLevel = "low"
	StockLevelIn  StockLevel = "in_stock"
)

// ErrProductUnavailable is returned when an inactive product is requested for sale
var ErrProductUnavailable = shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available")

// Product is a sellable item in the catalog
type Product struct {
	shared.BaseEntity
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
	ImageURL      string
	CategoryID    *uuid.UUID
	IsActive      bool

	// Category is populated by queries that join the category name
	Category *Category
}

// NewProduct creates an active product
func NewProduct(name string, price decimal.Decimal, stock int) (*Product, error) {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock quantity cannot be negative")
	}
	return &Product{
		BaseEntity:    shared.NewBaseEntity(),
		Name:          name,
		Price:         price,
		StockQuantity: stock,
		IsActive:      true,
	}, nil
}

// SetCategory assigns the product to a category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.Touch()
}

// CategoryName returns the joined category name or ""
func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// InStock reports whether at least one unit is available
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// StockLevel classifies the current stock quantity
func (p *Product) StockLevel() StockLevel {
	switch {
	case p.StockQuantity <= 0:
		return StockLevelOut
	case p.StockQuantity <= LowStockThreshold:
		return StockLevelLow
	default:
		return StockLevelIn
	}
}

// CheckAvailable verifies the product can be added to a cart in the given quantity
func (p *Product) CheckAvailable(quantity int) error {
	if !p.IsActive {
		return ErrProductUnavailable
	}
	if !p.InStock() {
		return shared.NewDomainError("OUT_OF_STOCK", "Product is out of stock")
	}
	if quantity > p.StockQuantity {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Only %d left in stock", p.StockQuantity))
	}
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
