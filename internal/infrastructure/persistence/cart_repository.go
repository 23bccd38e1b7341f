package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements cart.CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// CountByUser counts the user's cart rows
func (r *GormCartRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CartItemModel{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// FindByUserAndProduct finds the user's line for a product
func (r *GormCartRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*cart.CartItem, error) {
	return findCartLine(r.db.WithContext(ctx), userID, productID)
}

// AddQuantity upserts the line on (user_id, product_id), then re-reads the merged
// row inside the same transaction so check sees the committed-to-be quantity.
func (r *GormCartRepository) AddQuantity(ctx context.Context, item *cart.CartItem, check cart.QuantityCheck) (*cart.CartItem, error) {
	var merged *cart.CartItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
				"updated_at": gorm.Expr("excluded.updated_at"),
			}),
		}).Create(models.CartItemModelFromDomain(item)).Error
		if err != nil {
			return err
		}

		line, err := findCartLine(tx, item.UserID, item.ProductID)
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(line.Quantity); err != nil {
				return err
			}
		}
		merged = line
		return nil
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

func findCartLine(db *gorm.DB, userID, productID uuid.UUID) (*cart.CartItem, error) {
	var model models.CartItemModel
	err := db.Where("user_id = ? AND product_id = ?", userID, productID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}
