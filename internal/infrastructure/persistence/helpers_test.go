package persistence

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a migrated in-memory SQLite database
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

// newMockDB returns a postgres-dialect GORM handle backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.CategoryModel {
	t.Helper()
	m := &models.CategoryModel{
		BaseModel: models.BaseModel{ID: uuid.New(), CreatedAt: baseTime, UpdatedAt: baseTime},
		Name:      name,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func seedProduct(t *testing.T, db *gorm.DB, name string, age time.Duration, active bool, category *models.CategoryModel) *models.ProductModel {
	t.Helper()
	created := baseTime.Add(-age)
	m := &models.ProductModel{
		BaseModel:     models.BaseModel{ID: uuid.New(), CreatedAt: created, UpdatedAt: created},
		Name:          name,
		Price:         decimal.RequireFromString("19.99"),
		StockQuantity: 10,
		IsActive:      true,
	}
	if category != nil {
		m.CategoryID = &category.ID
	}
	require.NoError(t, db.Create(m).Error)
	if !active {
		// GORM skips zero-value bools on create when the column has a default
		require.NoError(t, db.Model(m).Update("is_active", false).Error)
	}
	return m
}
