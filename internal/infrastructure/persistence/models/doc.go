// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
// - base.go: BaseModel and the AutoMigrate model list
// - identity.go: users, profiles, admin_users
// - catalog.go: products, categories
// - cart.go: cart_items
// - order.go: orders, order_items
package models
