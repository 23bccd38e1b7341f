package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	BaseModel
	Email            string `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash     string `gorm:"type:varchar(255);not null"`
	EmailConfirmedAt *time.Time
	LastSignInAt     *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:       m.BaseModel.ToDomain(),
		Email:            m.Email,
		PasswordHash:     m.PasswordHash,
		EmailConfirmedAt: m.EmailConfirmedAt,
		LastSignInAt:     m.LastSignInAt,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.EmailConfirmedAt = u.EmailConfirmedAt
	m.LastSignInAt = u.LastSignInAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// ProfileModel is the persistence model for the Profile domain entity.
// Its ID is the owning user's ID.
type ProfileModel struct {
	BaseModel
	Email    string `gorm:"type:varchar(200);not null"`
	FullName string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (ProfileModel) TableName() string {
	return "profiles"
}

// ToDomain converts the persistence model to a domain Profile entity.
func (m *ProfileModel) ToDomain() *identity.Profile {
	return &identity.Profile{
		BaseEntity: m.BaseModel.ToDomain(),
		Email:      m.Email,
		FullName:   m.FullName,
	}
}

// ProfileModelFromDomain creates a new persistence model from a domain Profile entity.
func ProfileModelFromDomain(p *identity.Profile) *ProfileModel {
	m := &ProfileModel{
		Email:    p.Email,
		FullName: p.FullName,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// AdminUserModel marks a user as a store administrator.
type AdminUserModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AdminUserModel) TableName() string {
	return "admin_users"
}
