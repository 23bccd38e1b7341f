package identity

import (
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// DefaultDisplayName is shown when a profile has no full name
const DefaultDisplayName = "Customer"

// Profile holds the customer-facing details of a user. It shares the user's ID.
type Profile struct {
	shared.BaseEntity
	Email    string
	FullName string
}

// NewProfile creates the profile row written alongside a new user
func NewProfile(userID uuid.UUID, email, fullName string) (*Profile, error) {
	fullName = strings.TrimSpace(fullName)
	if len(fullName) > 200 {
		return nil, shared.NewDomainError("INVALID_FULL_NAME", "Full name cannot exceed 200 characters")
	}
	return &Profile{
		BaseEntity: shared.NewBaseEntityWithID(userID),
		Email:      NormalizeEmail(email),
		FullName:   fullName,
	}, nil
}

// DisplayName returns the full name, or "Customer" when none was given
func (p *Profile) DisplayName() string {
	if p == nil || p.FullName == "" {
		return DefaultDisplayName
	}
	return p.FullName
}
