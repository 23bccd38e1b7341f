package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail checks if an email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// CreateWithProfile inserts the user and its profile in one transaction
	CreateWithProfile(ctx context.Context, user *User, profile *Profile) error

	// Update updates an existing user
	Update(ctx context.Context, user *User) error
}

// ProfileRepository defines the interface for profile persistence
type ProfileRepository interface {
	// FindByID finds a profile by its user ID
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)
}

// AdminRepository answers admin-membership questions
type AdminRepository interface {
	// IsAdmin reports whether an admin_users row exists for the user
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}
