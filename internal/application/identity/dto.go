package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/auth"
)

// Redirect targets handed back to the client after each auth flow
const (
	RedirectAfterLogin   = "/dashboard"
	RedirectAfterSignUp  = "/auth/verify-email"
	RedirectAfterSignOut = "/"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	Tokens     *auth.TokenPair
	User       UserInfo
	RedirectTo string
}

// SignUpInput contains the signup form fields
type SignUpInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FullName        string
}

// SignUpResult describes a newly registered account
type SignUpResult struct {
	UserID           uuid.UUID
	Email            string
	ConfirmationSent bool
	// EmailRedirectTo is where the verification link lands after confirming
	EmailRedirectTo string
	RedirectTo      string
}

// VerifyEmailResult is returned once a verification link is accepted
type VerifyEmailResult struct {
	UserID     uuid.UUID
	Email      string
	RedirectTo string
}

// SignOutInput identifies the session to end
type SignOutInput struct {
	AccessClaims *auth.Claims
	RefreshToken string // optional, revoked as well when present
}

// RefreshResult contains the rotated token pair
type RefreshResult struct {
	Tokens *auth.TokenPair
}

// UserInfo contains basic user information
type UserInfo struct {
	ID             uuid.UUID
	Email          string
	FullName       string
	DisplayName    string
	EmailConfirmed bool
	CreatedAt      time.Time
}
