package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
)

// LoginRequest is the sign-in form
type LoginRequest struct {
	Email    string `json:"email" binding:"required,max=254"`
	Password string `json:"password" binding:"required,max=72"`
}

// SignUpRequest is the registration form. Password rules are checked by the
// service so that mismatch is reported before length.
type SignUpRequest struct {
	Email           string `json:"email" binding:"required,max=254"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FullName        string `json:"full_name" binding:"max=100"`
}

// RefreshTokenRequest carries a refresh token when the cookie is not used
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse represents the token pair handed to API clients
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// UserResponse is the signed-in account
type UserResponse struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	DisplayName    string    `json:"display_name"`
	EmailConfirmed bool      `json:"email_confirmed"`
	CreatedAt      time.Time `json:"created_at"`
}

// LoginResponse represents a successful sign-in
type LoginResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// SignUpResponse represents a new registration
type SignUpResponse struct {
	UserID           uuid.UUID `json:"user_id"`
	Email            string    `json:"email"`
	ConfirmationSent bool      `json:"confirmation_sent"`
	EmailRedirectTo  string    `json:"email_redirect_to"`
}

// MessageResponse carries a short confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

func toTokenResponse(p *auth.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:           p.AccessToken,
		RefreshToken:          p.RefreshToken,
		AccessTokenExpiresAt:  p.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: p.RefreshTokenExpiresAt,
		TokenType:             p.TokenType,
	}
}

func toUserResponse(u identity.UserInfo) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		FullName:       u.FullName,
		DisplayName:    u.DisplayName,
		EmailConfirmed: u.EmailConfirmed,
		CreatedAt:      u.CreatedAt,
	}
}
