package identity

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// Token errors surfaced to API clients
var (
	ErrTokenExpired    = shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	ErrTokenInvalid    = shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	ErrTokenMaxRefresh = shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	ErrTokenRevoked    = shared.NewDomainError("TOKEN_REVOKED", "Session has been signed out")
	ErrVerifyLink      = shared.NewDomainError("INVALID_VERIFY_LINK", "Email link is invalid or has expired")
	ErrUserNotFound    = shared.NewDomainError("USER_NOT_FOUND", "User not found")
)

// VerificationSender delivers the email confirmation link
type VerificationSender interface {
	SendVerification(ctx context.Context, email, link string) error
}

// Metrics records auth outcomes. A nil Metrics is allowed.
type Metrics interface {
	RecordSignIn(ctx context.Context, err error)
	RecordSignUp(ctx context.Context, err error)
}

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MinPasswordLength        int
	RequireEmailConfirmation bool
	// VerifyURL is the absolute URL of the email verification endpoint
	VerifyURL string
	// SignupRedirectURL is where a confirmed user is sent
	SignupRedirectURL string
}

// AuthService handles sign-in, sign-up and session management
type AuthService struct {
	userRepo    identity.UserRepository
	profileRepo identity.ProfileRepository
	jwtService  *auth.JWTService
	blacklist   auth.TokenBlacklist
	verifier    VerificationSender
	metrics     Metrics
	config      AuthServiceConfig
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	profileRepo identity.ProfileRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	verifier VerificationSender,
	metrics Metrics,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	if config.MinPasswordLength <= 0 {
		config.MinPasswordLength = identity.DefaultMinPasswordLength
	}
	return &AuthService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		jwtService:  jwtService,
		blacklist:   blacklist,
		verifier:    verifier,
		metrics:     metrics,
		config:      config,
		logger:      logger,
	}
}

// Login authenticates a user with email and password and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (result *LoginResult, err error) {
	defer func() { s.recordSignIn(ctx, err) }()

	email := identity.NormalizeEmail(input.Email)
	s.logger.Info("Login attempt", zap.String("email", email), zap.String("ip", input.IP))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("User not found during login", zap.String("email", email))
			return nil, identity.ErrInvalidCredentials
		}
		s.logger.Error("Failed to load user", zap.String("email", email), zap.Error(err))
		return nil, shared.ErrUnknown
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, identity.ErrInvalidCredentials
	}

	if s.config.RequireEmailConfirmation && !user.IsEmailConfirmed() {
		s.logger.Warn("Login attempt with unconfirmed email", zap.String("user_id", user.ID.String()))
		return nil, identity.ErrEmailNotConfirmed
	}

	tokens, err := s.jwtService.GenerateTokenPair(auth.Subject{UserID: user.ID, Email: user.Email})
	if err != nil {
		s.logger.Error("Failed to generate tokens", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, shared.ErrUnknown
	}

	user.RecordSignIn()
	if err := s.userRepo.Update(ctx, user); err != nil {
		// Sign-in still succeeds when the timestamp write fails.
		s.logger.Warn("Failed to record sign-in", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	s.logger.Info("Login successful", zap.String("user_id", user.ID.String()))

	return &LoginResult{
		Tokens:     tokens,
		User:       s.userInfo(ctx, user),
		RedirectTo: RedirectAfterLogin,
	}, nil
}

// SignUp registers a new account with its profile and sends the confirmation link
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (result *SignUpResult, err error) {
	defer func() { s.recordSignUp(ctx, err) }()

	if err := identity.ValidateSignupPasswords(input.Password, input.ConfirmPassword, s.config.MinPasswordLength); err != nil {
		return nil, err
	}

	email := identity.NormalizeEmail(input.Email)
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Failed to check email", zap.String("email", email), zap.Error(err))
		return nil, shared.ErrUnknown
	}
	if exists {
		return nil, identity.ErrUserAlreadyExists
	}

	user, err := identity.NewUser(email, input.Password, s.config.MinPasswordLength)
	if err != nil {
		return nil, err
	}
	if !s.config.RequireEmailConfirmation {
		user.ConfirmEmail()
	}

	profile, err := identity.NewProfile(user.ID, user.Email, input.FullName)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.CreateWithProfile(ctx, user, profile); err != nil {
		if errors.Is(err, identity.ErrUserAlreadyExists) {
			return nil, err
		}
		s.logger.Error("Failed to create user", zap.String("email", email), zap.Error(err))
		return nil, shared.ErrUnknown
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))

	result = &SignUpResult{
		UserID:          user.ID,
		Email:           user.Email,
		EmailRedirectTo: s.config.SignupRedirectURL,
		RedirectTo:      RedirectAfterSignUp,
	}
	if user.IsEmailConfirmed() {
		return result, nil
	}

	link, err := s.verificationLink(user)
	if err != nil {
		s.logger.Error("Failed to build verification link", zap.String("user_id", user.ID.String()), zap.Error(err))
		return result, nil
	}
	if err := s.verifier.SendVerification(ctx, user.Email, link); err != nil {
		s.logger.Error("Failed to send verification email", zap.String("user_id", user.ID.String()), zap.Error(err))
		return result, nil
	}
	result.ConfirmationSent = true
	return result, nil
}

// VerifyEmail confirms the account named by a verification token
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*VerifyEmailResult, error) {
	claims, err := s.jwtService.ValidateVerifyToken(token)
	if err != nil {
		s.logger.Warn("Rejected verification token", zap.Error(err))
		return nil, ErrVerifyLink
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, ErrVerifyLink
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrVerifyLink
		}
		return nil, shared.ErrUnknown
	}

	if !user.IsEmailConfirmed() {
		user.ConfirmEmail()
		if err := s.userRepo.Update(ctx, user); err != nil {
			s.logger.Error("Failed to confirm email", zap.String("user_id", user.ID.String()), zap.Error(err))
			return nil, shared.ErrUnknown
		}
		s.logger.Info("Email confirmed", zap.String("user_id", user.ID.String()))
	}

	return &VerifyEmailResult{
		UserID:     user.ID,
		Email:      user.Email,
		RedirectTo: s.config.SignupRedirectURL,
	}, nil
}

// SignOut revokes the current session until its tokens expire
func (s *AuthService) SignOut(ctx context.Context, input SignOutInput) (string, error) {
	if input.AccessClaims != nil && input.AccessClaims.ID != "" {
		if err := s.blacklist.Revoke(ctx, input.AccessClaims.ID, input.AccessClaims.RemainingTTL()); err != nil {
			s.logger.Error("Failed to revoke access token", zap.String("user_id", input.AccessClaims.UserID), zap.Error(err))
			return "", shared.ErrUnknown
		}
		s.logger.Info("User signed out", zap.String("user_id", input.AccessClaims.UserID))
	}

	if input.RefreshToken != "" {
		claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
		if err == nil {
			if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
				s.logger.Warn("Failed to revoke refresh token", zap.String("user_id", claims.UserID), zap.Error(err))
			}
		}
	}

	return RedirectAfterSignOut, nil
}

// Refresh rotates a refresh token into a new token pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Error("Failed to check token revocation", zap.Error(err))
		return nil, shared.ErrUnknown
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	userID, err := claims.UserUUID()
	if err != nil {
		return nil, ErrTokenInvalid
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, shared.ErrUnknown
	}

	tokens, old, err := s.jwtService.RefreshTokenPair(refreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}
	if err := s.blacklist.Revoke(ctx, old.ID, old.RemainingTTL()); err != nil {
		s.logger.Warn("Failed to revoke rotated refresh token", zap.String("user_id", old.UserID), zap.Error(err))
	}

	return &RefreshResult{Tokens: tokens}, nil
}

// CurrentUser returns the signed-in user's account and profile details
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, shared.ErrUnknown
	}
	info := s.userInfo(ctx, user)
	return &info, nil
}

func (s *AuthService) userInfo(ctx context.Context, user *identity.User) UserInfo {
	info := UserInfo{
		ID:             user.ID,
		Email:          user.Email,
		DisplayName:    identity.DefaultDisplayName,
		EmailConfirmed: user.IsEmailConfirmed(),
		CreatedAt:      user.CreatedAt,
	}
	profile, err := s.profileRepo.FindByID(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Failed to load profile", zap.String("user_id", user.ID.String()), zap.Error(err))
		}
		return info
	}
	info.FullName = profile.FullName
	info.DisplayName = profile.DisplayName()
	return info
}

func (s *AuthService) verificationLink(user *identity.User) (string, error) {
	token, err := s.jwtService.GenerateVerifyToken(auth.Subject{UserID: user.ID, Email: user.Email})
	if err != nil {
		return "", err
	}
	sep := "?"
	if strings.Contains(s.config.VerifyURL, "?") {
		sep = "&"
	}
	return s.config.VerifyURL + sep + "token=" + url.QueryEscape(token), nil
}

func (s *AuthService) recordSignIn(ctx context.Context, err error) {
	if s.metrics != nil {
		s.metrics.RecordSignIn(ctx, err)
	}
}

func (s *AuthService) recordSignUp(ctx context.Context, err error) {
	if s.metrics != nil {
		s.metrics.RecordSignUp(ctx, err)
	}
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return ErrTokenExpired
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return ErrTokenMaxRefresh
	default:
		return ErrTokenInvalid
	}
}
