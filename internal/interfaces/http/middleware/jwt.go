package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys and token transport names
const (
	JWTClaimsKey       = "jwt_claims"
	JWTUserIDKey       = "jwt_user_id"
	AuthHeaderKey      = "Authorization"
	BearerPrefix       = "Bearer "
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"

	// LoginPath is where unauthenticated shoppers are sent
	LoginPath = "/auth/login"
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// TokenBlacklist is optional for checking signed-out tokens
	TokenBlacklist auth.TokenBlacklist
	Logger         *zap.Logger
}

// JWTAuthMiddleware requires a valid access token. Failures end in 401 with a
// redirect to the login page.
func JWTAuthMiddleware(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authenticate(c, cfg)
		if err != nil {
			abortUnauthorized(c, cfg, err)
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalJWTAuthMiddleware extracts claims when a valid token is present.
// Anonymous requests and bad tokens pass through without claims.
func OptionalJWTAuthMiddleware(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authenticate(c, cfg)
		if err == nil {
			setClaims(c, claims)
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, cfg JWTMiddlewareConfig) (*auth.Claims, error) {
	token := ExtractAccessToken(c)
	if token == "" {
		return nil, errMissingToken
	}

	claims, err := cfg.JWTService.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}

	if cfg.TokenBlacklist != nil && claims.ID != "" {
		revoked, err := cfg.TokenBlacklist.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			// fail open on store errors
			if cfg.Logger != nil {
				cfg.Logger.Error("Failed to check token revocation", zap.String("jti", claims.ID), zap.Error(err))
			}
		} else if revoked {
			return nil, auth.ErrTokenRevoked
		}
	}
	return claims, nil
}

var errMissingToken = errors.New("missing access token")

// ExtractAccessToken reads the bearer token, falling back to the access_token cookie
func ExtractAccessToken(c *gin.Context) string {
	if header := c.GetHeader(AuthHeaderKey); strings.HasPrefix(header, BearerPrefix) {
		if token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix)); token != "" {
			return token
		}
	}
	if token, err := c.Cookie(AccessTokenCookie); err == nil {
		return token
	}
	return ""
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(JWTClaimsKey, claims)
	c.Set(JWTUserIDKey, claims.UserID)
	// read by the access log
	c.Set("user_id", claims.UserID)
	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
}

func abortUnauthorized(c *gin.Context, cfg JWTMiddlewareConfig, err error) {
	if cfg.Logger != nil && !errors.Is(err, errMissingToken) {
		cfg.Logger.Warn("JWT authentication failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
	}

	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		code, message = dto.ErrCodeTokenRevoked, "Token has been revoked"
	case errors.Is(err, errMissingToken):
	default:
		code, message = dto.ErrCodeTokenInvalid, "Invalid token"
	}

	resp := dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c))
	resp.Redirect = LoginPath
	c.AbortWithStatusJSON(http.StatusUnauthorized, resp)
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetJWTUserID retrieves the user ID from JWT claims in context
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}
