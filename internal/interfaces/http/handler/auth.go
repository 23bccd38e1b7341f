package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles sign-in, sign-up, verification and sign-out
type AuthHandler struct {
	BaseHandler
	authService  *identity.AuthService
	cookieConfig config.CookieConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService, cookieConfig config.CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieConfig: cookieConfig,
	}
}

// Login godoc
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} dto.Response{data=LoginResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setSessionCookies(c, result.Tokens)
	h.Redirect(c, LoginResponse{
		Token: toTokenResponse(result.Tokens),
		User:  toUserResponse(result.User),
	}, result.RedirectTo)
}

// SignUp godoc
// @Summary      Register an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignUpRequest true "Registration form"
// @Success      201 {object} dto.Response{data=SignUpResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.authService.SignUp(c.Request.Context(), identity.SignUpInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FullName:        req.FullName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewRedirectResponse(SignUpResponse{
		UserID:           result.UserID,
		Email:            result.Email,
		ConfirmationSent: result.ConfirmationSent,
		EmailRedirectTo:  result.EmailRedirectTo,
	}, result.RedirectTo))
}

// VerifyEmail godoc
// @Summary      Confirm an email address
// @Tags         auth
// @Param        token query string true "Verification token"
// @Success      302
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/verify [get]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		h.HandleError(c, identity.ErrVerifyLink)
		return
	}

	result, err := h.authService.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Redirect(http.StatusFound, result.RedirectTo)
}

// RefreshToken godoc
// @Summary      Rotate the session tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshTokenRequest false "Refresh token, else the refresh_token cookie"
// @Success      200 {object} dto.Response{data=TokenResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
	}
	token := req.RefreshToken
	if token == "" {
		token, _ = c.Cookie(middleware.RefreshTokenCookie)
	}
	if token == "" {
		h.Unauthorized(c, "Refresh token is required")
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setSessionCookies(c, result.Tokens)
	h.Success(c, toTokenResponse(result.Tokens))
}

// Logout godoc
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=MessageResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	refreshToken, _ := c.Cookie(middleware.RefreshTokenCookie)

	redirectTo, err := h.authService.SignOut(c.Request.Context(), identity.SignOutInput{
		AccessClaims: claims,
		RefreshToken: refreshToken,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.clearSessionCookies(c)
	h.Redirect(c, MessageResponse{Message: "Signed out"}, redirectTo)
}

// GetCurrentUser godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=UserResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toUserResponse(*user))
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, tokens *auth.TokenPair) {
	now := time.Now()
	h.setCookie(c, middleware.AccessTokenCookie, tokens.AccessToken, int(tokens.AccessTokenExpiresAt.Sub(now).Seconds()))
	h.setCookie(c, middleware.RefreshTokenCookie, tokens.RefreshToken, int(tokens.RefreshTokenExpiresAt.Sub(now).Seconds()))
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	h.setCookie(c, middleware.AccessTokenCookie, "", -1)
	h.setCookie(c, middleware.RefreshTokenCookie, "", -1)
}

func (h *AuthHandler) setCookie(c *gin.Context, name, value string, maxAge int) {
	path := h.cookieConfig.Path
	if path == "" {
		path = "/"
	}
	c.SetSameSite(sameSiteMode(h.cookieConfig.SameSite))
	c.SetCookie(name, value, maxAge, path, h.cookieConfig.Domain, h.cookieConfig.Secure, true)
}

func sameSiteMode(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
