package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	appcart "github.com/storefront/backend/internal/application/cart"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
	appidentity "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/application/storefront"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testVerifyURL      = "http://shop.test/api/v1/auth/verify"
	testSignupRedirect = "http://shop.test/dashboard"
)

// capturingMailer records verification links instead of sending them
type capturingMailer struct {
	mu    sync.Mutex
	links map[string]string
}

func (m *capturingMailer) SendVerification(_ context.Context, email, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[email] = link
	return nil
}

func (m *capturingMailer) link(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.links[email]
}

// testApp wires the handlers to real services over an in-memory SQLite database
type testApp struct {
	router     *gin.Engine
	db         *persistence.Database
	jwt        *auth.JWTService
	mailer     *capturingMailer
	products   *persistence.GormProductRepository
	categories *persistence.GormCategoryRepository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: persistence.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, persistence.AutoMigrate(db.DB))

	logger := zap.NewNop()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-32-characters-long",
		RefreshSecret:          "test-refresh-secret-32-characters",
		Issuer:                 "storefront-test",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		VerifyTokenExpiration:  24 * time.Hour,
		MaxRefreshCount:        10,
	})
	blacklist := auth.NewMemoryTokenBlacklist(time.Minute)
	mailer := &capturingMailer{links: make(map[string]string)}

	users := persistence.NewGormUserRepository(db.DB)
	profiles := persistence.NewGormProfileRepository(db.DB)
	admins := persistence.NewGormAdminRepository(db.DB)
	products := persistence.NewGormProductRepository(db.DB)
	categories := persistence.NewGormCategoryRepository(db.DB)
	carts := persistence.NewGormCartRepository(db.DB)
	orders := persistence.NewGormOrderRepository(db.DB)

	authService := appidentity.NewAuthService(users, profiles, jwtService, blacklist, mailer, nil, appidentity.AuthServiceConfig{
		MinPasswordLength:        6,
		RequireEmailConfirmation: true,
		VerifyURL:                testVerifyURL,
		SignupRedirectURL:        testSignupRedirect,
	}, logger)
	catalogService := appcatalog.NewCatalogService(products, categories, storage.PassthroughResolver{}, nil, logger)
	headerService := storefront.NewHeaderService(carts, admins, logger)
	dashboardService := storefront.NewDashboardService(users, profiles, orders, carts, logger)
	cartService := appcart.NewCartService(carts, products, nil, logger)

	authHandler := NewAuthHandler(authService, config.CookieConfig{Path: "/", SameSite: "lax"})
	storefrontHandler := NewStorefrontHandler(headerService, catalogService)
	catalogHandler := NewCatalogHandler(catalogService)
	dashboardHandler := NewDashboardHandler(dashboardService)
	cartHandler := NewCartHandler(cartService)
	healthHandler := NewHealthHandler(db, "test")

	jwtCfg := middleware.JWTMiddlewareConfig{JWTService: jwtService, TokenBlacklist: blacklist, Logger: logger}
	required := middleware.JWTAuthMiddleware(jwtCfg)
	optional := middleware.OptionalJWTAuthMiddleware(jwtCfg)

	middleware.SetupValidator()
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/health", healthHandler.Health)
	v1 := r.Group("/api/v1")
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/signup", authHandler.SignUp)
	v1.GET("/auth/verify", authHandler.VerifyEmail)
	v1.POST("/auth/refresh", authHandler.RefreshToken)
	v1.POST("/auth/logout", required, authHandler.Logout)
	v1.GET("/auth/me", required, authHandler.GetCurrentUser)
	v1.GET("/storefront/header", optional, storefrontHandler.Header)
	v1.GET("/storefront/search", storefrontHandler.Search)
	v1.GET("/storefront/home", storefrontHandler.Home)
	v1.GET("/products", catalogHandler.ListProducts)
	v1.GET("/products/:id", catalogHandler.GetProduct)
	v1.GET("/categories", catalogHandler.ListCategories)
	v1.GET("/dashboard", optional, dashboardHandler.GetDashboard)
	v1.POST("/cart/items", required, cartHandler.AddItem)
	v1.GET("/cart/count", required, cartHandler.Count)

	return &testApp{
		router:     r,
		db:         db,
		jwt:        jwtService,
		mailer:     mailer,
		products:   products,
		categories: categories,
	}
}

type requestOption func(*http.Request)

func withToken(token string) requestOption {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func withCookies(cookies ...*http.Cookie) requestOption {
	return func(r *http.Request) {
		for _, c := range cookies {
			r.AddCookie(c)
		}
	}
}

func (a *testApp) do(t *testing.T, method, path string, body any, opts ...requestOption) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// envelope decodes the response with data kept raw for a second decode
type envelope struct {
	Success  bool            `json:"success"`
	Data     json.RawMessage `json:"data"`
	Error    *dto.ErrorInfo  `json:"error"`
	Redirect string          `json:"redirect"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

// signUpAndVerify registers a confirmed account and returns its session
func (a *testApp) signUpAndVerify(t *testing.T, email, fullName string) LoginResponse {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/auth/signup", SignUpRequest{
		Email: email, Password: "secret1", ConfirmPassword: "secret1", FullName: fullName,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	link := a.mailer.link(email)
	require.NotEmpty(t, link)
	w = a.do(t, http.MethodGet, "/api/v1/auth/verify?"+link[len(testVerifyURL)+1:], nil)
	require.Equal(t, http.StatusFound, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{Email: email, Password: "secret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login LoginResponse
	decode(t, w, &login)
	return login
}

func (a *testApp) seedCategory(t *testing.T, name string) *catalog.Category {
	t.Helper()
	c, err := catalog.NewCategory(name, "")
	require.NoError(t, err)
	require.NoError(t, a.categories.Save(context.Background(), c))
	return c
}

func (a *testApp) seedProduct(t *testing.T, name, price string, stock int, category *catalog.Category) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, decimal.RequireFromString(price), stock)
	require.NoError(t, err)
	if category != nil {
		p.SetCategory(&category.ID)
	}
	require.NoError(t, a.products.Save(context.Background(), p))
	return p
}

func cookieByName(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
