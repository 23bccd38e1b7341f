package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Setup registers all routes under /api/<version>
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// DomainGroup collects the routes of one area of the API under a prefix
type DomainGroup struct {
	name       string
	prefix     string
	routes     []routeDefinition
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodGet, path, handlers)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPost, path, handlers)
}

func (dg *DomainGroup) handle(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: path, handlers: handlers})
	return dg
}

// Group creates a sub-group within this domain
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	subgroup := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, subgroup)
	return subgroup
}

// RegisterRoutes implements RouteRegistrar interface
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}
	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}
	for _, subgroup := range dg.subgroups {
		subgroup.RegisterRoutes(group)
	}
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}

// Handlers are the HTTP handlers the storefront API routes to
type Handlers struct {
	Auth       *handler.AuthHandler
	Storefront *handler.StorefrontHandler
	Catalog    *handler.CatalogHandler
	Dashboard  *handler.DashboardHandler
	Cart       *handler.CartHandler
	Health     *handler.HealthHandler
}

// Options configures the storefront engine
type Options struct {
	Config *config.Config
	Logger *zap.Logger
	JWT    middleware.JWTMiddlewareConfig
	// Metrics enables /metrics and request instrumentation when set
	Metrics *middleware.HTTPMetrics
}

// New builds the gin engine with the global middleware chain, the health and
// metrics endpoints, and every /api/v1 route.
func New(opts Options, h Handlers) (*gin.Engine, error) {
	cfg := opts.Config

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(opts.Logger),
		logger.GinMiddleware(opts.Logger),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		middleware.TraceAttributes(),
	)
	if opts.Metrics != nil {
		engine.Use(opts.Metrics.Middleware())
	}
	if cfg.Telemetry.ProfilingEnabled {
		engine.Use(middleware.Profiling("/health", "/metrics"))
	}

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.Cookie.Secure
	engine.Use(
		middleware.SecureWithConfig(security),
		middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)
	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)))
	}

	engine.GET("/health", h.Health.Health)
	if opts.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	NewRouter(engine).Register(apiGroups(opts, h)...).Setup()
	return engine, nil
}

func apiGroups(opts Options, h Handlers) []RouteRegistrar {
	required := middleware.JWTAuthMiddleware(opts.JWT)
	optional := middleware.OptionalJWTAuthMiddleware(opts.JWT)

	authGroup := NewDomainGroup("auth", "/auth")
	if opts.Config.HTTP.AuthRateLimitEnabled {
		authGroup.Use(middleware.RateLimit(middleware.NewRateLimiter(
			opts.Config.HTTP.AuthRateLimitRequests,
			opts.Config.HTTP.AuthRateLimitWindow,
		)))
	}
	authGroup.
		POST("/login", h.Auth.Login).
		POST("/signup", h.Auth.SignUp).
		GET("/verify", h.Auth.VerifyEmail).
		POST("/refresh", h.Auth.RefreshToken).
		POST("/logout", required, h.Auth.Logout).
		GET("/me", required, h.Auth.GetCurrentUser)

	storefrontGroup := NewDomainGroup("storefront", "/storefront").
		GET("/header", optional, h.Storefront.Header).
		GET("/search", h.Storefront.Search).
		GET("/home", h.Storefront.Home)

	catalogGroup := NewDomainGroup("catalog", "").
		GET("/products", h.Catalog.ListProducts).
		GET("/products/:id", h.Catalog.GetProduct).
		GET("/categories", h.Catalog.ListCategories)

	dashboardGroup := NewDomainGroup("dashboard", "/dashboard").
		GET("", required, h.Dashboard.GetDashboard)

	cartGroup := NewDomainGroup("cart", "/cart").
		Use(required).
		POST("/items", h.Cart.AddItem).
		GET("/count", h.Cart.Count)

	return []RouteRegistrar{authGroup, storefrontGroup, catalogGroup, dashboardGroup, cartGroup}
}
