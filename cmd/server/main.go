package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/application/storefront"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/mail"
	"github.com/storefront/backend/internal/infrastructure/migration"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"github.com/storefront/backend/migrations"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Storefront API
//	@version		1.0
//	@description	Retail storefront backend: accounts, catalog, header, dashboard and cart.
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	loaded, err := config.LoadEnvFiles()
	if err != nil {
		panic("Failed to load env files: " + err.Error())
	}

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()

	// The OTLP log provider must exist before the logger so the zap tee can forward to it
	logProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry)
	if err != nil {
		panic("Failed to initialize log export: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	log, err := newLogger(logCfg, logProvider, cfg.Telemetry.ServiceName)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
		zap.Strings("env_files", loaded),
	)
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	profiler, err := telemetry.StartProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL),
	)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	if err := prepareSchema(db, log); err != nil {
		log.Fatal("Failed to prepare schema", zap.Error(err))
	}
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, cfg.Database.DBName); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	adminRepo := persistence.NewGormAdminRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := cache.NewCachedCategoryRepository(
		persistence.NewGormCategoryRepository(db.DB),
		cfg.Cache.CategoryTTL,
		cfg.Cache.CleanupInterval,
		log,
	)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	blacklist, err := cache.NewBlacklistFactory(cfg.Redis, cfg.Cache,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).Create(ctx)
	if err != nil {
		log.Fatal("Failed to initialize token blacklist", zap.Error(err))
	}
	defer func() {
		if closer, ok := blacklist.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}()

	images, err := newImageResolver(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	storefrontMetrics, err := telemetry.NewStorefrontMetrics(meterProvider.Meter("storefront"))
	if err != nil {
		log.Fatal("Failed to create storefront metrics", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	verificationMailer := mail.NewVerificationMailer(
		mail.NewSender(cfg.Mail, log),
		cfg.App.Name,
		cfg.JWT.VerifyTokenExpiration,
	)

	// Application services
	authService := identityapp.NewAuthService(
		userRepo,
		profileRepo,
		jwtService,
		blacklist,
		verificationMailer,
		storefrontMetrics,
		identityapp.AuthServiceConfig{
			MinPasswordLength:        cfg.Auth.MinPasswordLength,
			RequireEmailConfirmation: cfg.Auth.RequireEmailConfirmation,
			VerifyURL:                cfg.App.PublicURL + "/api/v1/auth/verify",
			SignupRedirectURL:        cfg.Auth.SignupRedirectURL,
		},
		log,
	)
	catalogService := catalogapp.NewCatalogService(productRepo, categoryRepo, images, storefrontMetrics, log)
	headerService := storefront.NewHeaderService(cartRepo, adminRepo, log)
	dashboardService := storefront.NewDashboardService(userRepo, profileRepo, orderRepo, cartRepo, log)
	cartService := cartapp.NewCartService(cartRepo, productRepo, storefrontMetrics, log)

	middleware.SetupValidator()

	var httpMetrics *middleware.HTTPMetrics
	if cfg.HTTP.MetricsEnabled {
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatal("Failed to get sql.DB", zap.Error(err))
		}
		httpMetrics, err = middleware.NewHTTPMetrics(middleware.MetricsConfig{DB: sqlDB, DBName: cfg.Database.DBName})
		if err != nil {
			log.Fatal("Failed to register HTTP metrics", zap.Error(err))
		}
	}

	engine, err := router.New(router.Options{
		Config: cfg,
		Logger: log,
		JWT: middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			Logger:         log,
		},
		Metrics: httpMetrics,
	}, router.Handlers{
		Auth:       handler.NewAuthHandler(authService, cfg.Cookie),
		Storefront: handler.NewStorefrontHandler(headerService, catalogService),
		Catalog:    handler.NewCatalogHandler(catalogService),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
		Cart:       handler.NewCartHandler(cartService),
		Health:     handler.NewHealthHandler(db, version),
	})
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	telemetry.LogShutdownError(log, "tracer provider", tracerProvider.Shutdown(shutdownCtx))
	telemetry.LogShutdownError(log, "meter provider", meterProvider.Shutdown(shutdownCtx))
	telemetry.LogShutdownError(log, "profiler", profiler.Stop())

	log.Info("Server exited gracefully")
	telemetry.LogShutdownError(log, "logger provider", logProvider.Shutdown(shutdownCtx))
}

// newLogger builds the zap logger, teeing to the OTLP log exporter when it is enabled
func newLogger(cfg *logger.Config, lp *telemetry.LoggerProvider, serviceName string) (*zap.Logger, error) {
	if core := lp.ZapCore(serviceName, logger.ParseLevel(cfg.Level)); core != nil {
		return logger.New(cfg, core)
	}
	return logger.New(cfg)
}

// prepareSchema applies the embedded migrations on Postgres. SQLite databases
// are local development stores and are auto-migrated from the models.
func prepareSchema(db *persistence.Database, log *zap.Logger) error {
	if db.Driver == persistence.DriverSQLite {
		return persistence.AutoMigrate(db.DB)
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.NewFromFS(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	// Close would also close the shared sql.DB
	return m.Up()
}

// newImageResolver signs product image keys against S3 when storage is enabled,
// otherwise image references are served as stored.
func newImageResolver(ctx context.Context, cfg *config.Config, log *zap.Logger) (catalogapp.ImageResolver, error) {
	if !cfg.Storage.Enabled {
		return storage.PassthroughResolver{}, nil
	}
	resolver, err := storage.NewS3ImageResolver(ctx, &cfg.Storage, storage.WithLogger(log))
	if err != nil {
		return nil, err
	}
	return resolver, nil
}
