package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// BlacklistFactory picks a token blacklist backend from configuration
type BlacklistFactory struct {
	redisConfig           config.RedisConfig
	cleanupInterval       time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// BlacklistFactoryOption configures a BlacklistFactory
type BlacklistFactoryOption func(*BlacklistFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) BlacklistFactoryOption {
	return func(f *BlacklistFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to the
// in-process blacklist. Default is true.
func WithInMemoryFallback(allow bool) BlacklistFactoryOption {
	return func(f *BlacklistFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewBlacklistFactory creates a new factory
func NewBlacklistFactory(redisCfg config.RedisConfig, cacheCfg config.CacheConfig, opts ...BlacklistFactoryOption) *BlacklistFactory {
	f := &BlacklistFactory{
		redisConfig:           redisCfg,
		cleanupInterval:       cacheCfg.CleanupInterval,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a Redis blacklist when Redis is configured and reachable,
// otherwise the in-memory one.
func (f *BlacklistFactory) Create(ctx context.Context) (auth.TokenBlacklist, error) {
	if f.redisConfig.Host == "" {
		f.logger.Info("redis not configured, using in-memory token blacklist")
		return auth.NewMemoryTokenBlacklist(f.cleanupInterval), nil
	}

	bl, err := auth.NewRedisTokenBlacklist(ctx, f.redisConfig.Addr(), f.redisConfig.Password, f.redisConfig.DB)
	if err == nil {
		f.logger.Info("using redis token blacklist", zap.String("addr", f.redisConfig.Addr()))
		return bl, nil
	}
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for token blacklist but unavailable: %w", err)
	}

	f.logger.Warn("redis unavailable, falling back to in-memory token blacklist; sign-outs will not be shared between instances",
		zap.Error(err),
	)
	return auth.NewMemoryTokenBlacklist(f.cleanupInterval), nil
}
