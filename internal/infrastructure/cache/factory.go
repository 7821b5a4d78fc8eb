package cache

import (
	"github.com/backcat/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Factory creates the cache backend based on configuration.
type Factory struct {
	redisConfig   config.RedisConfig
	logger        *zap.Logger
	allowFallback bool
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithLogger sets the logger used by created caches.
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) { f.logger = logger }
}

// WithMemoryFallback controls whether an in-memory cache is returned
// when Redis is unreachable. Default is true: the cache is best-effort
// and must not block startup.
func WithMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) { f.allowFallback = allow }
}

// NewFactory creates a cache factory.
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:   cfg,
		logger:        zap.NewNop(),
		allowFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a Redis-backed cache, falling back to an in-memory one
// when Redis is unreachable and fallback is allowed.
func (f *Factory) Create() (Cache, error) {
	c, err := NewRedisCache(f.redisConfig, f.logger)
	if err == nil {
		return c, nil
	}
	if !f.allowFallback {
		return nil, err
	}
	f.logger.Warn("redis unavailable, using in-memory cache", zap.Error(err))
	return NewMemoryCache(), nil
}
