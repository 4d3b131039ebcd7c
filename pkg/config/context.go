package config

import (
	"context"
	"sync"

	"github.com/storerate/storerate/pkg/logger"
)

// ContextKey is an alias used for storing values in context
type ContextKey string

const (
	// ConfigCtxKey is the context key used to store the active *Config
	ConfigCtxKey ContextKey = "config"
	// ServiceCtxKey is the context key used to store the Service that produced it
	ServiceCtxKey ContextKey = "config_service"
)

// ContextWithConfig stores the active configuration in the context
func ContextWithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ConfigCtxKey, cfg)
}

// ContextWithService stores the configuration service in the context so
// callers can inspect value sources.
func ContextWithService(ctx context.Context, svc Service) context.Context {
	return context.WithValue(ctx, ServiceCtxKey, svc)
}

// ServiceFromContext returns the configuration service or nil.
func ServiceFromContext(ctx context.Context) Service {
	if ctx == nil {
		return nil
	}
	svc, _ := ctx.Value(ServiceCtxKey).(Service)
	return svc
}

var (
	defaultConfig     *Config
	defaultConfigOnce sync.Once
)

// FromContext returns the configuration stored in ctx. When none is attached
// it falls back to defaults merged with the environment.
func FromContext(ctx context.Context) *Config {
	if ctx != nil {
		if cfg, ok := ctx.Value(ConfigCtxKey).(*Config); ok && cfg != nil {
			return cfg
		}
	}
	defaultConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			logger.FromContext(ctx).Warn("failed to load default configuration, using fallback defaults", "error", err)
			cfg = Default()
		}
		defaultConfig = cfg
	})
	return defaultConfig
}
