package config

import (
	"context"
	"time"
)

// Config represents the complete configuration for the storerate client.
// It provides type-safe access to all configuration values with validation.
type Config struct {
	CLI     CLIConfig     `koanf:"cli"     validate:"required"`
	Runtime RuntimeConfig `koanf:"runtime" validate:"required"`
	Browse  BrowseConfig  `koanf:"browse"  validate:"required"`
}

// CLIConfig contains API connection and terminal configuration.
type CLIConfig struct {
	BaseURL       string          `koanf:"base_url"       env:"STORERATE_BASE_URL"       validate:"required,api_url"`
	APIKey        SensitiveString `koanf:"api_key"        env:"STORERATE_API_KEY"                                      sensitive:"true"`
	Timeout       time.Duration   `koanf:"timeout"        env:"STORERATE_TIMEOUT"`
	DefaultFormat string          `koanf:"default_format" env:"STORERATE_DEFAULT_FORMAT" validate:"oneof=auto json tui"`
	Interactive   bool            `koanf:"interactive"    env:"STORERATE_INTERACTIVE"`
	NoColor       bool            `koanf:"no_color"       env:"STORERATE_NO_COLOR"`
	RateLimit     float64         `koanf:"rate_limit"     env:"STORERATE_RATE_LIMIT"     validate:"min=0"`
	RateBurst     int             `koanf:"rate_burst"     env:"STORERATE_RATE_BURST"     validate:"min=1"`
}

// RuntimeConfig contains runtime behavior configuration.
type RuntimeConfig struct {
	Environment string `koanf:"environment" env:"STORERATE_ENV"       validate:"oneof=development staging production"`
	LogLevel    string `koanf:"log_level"   env:"STORERATE_LOG_LEVEL" validate:"oneof=debug info warn error disabled"`
	LogJSON     bool   `koanf:"log_json"    env:"STORERATE_LOG_JSON"`
	LogFile     string `koanf:"log_file"    env:"STORERATE_LOG_FILE"`
}

// BrowseConfig contains list browsing behavior shared by every list view.
type BrowseConfig struct {
	QuietPeriod     time.Duration `koanf:"quiet_period"      env:"STORERATE_QUIET_PERIOD"`
	PageSizes       []int         `koanf:"page_sizes"        env:"STORERATE_PAGE_SIZES"        validate:"min=1,dive,min=1"`
	DefaultPageSize int           `koanf:"default_page_size" env:"STORERATE_DEFAULT_PAGE_SIZE" validate:"min=1"`
	NoticeTTL       time.Duration `koanf:"notice_ttl"        env:"STORERATE_NOTICE_TTL"`
}

// Service defines the configuration management service interface.
type Service interface {
	// Load loads configuration from the specified sources with precedence order.
	Load(ctx context.Context, sources ...Source) (*Config, error)
	// Validate checks if the configuration meets all validation requirements.
	Validate(config *Config) error
	// GetSource returns the source type that provided a configuration key.
	GetSource(key string) SourceType
}

// Source defines the interface for configuration sources.
type Source interface {
	// Load reads configuration from the source.
	Load() (map[string]any, error)
	// Type returns the source type identifier.
	Type() SourceType
	// Close releases any resources held by the source.
	Close() error
}

// SourceType identifies the type of configuration source.
type SourceType string

const (
	SourceCLI     SourceType = "cli"
	SourceYAML    SourceType = "yaml"
	SourceEnv     SourceType = "env"
	SourceDefault SourceType = "default"
)

// Metadata contains metadata about configuration sources.
type Metadata struct {
	Sources  map[string]SourceType `json:"sources"`
	LoadedAt time.Time             `json:"loaded_at"`
}

// Load loads configuration from defaults and the environment.
func Load() (*Config, error) {
	service := NewService()
	return service.Load(context.Background())
}

// Default returns a Config with default values for local development.
func Default() *Config {
	return &Config{
		CLI: CLIConfig{
			BaseURL:       "http://localhost:5000/api",
			Timeout:       30 * time.Second,
			DefaultFormat: "auto",
			RateLimit:     0,
			RateBurst:     1,
		},
		Runtime: RuntimeConfig{
			Environment: "development",
			LogLevel:    "info",
		},
		Browse: BrowseConfig{
			QuietPeriod:     500 * time.Millisecond,
			PageSizes:       []int{5, 10, 25},
			DefaultPageSize: 5,
			NoticeTTL:       3 * time.Second,
		},
	}
}
