package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Loyalty   LoyaltyConfig   `mapstructure:"loyalty"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StorageConfig selects the key-value backend
type StorageConfig struct {
	Type string        `mapstructure:"type"` // "memory" or "sqlite"
	Path string        `mapstructure:"path"`
	TTL  time.Duration `mapstructure:"ttl"` // memory only, 0 keeps entries forever
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
	Burst int `mapstructure:"burst"`
}

// CatalogConfig points at an optional model catalog overlay
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// LoyaltyConfig holds loyalty defaults
type LoyaltyConfig struct {
	TargetPoints int `mapstructure:"target_points"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/easyseas/")

	// EASYSEAS_SERVER_PORT overrides server.port
	v.SetEnvPrefix("EASYSEAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*", "moz-extension://*"})

	// Storage defaults
	v.SetDefault("storage.type", "memory")
	v.SetDefault("storage.path", "./data/easyseas.db")
	v.SetDefault("storage.ttl", "0s")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.burst", 20)

	v.SetDefault("catalog.path", "")
	v.SetDefault("loyalty.target_points", 700)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Storage.Type {
	case "memory":
	case "sqlite":
		if config.Storage.Path == "" {
			return fmt.Errorf("storage path is required when storage type is 'sqlite'")
		}
	default:
		return fmt.Errorf("storage type must be 'memory' or 'sqlite', got: %s", config.Storage.Type)
	}

	if config.Storage.TTL < 0 {
		return fmt.Errorf("storage ttl must not be negative, got: %s", config.Storage.TTL)
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("ratelimit per_ip must be positive, got: %d", config.RateLimit.PerIP)
	}
	if config.RateLimit.Burst <= 0 {
		return fmt.Errorf("ratelimit burst must be positive, got: %d", config.RateLimit.Burst)
	}

	if config.Loyalty.TargetPoints <= 0 {
		return fmt.Errorf("loyalty target_points must be positive, got: %d", config.Loyalty.TargetPoints)
	}

	if _, err := zerolog.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("unknown log level: %s", config.Log.Level)
	}
	if config.Log.Format != "console" && config.Log.Format != "json" {
		return fmt.Errorf("log format must be 'console' or 'json', got: %s", config.Log.Format)
	}

	return nil
}
