package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Typesense TypesenseConfig
	Backend   BackendConfig
	Cache     CacheConfig
	Catalog   CatalogConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// TypesenseConfig holds the search service credentials
type TypesenseConfig struct {
	Host       string `mapstructure:"host"`
	APIKey     string `mapstructure:"api_key"`
	Collection string `mapstructure:"collection"`
}

// BackendConfig holds the feedback backend location
type BackendConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// CatalogConfig tunes the featured-catalog sampler
type CatalogConfig struct {
	PageSize  int           `mapstructure:"page_size"`
	Freshness time.Duration `mapstructure:"freshness"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/blackbuy/")

	v.SetEnvPrefix("BLACKBUY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover the rest
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// External endpoints must use secure transport
	config.Typesense.Host = ensureHTTPS(config.Typesense.Host)
	config.Backend.BaseURL = ensureHTTPS(config.Backend.BaseURL)

	if err := validate(&config); err != nil {
		return &config, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Credentials default empty so Unmarshal sees the keys when they
	// arrive through the environment only.
	v.SetDefault("typesense.host", "")
	v.SetDefault("typesense.api_key", "")
	v.SetDefault("typesense.collection", "products")

	v.SetDefault("backend.base_url", "")

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "5m")

	v.SetDefault("catalog.page_size", 50)
	v.SetDefault("catalog.freshness", "5m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// ensureHTTPS upgrades a plain scheme to https and adds the scheme when the
// value is a bare host. Empty values pass through for validation to catch.
func ensureHTTPS(endpoint string) string {
	if endpoint == "" {
		return endpoint
	}
	if strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if strings.HasPrefix(endpoint, "http://") {
		return "https://" + strings.TrimPrefix(endpoint, "http://")
	}
	return "https://" + endpoint
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Typesense.Host == "" {
		return fmt.Errorf("search host is required (set BLACKBUY_TYPESENSE_HOST)")
	}
	if config.Typesense.APIKey == "" {
		return fmt.Errorf("search API key is required (set BLACKBUY_TYPESENSE_API_KEY)")
	}
	if config.Backend.BaseURL == "" {
		return fmt.Errorf("backend base URL is required (set BLACKBUY_BACKEND_BASE_URL)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}
	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	return nil
}
