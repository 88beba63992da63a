package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the storefront client and the reference
// backend.
type Config struct {
	Server    ServerConfig
	API       APIConfig
	Search    SearchConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds settings for the reference backend server.
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	StartBalance   float64       `mapstructure:"start_balance"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
}

// APIConfig holds settings for the outbound storefront API client.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SearchConfig holds settings for the debounced search controller.
type SearchConfig struct {
	DebounceDelay time.Duration `mapstructure:"debounce_delay"`
}

// RateLimitConfig holds client-side request rate limiting settings.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/storefront/")

	// Environment variable settings
	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
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
	v.SetDefault("server.port", "8082")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.start_balance", 5000)
	v.SetDefault("server.session_ttl", "24h")

	// API client defaults
	v.SetDefault("api.base_url", "http://localhost:8082/api/v1")
	v.SetDefault("api.timeout", "30s")

	// Search defaults
	v.SetDefault("search.debounce_delay", "500ms")

	// Rate limit defaults
	v.SetDefault("ratelimit.requests_per_second", 10)
	v.SetDefault("ratelimit.burst", 20)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.API.BaseURL == "" {
		return fmt.Errorf("API base URL is required (set STOREFRONT_API_BASE_URL)")
	}

	if config.Search.DebounceDelay <= 0 {
		return fmt.Errorf("search debounce delay must be positive, got: %s", config.Search.DebounceDelay)
	}

	if config.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate limit must be positive, got: %f", config.RateLimit.RequestsPerSecond)
	}

	return nil
}
