package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// Remote restaurant API (the only datastore this panel talks to)
	APIBaseURL        string `mapstructure:"API_BASE_URL"`
	APITimeoutSeconds int    `mapstructure:"API_TIMEOUT_SECONDS"`

	// Redis is an optional read cache for remote listings. Empty URL disables it.
	RedisURL        string `mapstructure:"REDIS_URL"`
	CacheTTLSeconds int    `mapstructure:"CACHE_TTL_SECONDS"`

	// Rate limiting
	RateLimitPerMinute int `mapstructure:"RATE_LIMIT_PER_MINUTE"`
}

// APITimeout returns the remote call timeout as a duration.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.APITimeoutSeconds) * time.Second
}

// CacheTTL returns the listing cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for development
	viper.SetDefault("PORT", 8080)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("API_BASE_URL", "http://localhost:5000")
	viper.SetDefault("API_TIMEOUT_SECONDS", 30)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("CACHE_TTL_SECONDS", 30)
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 1000)

	// Optional .env file for local development, ignored if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
