package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port                    string   `mapstructure:"PORT"`
	Env                     string   `mapstructure:"ENV"`
	DatabaseURL             string   `mapstructure:"DATABASE_URL"`
	DBMaxConns              int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns              int32    `mapstructure:"DB_MIN_CONNS"`
	DBAcquireTimeoutSeconds int      `mapstructure:"DB_ACQUIRE_TIMEOUT_SECONDS"`
	SecretKey               string   `mapstructure:"SECRET_KEY"`
	AccessTokenExpireMin    int      `mapstructure:"ACCESS_TOKEN_EXPIRE_MINUTES"`
	RefreshTokenExpireDays  int      `mapstructure:"REFRESH_TOKEN_EXPIRE_DAYS"`
	StatsCacheTTLSeconds    int      `mapstructure:"STATS_CACHE_TTL_SECONDS"`
	DefaultTimezone         string   `mapstructure:"DEFAULT_TIMEZONE"`
	CORSOrigins             []string `mapstructure:"CORS_ORIGINS"`
	CookieSecure            bool     `mapstructure:"COOKIE_SECURE"`
	RateLimitRPS            float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst          int      `mapstructure:"RATE_LIMIT_BURST"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("DB_ACQUIRE_TIMEOUT_SECONDS", 5)
	v.SetDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 15)
	v.SetDefault("REFRESH_TOKEN_EXPIRE_DAYS", 7)
	v.SetDefault("STATS_CACHE_TTL_SECONDS", 30)
	v.SetDefault("DEFAULT_TIMEZONE", "America/Recife")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("DB_ACQUIRE_TIMEOUT_SECONDS")
	v.BindEnv("SECRET_KEY")
	v.BindEnv("ACCESS_TOKEN_EXPIRE_MINUTES")
	v.BindEnv("REFRESH_TOKEN_EXPIRE_DAYS")
	v.BindEnv("STATS_CACHE_TTL_SECONDS")
	v.BindEnv("DEFAULT_TIMEZONE")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("COOKIE_SECURE")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks invariants that cannot be defaulted away.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.SecretKey == "" {
		if !c.IsDev() {
			return fmt.Errorf("SECRET_KEY is required when ENV is not development")
		}
		c.SecretKey = "insecure-dev-secret"
	}
	if c.AccessTokenExpireMin < 1 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.RefreshTokenExpireDays < 1 {
		return fmt.Errorf("REFRESH_TOKEN_EXPIRE_DAYS must be positive")
	}
	if c.StatsCacheTTLSeconds < 1 {
		return fmt.Errorf("STATS_CACHE_TTL_SECONDS must be positive")
	}
	if _, err := time.LoadLocation(c.DefaultTimezone); err != nil {
		return fmt.Errorf("DEFAULT_TIMEZONE %q: %w", c.DefaultTimezone, err)
	}
	return nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// AccessTokenTTL returns the access token lifetime as a duration.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMin) * time.Minute
}

// RefreshTokenTTL returns the refresh token lifetime as a duration.
func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenExpireDays) * 24 * time.Hour
}

// StatsCacheTTL returns the stats cache entry lifetime as a duration.
func (c *Config) StatsCacheTTL() time.Duration {
	return time.Duration(c.StatsCacheTTLSeconds) * time.Second
}

// DBAcquireTimeout returns the pool connect timeout as a duration.
func (c *Config) DBAcquireTimeout() time.Duration {
	return time.Duration(c.DBAcquireTimeoutSeconds) * time.Second
}
