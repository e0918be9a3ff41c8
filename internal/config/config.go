// Package config provides application configuration management.
// It loads configuration from environment variables with support for .env files.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Session SessionConfig
	Payment PaymentConfig
	Redis   RedisConfig
	Logging LoggingConfig
	App     AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
	RateLimit    float64       `env:"SERVER_RATE_LIMIT" envDefault:"50"`
	RateBurst    int           `env:"SERVER_RATE_BURST" envDefault:"100"`
}

// SessionConfig holds booking session settings.
type SessionConfig struct {
	TTL           time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"5m"`
}

// PaymentConfig holds payment gateway client settings.
type PaymentConfig struct {
	BaseURL string        `env:"PAYMENT_BASE_URL" envDefault:"http://localhost:9090"`
	APIKey  string        `env:"PAYMENT_API_KEY"`
	Timeout time.Duration `env:"PAYMENT_TIMEOUT" envDefault:"10s"`
}

// RedisConfig holds booking store settings.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	DraftTTL time.Duration `env:"REDIS_DRAFT_TTL" envDefault:"24h"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env string `env:"APP_ENV" envDefault:"development"`
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first (optional - won't fail if missing).
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics on error.
// Use this in main() where configuration is required to start.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// validate checks configuration values for correctness.
func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout <= 0 {
		return fmt.Errorf("SERVER_READ_TIMEOUT must be positive")
	}
	if cfg.Server.WriteTimeout <= 0 {
		return fmt.Errorf("SERVER_WRITE_TIMEOUT must be positive")
	}
	if cfg.Server.RateLimit <= 0 {
		return fmt.Errorf("SERVER_RATE_LIMIT must be positive")
	}
	if cfg.Server.RateBurst < 1 {
		return fmt.Errorf("SERVER_RATE_BURST must be at least 1")
	}

	if cfg.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if cfg.Session.SweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive")
	}

	if !strings.HasPrefix(cfg.Payment.BaseURL, "http://") && !strings.HasPrefix(cfg.Payment.BaseURL, "https://") {
		return fmt.Errorf("PAYMENT_BASE_URL must be an http(s) URL, got %q", cfg.Payment.BaseURL)
	}
	if cfg.Payment.Timeout <= 0 {
		return fmt.Errorf("PAYMENT_TIMEOUT must be positive")
	}

	if cfg.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console; got %q", cfg.Logging.Format)
	}

	validEnvs := map[string]bool{"development": true, "staging": true, "production": true}
	if !validEnvs[cfg.App.Env] {
		return fmt.Errorf("APP_ENV must be one of: development, staging, production; got %q", cfg.App.Env)
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
