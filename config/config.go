package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"checkout-pricing-api/database"
	"checkout-pricing-api/services/email"
)

type Config struct {
	Stage           string
	ControlPanelURL string
	Server          ServerConfig
	Upstream        UpstreamConfig
	Database        database.DatabaseConfig
	Redis           RedisConfig
	SMTP            email.SMTPConfig
	Session         SessionConfig
	JWT             JWTConfig
}

type ServerConfig struct {
	Port string
}

type UpstreamConfig struct {
	AccountPlansURL string
	BillingURL      string
	Timeout         time.Duration
}

type RedisConfig struct {
	URL               string
	WorkerConcurrency int
	PlanCacheTTL      time.Duration
}

type SessionConfig struct {
	Secret string
	Domain string
	MaxAge int
}

type JWTConfig struct {
	Secret string
	Issuer string
}

// Load reads the optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		Stage:           getEnv("STAGE", "dev"),
		ControlPanelURL: getEnv("CONTROL_PANEL_URL", "http://localhost:8080"),
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Upstream: UpstreamConfig{
			AccountPlansURL: getEnv("ACCOUNT_PLANS_API_URL", "http://localhost:9001"),
			BillingURL:      getEnv("BILLING_API_URL", "http://localhost:9002"),
		},
		Database: database.DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost:3306"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   getEnv("DB_NAME", "checkout"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		SMTP: email.SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
		Session: SessionConfig{
			Secret: os.Getenv("SESSION_SECRET"),
			Domain: os.Getenv("SESSION_DOMAIN"),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Issuer: os.Getenv("JWT_ISSUER"),
		},
	}

	var err error
	if cfg.Upstream.Timeout, err = getDuration("UPSTREAM_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.Redis.PlanCacheTTL, err = getDuration("PLAN_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Redis.WorkerConcurrency, err = getInt("WORKER_CONCURRENCY", 2); err != nil {
		return nil, err
	}
	if cfg.Session.MaxAge, err = getInt("SESSION_MAX_AGE", 86400); err != nil {
		return nil, err
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Session.Secret == "" {
		cfg.Session.Secret = cfg.JWT.Secret
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return def
}

func getInt(key string, def int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
