package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MemoryDatabase selects the in-process link store instead of a SQL database.
const MemoryDatabase = "memory"

type Config struct {
	BaseURL         string // public base of every short URL
	DatabaseURL     string // postgres://, libsql://, sqlite file, or "memory"
	RedisURL        string // optional; in-process cache when empty
	Port            int
	AppEnv          string
	LogLevel        string
	CacheTTL        time.Duration
	ReaperInterval  time.Duration // 0 disables the periodic sweep
	ShutdownTimeout time.Duration
}

// Load reads configuration from .env (if present) and the environment,
// and fails when a required value is missing or malformed.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	cfg := &Config{
		BaseURL:         strings.TrimRight(getEnv("BASE_URL", ""), "/"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RedisURL:        getEnv("REDIS_URL", ""),
		Port:            getEnvInt("PORT", 3000),
		AppEnv:          getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CacheTTL:        getEnvDuration("CACHE_TTL", time.Hour),
		ReaperInterval:  getEnvDuration("REAPER_INTERVAL", 0),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the required settings.
func (c *Config) Validate() error {
	var errs []error

	if c.BaseURL == "" {
		errs = append(errs, errors.New("BASE_URL is required"))
	} else if u, err := url.Parse(c.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("BASE_URL must be an absolute http(s) URL, got %q", c.BaseURL))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}
	if c.ReaperInterval < 0 {
		errs = append(errs, errors.New("REAPER_INTERVAL must not be negative"))
	}

	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
