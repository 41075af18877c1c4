package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	Port        string

	DBMaxConns int32
	DBMinConns int32

	RedisURL            string
	LeaderboardCacheTTL time.Duration

	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int

	MetricsUser string
	MetricsPass string
}

// Load reads .env (if any) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the config from a getenv-style lookup.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DatabaseURL:         getenv("DATABASE_URL"),
		Port:                stringOr(getenv("PORT"), "3333"),
		RedisURL:            getenv("REDIS_URL"),
		MetricsUser:         getenv("METRICS_USER"),
		MetricsPass:         getenv("METRICS_PASS"),
		AllowedOrigins:      splitList(stringOr(getenv("CORS_ALLOWED_ORIGINS"), "*")),
		LeaderboardCacheTTL: 30 * time.Second,
		RateLimitRPS:        5,
		RateLimitBurst:      30,
		DBMaxConns:          25,
		DBMinConns:          5,
	}

	var err error
	if v := getenv("LEADERBOARD_CACHE_TTL"); v != "" {
		if cfg.LeaderboardCacheTTL, err = time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("invalid LEADERBOARD_CACHE_TTL: %w", err)
		}
	}
	if v := getenv("RATE_LIMIT_RPS"); v != "" {
		if cfg.RateLimitRPS, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
		}
	}
	if v := getenv("RATE_LIMIT_BURST"); v != "" {
		if cfg.RateLimitBurst, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
		}
	}
	if v := getenv("DB_MAX_CONNS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
		}
		cfg.DBMaxConns = int32(n)
	}
	if v := getenv("DB_MIN_CONNS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
		}
		cfg.DBMinConns = int32(n)
	}

	return cfg, nil
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL environment variable is not set")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("rate limit settings must be positive")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
