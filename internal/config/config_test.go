package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{"DATABASE_URL": "postgres://localhost/studyhub"}))
	require.NoError(t, err)

	assert.Equal(t, "3333", cfg.Port)
	assert.Equal(t, ":3333", cfg.Addr())
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.LeaderboardCacheTTL)
	assert.Equal(t, 5.0, cfg.RateLimitRPS)
	assert.Equal(t, 30, cfg.RateLimitBurst)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.Equal(t, int32(5), cfg.DBMinConns)
	assert.Empty(t, cfg.RedisURL)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"DATABASE_URL":          "postgres://db/studyhub",
		"PORT":                  "8080",
		"REDIS_URL":             "redis://localhost:6379/0",
		"LEADERBOARD_CACHE_TTL": "2m",
		"CORS_ALLOWED_ORIGINS":  "http://localhost:5173, https://studyhub.app ,",
		"RATE_LIMIT_RPS":        "2.5",
		"RATE_LIMIT_BURST":      "10",
		"DB_MAX_CONNS":          "8",
		"DB_MIN_CONNS":          "2",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 2*time.Minute, cfg.LeaderboardCacheTTL)
	assert.Equal(t, []string{"http://localhost:5173", "https://studyhub.app"}, cfg.AllowedOrigins)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.Equal(t, int32(8), cfg.DBMaxConns)
	assert.Equal(t, int32(2), cfg.DBMinConns)
}

func TestFromEnvRejectsMalformedValues(t *testing.T) {
	_, err := FromEnv(envMap(map[string]string{"LEADERBOARD_CACHE_TTL": "soon"}))
	assert.Error(t, err)

	_, err = FromEnv(envMap(map[string]string{"RATE_LIMIT_BURST": "many"}))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{}))
	require.NoError(t, err)
	assert.EqualError(t, cfg.Validate(), "DATABASE_URL environment variable is not set")

	cfg.DatabaseURL = "postgres://db"
	cfg.DBMinConns = 50
	assert.Error(t, cfg.Validate())
}
