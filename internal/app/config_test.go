package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("PORT", "")
		t.Setenv("DB_PORT", "")
		t.Setenv("DB_AUTO_MIGRATE", "")
		t.Setenv("RATE_LIMIT_RPS", "")
		t.Setenv("RATE_LIMIT_BURST", "")

		cfg, err := LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, "3000", cfg.Port)
		assert.Equal(t, "5432", cfg.Postgres.Port)
		assert.Equal(t, "disable", cfg.Postgres.SSLMode)
		assert.False(t, cfg.AutoMigrate)
		assert.Equal(t, rate.Limit(10), cfg.RateLimitRPS)
		assert.Equal(t, 20, cfg.RateLimitBurst)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("PORT", "8080")
		t.Setenv("DB_AUTO_MIGRATE", "true")
		t.Setenv("RATE_LIMIT_RPS", "2.5")
		t.Setenv("RATE_LIMIT_BURST", "5")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://ops.example.com, http://localhost:5173,")

		cfg, err := LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.True(t, cfg.AutoMigrate)
		assert.Equal(t, rate.Limit(2.5), cfg.RateLimitRPS)
		assert.Equal(t, 5, cfg.RateLimitBurst)
		assert.Equal(t, []string{"https://ops.example.com", "http://localhost:5173"}, cfg.CORSOrigins)
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Setenv("DB_AUTO_MIGRATE", "maybe")
		_, err := LoadConfig()
		assert.Error(t, err)

		t.Setenv("DB_AUTO_MIGRATE", "")
		t.Setenv("RATE_LIMIT_BURST", "-1")
		_, err = LoadConfig()
		assert.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST")
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg.Postgres.Host = "localhost"
	cfg.Postgres.Name = "farmops"
	cfg.JWTSecret = "secret"
	cfg.RedisAddr = "localhost:6379"
	assert.NoError(t, cfg.Validate())
}
