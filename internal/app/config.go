package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go-farmops/internal/shared/connection"

	"golang.org/x/time/rate"
)

type Config struct {
	Port           string
	Postgres       connection.PostgresConfig
	AutoMigrate    bool
	RedisAddr      string
	KafkaBroker    string
	JWTSecret      string
	RBACModelPath  string
	RateLimitRPS   rate.Limit
	RateLimitBurst int
	CORSOrigins    []string
}

// LoadConfig reads the process environment. godotenv has already merged
// .env into it by the time cmd/* calls this.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port: envOr("PORT", "3000"),
		Postgres: connection.PostgresConfig{
			Host:     os.Getenv("DB_HOST"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			Port:     envOr("DB_PORT", "5432"),
			SSLMode:  envOr("DB_SSLMODE", "disable"),
		},
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		RBACModelPath: os.Getenv("RBAC_MODEL_PATH"),
		CORSOrigins:   splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}

	autoMigrate, err := parseBool("DB_AUTO_MIGRATE", false)
	if err != nil {
		return Config{}, err
	}
	cfg.AutoMigrate = autoMigrate

	rps, err := strconv.ParseFloat(envOr("RATE_LIMIT_RPS", "10"), 64)
	if err != nil || rps <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_RPS must be a positive number")
	}
	cfg.RateLimitRPS = rate.Limit(rps)

	burst, err := strconv.Atoi(envOr("RATE_LIMIT_BURST", "20"))
	if err != nil || burst <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_BURST must be a positive integer")
	}
	cfg.RateLimitBurst = burst

	return cfg, nil
}

// Validate checks what the API process needs. The worker and the consumer
// only need Postgres and Kafka.
func (c Config) Validate() error {
	var missing []string
	if c.Postgres.Host == "" {
		missing = append(missing, "DB_HOST")
	}
	if c.Postgres.Name == "" {
		missing = append(missing, "DB_NAME")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.RedisAddr == "" {
		missing = append(missing, "REDIS_ADDR")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env: %s", strings.Join(missing, ", "))
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}
