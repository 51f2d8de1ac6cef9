package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MigrationsPath string

	// DATABASE_URL wins over the individual DB_* settings when set.
	DatabaseURL string

	DB DBConfig

	// RedisAddr enables the therapist-directory cache; empty disables it.
	RedisAddr       string
	ListingCacheTTL time.Duration

	JWTSecret string
	TokenTTL  time.Duration

	// AllowedOrigins is the CORS allowlist for browser clients.
	AllowedOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	// Hosted platforms set PORT. Prefer it when HTTP_ADDR isn't explicit.
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8080"
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "mindcare"),
			User:     env("DB_USER", "mindcare"),
			Password: env("DB_PASSWORD", "mindcare"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		ListingCacheTTL: envDuration("LISTING_CACHE_TTL", 5*time.Minute),
		JWTSecret:       env("JWT_SECRET", "dev-secret-change-in-production"),
		TokenTTL:        envDuration("TOKEN_TTL", 24*time.Hour),
		AllowedOrigins:  envList("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
	}
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// Bare numbers are read as seconds.
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
