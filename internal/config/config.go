package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort      string
	DatabaseDSN   string
	SessionSecret string // HMAC key for the session token cookie
	CORSOrigins   string
	AdminPassword string // initial password for the seeded admin account
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:   getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=fieldexpense port=5432 sslmode=disable"),
		SessionSecret: getEnv("SESSION_SECRET", ""),
		CORSOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
	}

	if cfg.SessionSecret == "" {
		slog.Error("SESSION_SECRET is not set; it is required")
		os.Exit(1)
	}
	if len(cfg.SessionSecret) < 32 {
		slog.Error("SESSION_SECRET must be at least 32 characters")
		os.Exit(1)
	}
	if cfg.AdminPassword == "admin123" {
		slog.Warn("ADMIN_PASSWORD is using the default value, change it for production")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
