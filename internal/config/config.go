// Package config loads runtime settings from the environment, with a
// .env file picked up when present.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	DSN        string
	AuthSecret string
	TokenTTL   time.Duration
	StorageDir string

	GoogleClientID     string
	GoogleClientSecret string
	BaseURL            string
}

func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:               envOr("PORT", "8080"),
		DSN:                strings.TrimSpace(os.Getenv("DB_DSN")),
		AuthSecret:         os.Getenv("AUTH_SECRET"),
		StorageDir:         envOr("STORAGE_DIR", "uploads"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		BaseURL:            envOr("BASE_URL", "http://localhost:8080"),
	}
	if cfg.DSN == "" {
		cfg.DSN = dsnFromParts()
	}
	cfg.TokenTTL = 24 * time.Hour
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.TokenTTL = d
		}
	}
	return cfg
}

func dsnFromParts() string {
	host := envOr("DB_HOST", "localhost")
	port := envOr("DB_PORT", "5432")
	user := os.Getenv("DB_USER")
	if user == "" {
		user = envOr("POSTGRES_USER", "postgres")
	}
	pass := os.Getenv("DB_PASSWORD")
	if pass == "" {
		pass = envOr("POSTGRES_PASSWORD", "postgres")
	}
	name := os.Getenv("DB_NAME")
	if name == "" {
		name = envOr("POSTGRES_DB", "printfarm")
	}
	ssl := envOr("DB_SSLMODE", "disable")
	return "host=" + host + " user=" + user + " password=" + pass + " dbname=" + name + " port=" + port + " sslmode=" + ssl
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
