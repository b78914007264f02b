package config

import (
	"os"
	"strings"
)

// Default allowed origins for local development.
var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

type Config struct {
	Port           string
	DatabaseURL    string
	JWTSecret      string
	Env            string
	AllowedOrigins []string
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "3000"),
		DatabaseURL:    getEnv("DATABASE_URL", "host=localhost user=taskhive password=taskhive dbname=taskhive port=5432 sslmode=disable"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		Env:            getEnv("APP_ENV", "development"),
		AllowedOrigins: parseAllowedOrigins(os.Getenv("ALLOWED_ORIGINS")),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseAllowedOrigins(value string) []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if value == "" {
		return origins
	}

	for _, origin := range strings.Split(value, ",") {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}
