package config

import "os"

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port          string
	DatabaseURL   string
	SessionSecret string
	LogLevel      string
}

// New loads configuration from the environment, falling back to
// development defaults.
func New() *Config {
	return &Config{
		Port:          getEnv("PORT", "3000"),
		DatabaseURL:   getEnv("DATABASE_URL", "host=localhost port=5432 user=warbler password=warbler dbname=warbler sslmode=disable"),
		SessionSecret: getEnv("SESSION_SECRET", "it's a secret"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
