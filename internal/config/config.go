package config

import (
	"os"
	"strconv"
)

type Config struct {
	Host        string
	Port        string
	Environment string
	DatabaseURL string
	UploadDir   string
	MaxUploadMB int64
	CORSOrigins string
	TablePrefix string
	// Debug toggles verbose logging and dev-only behavior
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Host:        getEnv("HOST", "127.0.0.1"),
		Port:        getEnv("PORT", "5032"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		UploadDir:   getEnv("UPLOAD_DIR", "static/uploads"),
		MaxUploadMB: getEnvInt64("MAX_UPLOAD_MB", 50),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		TablePrefix: getTablePrefix(env),
		Debug:       parseBool(getEnv("DEBUG", getDefaultDebug(env))),
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

// parseBool accepts the truthy spellings the old deployment used
func parseBool(v string) bool {
	switch v {
	case "true", "True", "TRUE", "1", "yes":
		return true
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
