package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Host              string
	Port              string
	ReadHeaderTimeout time.Duration
	LivenessEndpoint  string

	// DatabaseURL selects the postgres store when set; the in-memory
	// store is used otherwise.
	DatabaseURL string

	RedisAddr     string
	RedisPassword string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// Load reads configuration from the environment, with a .env file as
// an optional source. A missing .env file is not an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Host:              getEnvOrDefault("HTTP_HOST", "localhost"),
		Port:              getEnvOrDefault("HTTP_PORT", "8092"),
		ReadHeaderTimeout: getEnvAsDurationOrDefault("HTTP_READ_HEADER_TIMEOUT", 20*time.Second),
		LivenessEndpoint:  getEnvOrDefault("LIVENESS_ENDPOINT", "/liveness"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		JWTSecret:         getEnvOrDefault("JWT_SECRET", "dev-only-secret"),
		AccessTokenTTL:    getEnvAsDurationOrDefault("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:   getEnvAsDurationOrDefault("REFRESH_TOKEN_TTL", 7*24*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if d, err := time.ParseDuration(value); err == nil {
		return d
	}

	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}

	return defaultValue
}
