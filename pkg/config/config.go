package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Environment        string
	ServerPort         int
	MongoURI           string
	MongoDatabase      string
	RedisURL           string
	CacheTTL           time.Duration
	MemoryCacheTTL     time.Duration
	SweepInterval      time.Duration
	ProviderURL        string
	ProviderTimeout    time.Duration
	PluginID           string
	JWTSecret          string
	LogLevel           string
	CORSAllowedOrigins []string
	RateLimitPerMinute int
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	cacheTTLSecs, err := strconv.Atoi(getEnv("CACHE_TTL", "604800"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}

	rateLimit, err := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
	}

	memoryTTL, err := time.ParseDuration(getEnv("MEMORY_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid MEMORY_CACHE_TTL: %w", err)
	}

	sweepInterval, err := time.ParseDuration(getEnv("CACHE_SWEEP_INTERVAL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_SWEEP_INTERVAL: %w", err)
	}

	providerTimeout, err := time.ParseDuration(getEnv("PROVIDER_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_TIMEOUT: %w", err)
	}

	return &Config{
		Environment:        getEnv("ENVIRONMENT", "development"),
		ServerPort:         port,
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:      getEnv("MONGO_DATABASE", "natalcore"),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		CacheTTL:           time.Duration(cacheTTLSecs) * time.Second,
		MemoryCacheTTL:     memoryTTL,
		SweepInterval:      sweepInterval,
		ProviderURL:        getEnv("JHORA_API_URL", ""),
		ProviderTimeout:    providerTimeout,
		PluginID:           getEnv("PLUGIN_ID", "astrology-jhora"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: parseCSVEnv("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://localhost:3000",
		}),
		RateLimitPerMinute: rateLimit,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseCSVEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
