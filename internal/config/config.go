package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort   string
	DatabaseType string
	DatabasePath string
	DatabaseURL  string

	// Text generation. An empty AIServiceKey disables the model and every
	// coaching call takes the keyword fallback.
	AIServiceKey    string
	AIBaseURL       string
	AIModel         string
	AITimeout       time.Duration
	AIRatePerMinute int

	AuthJWTSecret      string
	RateLimitPerMinute int

	SESRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string

	LogMode string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	// Missing .env is normal in deployed environments
	_ = godotenv.Load()

	return &Config{
		ServerPort:         getEnv("PORT", "8080"),
		DatabaseType:       getEnv("DB_TYPE", "sqlite"),
		DatabasePath:       getEnv("DB_PATH", "./familycoach.db"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		AIServiceKey:       getEnv("AI_SERVICE_KEY", ""),
		AIBaseURL:          getEnv("AI_BASE_URL", "https://openrouter.ai/api/v1"),
		AIModel:            getEnv("AI_MODEL", "openai/gpt-oss-20b:free"),
		AITimeout:          getEnvDuration("AI_TIMEOUT", 30*time.Second),
		AIRatePerMinute:    getEnvInt("AI_RATE_PER_MINUTE", 60),
		AuthJWTSecret:      getEnv("AUTH_JWT_SECRET", ""),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		SESRegion:          getEnv("SES_REGION", "us-east-1"),
		SESFromEmail:       getEnv("SES_FROM_EMAIL", ""),
		SESFromName:        getEnv("SES_FROM_NAME", "Family Coach"),
		AppBaseURL:         getEnv("APP_BASE_URL", "http://localhost:8080"),
		LogMode:            getEnv("LOG_MODE", "development"),
	}
}

// AIEnabled reports whether a text-generation key is configured
func (c *Config) AIEnabled() bool {
	return c.AIServiceKey != ""
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
