package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxWorkers   int

	// Logging configuration
	LogFormat string
	LogLevel  string

	// Database configuration
	PostgresURL string

	// Auth configuration
	JWTSecret string

	// Document cache configuration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Archive configuration
	S3Endpoint        string
	S3AccessKeyID     string
	S3AccessKeySecret string
	S3Bucket          string
	S3Region          string
	ArchiveDocuments  bool

	// Composer defaults
	PageSize       string
	Theme          string
	CurrencySymbol string
	Terms          string
	ThankYou       string
}

// LoadConfig loads the application configuration from environment variables
func LoadConfig() (*Config, error) {
	// Get the executable directory
	execPath, err := os.Executable()
	if err != nil {
		slog.Warn("could not determine executable path", "error", err)
	}

	// Determine project root directory
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(execPath)))
	envPath := filepath.Join(projectRoot, ".env")

	// Load .env file if it exists
	if err := godotenv.Load(envPath); err != nil {
		// Try loading from current directory as fallback
		if err := godotenv.Load(); err != nil {
			slog.Info("no .env file found, using environment variables")
		} else {
			slog.Info("loaded environment variables from current directory .env file")
		}
	} else {
		slog.Info("loaded environment variables", "path", envPath)
	}

	config := FromEnv()
	validateConfig(config)

	return config, nil
}

// FromEnv builds the configuration from the process environment only
func FromEnv() *Config {
	return &Config{
		// Server configuration
		Port:         getEnvInt("PORT", 8080),
		ReadTimeout:  getEnvSeconds("READ_TIMEOUT", 15),
		WriteTimeout: getEnvSeconds("WRITE_TIMEOUT", 30),
		MaxWorkers:   getEnvInt("MAX_WORKERS", 5),

		// Logging configuration
		LogFormat: getEnvString("LOG_FORMAT", "pretty"),
		LogLevel:  getEnvString("LOG_LEVEL", "info"),

		// Database configuration
		PostgresURL: os.Getenv("POSTGRES_DB_URL"),

		// Auth configuration
		JWTSecret: os.Getenv("JWT_SECRET"),

		// Document cache configuration
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvSeconds("DOCUMENT_CACHE_TTL", 600),

		// Archive configuration
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3AccessKeySecret: os.Getenv("S3_ACCESS_KEY_SECRET"),
		S3Bucket:          getEnvString("S3_BUCKET", "invoices"),
		S3Region:          getEnvString("S3_REGION", "us-east-1"),
		ArchiveDocuments:  getEnvBool("ARCHIVE_DOCUMENTS", false),

		// Composer defaults
		PageSize:       getEnvString("PDF_PAGE_SIZE", "A4"),
		Theme:          getEnvString("PDF_THEME", "plain"),
		CurrencySymbol: getEnvString("CURRENCY_SYMBOL", "$"),
		Terms:          os.Getenv("PDF_TERMS"),
		ThankYou:       os.Getenv("PDF_THANK_YOU"),
	}
}

// ArchiveEnabled reports whether rendered documents should be uploaded
func (c *Config) ArchiveEnabled() bool {
	return c.ArchiveDocuments && c.S3AccessKeyID != "" && c.S3AccessKeySecret != ""
}

// validateConfig checks if critical configuration values are set and logs warnings if they're missing
func validateConfig(config *Config) {
	if config.JWTSecret == "" {
		slog.Warn("no JWT secret provided, authenticated requests will be rejected")
	}

	if config.PostgresURL == "" {
		slog.Warn("no PostgreSQL URL provided, invoices are kept in memory")
	}

	if config.RedisAddr == "" {
		slog.Warn("no Redis address provided, rendered documents are not cached")
	}

	if config.ArchiveDocuments && !config.ArchiveEnabled() {
		slog.Warn("document archiving requested but S3 credentials are missing, archiving disabled")
	}
}

// getEnvInt gets an integer from an environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		slog.Warn("invalid integer value, using default", "key", key, "value", valueStr, "default", defaultValue)
		return defaultValue
	}

	return value
}

// getEnvSeconds gets a duration given in whole seconds
func getEnvSeconds(key string, defaultSeconds int) time.Duration {
	return time.Duration(getEnvInt(key, defaultSeconds)) * time.Second
}

// getEnvBool gets a boolean from an environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	valueStr = strings.ToLower(valueStr)
	return valueStr == "true" || valueStr == "1" || valueStr == "yes"
}

// getEnvString gets a string from an environment variable with a default value
func getEnvString(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
