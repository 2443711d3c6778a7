package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application settings read from the environment.
type Config struct {
	DatabaseURL    string
	DBMaxOpenConns int
	JWTSecretKey   string
	ServerPort     int

	PolicyFile         string
	NotifyWebhookURL   string
	CORSAllowedOrigins []string
	StatsSyncInterval  time.Duration

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// StorageEnabled reports whether object storage credentials are configured.
func (c *Config) StorageEnabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

// Load reads configuration from environment variables.
// A .env file is loaded first when present, which is handy for local development.
func Load() (*Config, error) {
	LoadDotEnv()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := parsePort(getEnvOrDefault("SERVER_PORT", "8080"))
	if err != nil {
		return nil, err
	}

	maxOpen, err := strconv.Atoi(getEnvOrDefault("DB_MAX_OPEN_CONNS", "25"))
	if err != nil || maxOpen < 1 {
		return nil, fmt.Errorf("invalid DB_MAX_OPEN_CONNS environment variable: %q", os.Getenv("DB_MAX_OPEN_CONNS"))
	}

	syncInterval, err := time.ParseDuration(getEnvOrDefault("STATS_SYNC_INTERVAL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATS_SYNC_INTERVAL environment variable: %w", err)
	}
	if syncInterval < 0 {
		return nil, fmt.Errorf("STATS_SYNC_INTERVAL must not be negative, got %s", syncInterval)
	}

	cfg := &Config{
		DatabaseURL:        dbURL,
		DBMaxOpenConns:     maxOpen,
		JWTSecretKey:       jwtKey,
		ServerPort:         port,
		PolicyFile:         os.Getenv("POLICY_FILE"),
		NotifyWebhookURL:   os.Getenv("NOTIFY_WEBHOOK_URL"),
		CORSAllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		StatsSyncInterval:  syncInterval,
		R2AccountID:        os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:      os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:  os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:       os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:    os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}

// LoadDotEnv loads .env into the process environment when the file exists.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// LoadDatabaseURL is the subset of Load used by command line tools that only talk to the database.
func LoadDatabaseURL() (string, error) {
	LoadDotEnv()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return "", fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	return dbURL, nil
}

func parsePort(portStr string) (int, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	return port, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
