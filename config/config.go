package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	StorageLocal = "local"
	StorageS3    = "s3"

	defaultJWTSecret = "recipebox-dev-secret"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration, optional
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret string
	TokenTTL  time.Duration

	// Media storage
	StorageBackend string
	MediaDir       string
	MediaBaseURL   string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	MaxUploadSize  int64

	// Recipe submissions allowed per user per hour
	RecipeRateLimit int
}

// LoadConfig builds a Config from .env, the process environment and Docker secrets.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	// A missing .env is normal outside development.
	if env != Production {
		_ = godotenv.Load(envFile())
	}

	cfg := &Config{Env: env}
	if err := loadValues(cfg); err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func envFile() string {
	if path := os.Getenv("ENV_FILE"); path != "" {
		return path
	}
	return ".env"
}

func loadValues(cfg *Config) error {
	cfg.ServerPort = lookup("SERVER_PORT", "8080")
	cfg.ServerHost = lookup("SERVER_HOST", "0.0.0.0")
	cfg.CORSOrigins = splitList(lookup("CORS_ORIGINS", "http://localhost:5173"))

	cfg.DBDriver = strings.ToLower(lookup("DB_DRIVER", DriverSQLite))
	cfg.DBHost = lookup("DB_HOST", "localhost")
	cfg.DBPort = lookup("DB_PORT", "5432")
	cfg.DBUser = lookup("DB_USER", "postgres")
	cfg.DBPassword = lookup("DB_PASSWORD", "")
	cfg.DBName = lookup("DB_NAME", "recipebox")
	cfg.DBSSLMode = lookup("DB_SSL_MODE", "disable")
	cfg.SQLitePath = lookup("SQLITE_PATH", "recipebox.db")

	cfg.RedisURL = lookup("REDIS_URL", "")
	cfg.RedisHost = lookup("REDIS_HOST", "")
	cfg.RedisPort = lookup("REDIS_PORT", "6379")
	cfg.RedisPassword = lookup("REDIS_PASSWORD", "")

	cfg.JWTSecret = lookup("JWT_SECRET", defaultJWTSecret)

	cfg.StorageBackend = strings.ToLower(lookup("STORAGE_BACKEND", StorageLocal))
	cfg.MediaDir = lookup("MEDIA_DIR", "media")
	cfg.MediaBaseURL = lookup("MEDIA_BASE_URL", "/media")
	cfg.S3Bucket = lookup("S3_BUCKET_NAME", "recipebox-media")
	cfg.S3Region = lookup("AWS_REGION", "us-east-1")
	cfg.S3Endpoint = lookup("S3_ENDPOINT", "")
	cfg.S3AccessKey = lookup("AWS_ACCESS_KEY_ID", "")
	cfg.S3SecretKey = lookup("AWS_SECRET_ACCESS_KEY", "")

	var err error
	if cfg.RedisDB, err = strconv.Atoi(lookup("REDIS_DB", "0")); err != nil {
		return fmt.Errorf("REDIS_DB: %w", err)
	}
	if cfg.TokenTTL, err = time.ParseDuration(lookup("JWT_TTL", "24h")); err != nil {
		return fmt.Errorf("JWT_TTL: %w", err)
	}
	if cfg.MaxUploadSize, err = strconv.ParseInt(lookup("MAX_UPLOAD_SIZE", "5242880"), 10, 64); err != nil {
		return fmt.Errorf("MAX_UPLOAD_SIZE: %w", err)
	}
	if cfg.RecipeRateLimit, err = strconv.Atoi(lookup("RECIPE_RATE_LIMIT", "5")); err != nil {
		return fmt.Errorf("RECIPE_RATE_LIMIT: %w", err)
	}
	return nil
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// URL returns the postgres connection string in URL form, as lib/pq and goose expect it.
func (c *Config) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// RedisEnabled reports whether a Redis server was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// lookup reads key from the environment, then from the Docker secret named after it.
func lookup(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return strings.TrimSpace(v)
	}
	if v := readSecret(strings.ToLower(key)); v != "" {
		return v
	}
	return fallback
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
