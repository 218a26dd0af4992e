package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines what must be set explicitly for an environment.
type ConfigRequirements struct {
	RequirePassword  bool
	RequireJWTSecret bool
}

var requirements = map[Environment]ConfigRequirements{
	Development: {},
	Test:        {},
	CI:          {RequireJWTSecret: true},
	Production:  {RequirePassword: true, RequireJWTSecret: true},
}

// ValidateConfig checks cfg and reports every problem found, not only the first.
func ValidateConfig(cfg *Config) error {
	reqs := requirements[cfg.Env]
	var errs []string
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	if cfg.ServerPort == "" {
		add("SERVER_PORT", "must not be empty")
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		if cfg.DBHost == "" || cfg.DBName == "" || cfg.DBUser == "" {
			add("DB_HOST", "postgres requires DB_HOST, DB_NAME and DB_USER")
		}
		if reqs.RequirePassword && cfg.DBPassword == "" {
			add("DB_PASSWORD", fmt.Sprintf("required in %s", cfg.Env))
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			add("SQLITE_PATH", "must not be empty")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if reqs.RequireJWTSecret && (cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret) {
		add("JWT_SECRET", fmt.Sprintf("an explicit secret is required in %s", cfg.Env))
	}
	if cfg.TokenTTL <= 0 {
		add("JWT_TTL", "must be positive")
	}

	switch cfg.StorageBackend {
	case StorageLocal:
		if cfg.MediaDir == "" {
			add("MEDIA_DIR", "must not be empty")
		}
	case StorageS3:
		if cfg.S3Bucket == "" {
			add("S3_BUCKET_NAME", "must not be empty")
		}
	default:
		add("STORAGE_BACKEND", fmt.Sprintf("unsupported backend %q", cfg.StorageBackend))
	}

	if cfg.MaxUploadSize <= 0 {
		add("MAX_UPLOAD_SIZE", "must be positive")
	}
	if cfg.RecipeRateLimit <= 0 {
		add("RECIPE_RATE_LIMIT", "must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
