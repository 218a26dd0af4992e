package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	for _, key := range []string{
		"SERVER_PORT", "CORS_ORIGINS", "DB_DRIVER", "DB_HOST", "DB_PASSWORD", "JWT_SECRET", "JWT_TTL",
		"REDIS_URL", "REDIS_HOST", "STORAGE_BACKEND", "MAX_UPLOAD_SIZE", "RECIPE_RATE_LIMIT",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func TestLoadConfig(t *testing.T) {
	isolate(t)
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Env)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "host=db port=5432 user=postgres password=postgres dbname=recipebox sslmode=disable", cfg.DSN())
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadConfigWithDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "recipebox.db", cfg.SQLitePath)
	assert.Equal(t, StorageLocal, cfg.StorageBackend)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadSize)
	assert.Equal(t, 5, cfg.RecipeRateLimit)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.RedisEnabled())
}

func TestLoadConfigFromSecrets(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("from-secret\n"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.JWTSecret)
}

func TestLoadConfigFromEnvFile(t *testing.T) {
	dir := isolate(t)
	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("MEDIA_DIR=uploads\n"), 0o600))
	t.Setenv("ENV_FILE", envPath)
	// godotenv never overrides a variable that exists, even when empty.
	t.Setenv("MEDIA_DIR", "")
	require.NoError(t, os.Unsetenv("MEDIA_DIR"))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "uploads", cfg.MediaDir)
}

func TestValidateConfigProduction(t *testing.T) {
	isolate(t)
	t.Setenv("ENV", "production")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("STORAGE_BACKEND", "ftp")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "STORAGE_BACKEND")
}

func TestLoadConfigRejectsBadNumbers(t *testing.T) {
	isolate(t)
	t.Setenv("RECIPE_RATE_LIMIT", "many")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "RECIPE_RATE_LIMIT")
}
