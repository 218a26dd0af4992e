package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/api"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/logging"
	"github.com/pageza/recipebox/backend/internal/server"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/storage"
)

func main() {
	ctx := context.Background()
	log := logging.New(os.Stdout, config.IsProduction())

	if err := run(ctx, log); err != nil {
		log.Error(ctx, "server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log logging.Logger) error {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(ctx, db); err != nil {
		return err
	}

	store, mediaRoot, err := newImageStore(ctx, cfg)
	if err != nil {
		return err
	}

	// Redis is optional. Without it rate limits are kept per process.
	var rdb *redis.Client
	if cfg.RedisEnabled() {
		if rdb, err = database.NewRedisClient(ctx, cfg); err != nil {
			log.Warn(ctx, "redis unavailable, using in-process rate limits", "error", err)
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	recipes := service.NewRecipeService(db, store, log, cfg.MaxUploadSize)
	srv := server.New(cfg, api.Deps{
		DB:              db,
		Redis:           rdb,
		Auth:            service.NewAuthService(db, store, log, cfg.JWTSecret, cfg.TokenTTL),
		Recipes:         recipes,
		Profiles:        service.NewProfileService(db, store, recipes, log, cfg.MaxUploadSize),
		Collections:     service.NewCollectionService(db, log),
		Log:             log,
		MaxUploadSize:   cfg.MaxUploadSize,
		RecipeRateLimit: cfg.RecipeRateLimit,
		MediaRoot:       mediaRoot,
		MediaPrefix:     cfg.MediaBaseURL,
	})

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting server", "addr", cfg.Addr(), "env", cfg.Env, "db", cfg.DBDriver, "storage", cfg.StorageBackend)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		log.Info(ctx, "received signal", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info(ctx, "server stopped")
	return nil
}

// newImageStore returns the configured store and, for the local backend, the
// directory to serve under the media prefix.
func newImageStore(ctx context.Context, cfg *config.Config) (storage.ImageStore, string, error) {
	switch cfg.StorageBackend {
	case config.StorageS3:
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, "", err
		}
		return storage.NewS3Store(s3cfg), "", nil
	case config.StorageLocal:
		store, err := storage.NewLocalStore(cfg.MediaDir, cfg.MediaBaseURL)
		if err != nil {
			return nil, "", err
		}
		// Absolute base URLs point at another host serving the directory.
		if !strings.HasPrefix(cfg.MediaBaseURL, "/") {
			return store, "", nil
		}
		return store, store.Root(), nil
	default:
		return nil, "", errors.New("unknown storage backend " + cfg.StorageBackend)
	}
}
