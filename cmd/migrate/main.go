package main

import (
	"context"
	"database/sql"
	"flag"
	"os"

	_ "github.com/lib/pq"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/logging"
)

func main() {
	down := flag.Bool("down", false, "Roll back the last migration")
	flag.Parse()

	ctx := context.Background()
	log := logging.New(os.Stdout, config.IsProduction())

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.DBDriver != config.DriverPostgres {
		log.Error(ctx, "migrations only run against postgres, sqlite is migrated on startup", "driver", cfg.DBDriver)
		os.Exit(1)
	}

	// DATABASE_URL overrides the discrete DB_* settings.
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = cfg.URL()
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Error(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if *down {
		err = database.MigrateDown(ctx, db)
	} else {
		err = database.MigrateUp(ctx, db)
	}
	if err != nil {
		log.Error(ctx, "migration failed", "error", err)
		os.Exit(1)
	}
	log.Info(ctx, "migrations complete", "down", *down)
}
