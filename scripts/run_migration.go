package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/ridwanfathin/invoice-composer-service/internal/database"
	"github.com/ridwanfathin/invoice-composer-service/internal/logging"
)

func main() {
	logging.Setup("pretty", "info")

	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	// Get database URL
	dbURL := os.Getenv("POSTGRES_DB_URL")
	if dbURL == "" {
		slog.Error("POSTGRES_DB_URL environment variable not set")
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := database.NewPostgresDB(ctx, dbURL, 1)
	if err != nil {
		slog.Error("unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	files, err := filepath.Glob("scripts/migrations/*.sql")
	if err != nil || len(files) == 0 {
		slog.Error("no migration files found", "error", err)
		os.Exit(1)
	}
	sort.Strings(files)

	for _, file := range files {
		migrationSQL, err := os.ReadFile(file)
		if err != nil {
			slog.Error("unable to read migration file", "file", file, "error", err)
			os.Exit(1)
		}

		err = db.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
			_, err := tx.Exec(ctx, string(migrationSQL))
			return err
		})
		if err != nil {
			slog.Error("failed to execute migration", "file", file, "error", err)
			os.Exit(1)
		}
		slog.Info("migration applied", "file", file)
	}
}
