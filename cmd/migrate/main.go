// Command migrate applies the embedded database migrations.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/hireflow/candidate-assessor/internal/adapter/repo/postgres"
	"github.com/hireflow/candidate-assessor/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := sql.Open("pgx", cfg.DBURL)
	if err != nil {
		slog.Error("db open failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := postgres.RunMigrations(context.Background(), db); err != nil {
		slog.Error("migrations failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("migrations applied")
}
