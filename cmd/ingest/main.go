// Package main loads a raw sales CSV export into a database staging table,
// where the report command can read it with --source postgres|clickhouse|mysql.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"weekly-sales-report/internal/config"
	"weekly-sales-report/internal/ingestion"
	"weekly-sales-report/internal/observability"
)

func main() {
	// Load .env file if exists
	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading .env: %v\n", err)
		os.Exit(1)
	}

	app := config.AppFromEnv()
	app.Source = config.EnvOr("INGEST_TARGET", "postgres")
	app.RegisterSourceFlags(flag.CommandLine)
	flag.Parse()

	// The CSV is always the input; --source names the staging database.
	switch strings.ToLower(app.Source) {
	case ingestion.KindPostgres, ingestion.KindClickHouse, ingestion.KindMySQL:
	default:
		fmt.Fprintf(os.Stderr, "Error: --source must be postgres, clickhouse or mysql, got %q\n", app.Source)
		os.Exit(2)
	}
	if err := app.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if app.Input == "" {
		fmt.Fprintln(os.Stderr, "Error: --input is required")
		os.Exit(2)
	}

	logger, err := observability.NewLogger("ingest", app.LogLevel, app.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, app, logger); err != nil {
		logger.Error("ingest failed", zap.Error(err))
		stop()
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, app config.App, logger *zap.Logger) error {
	start := time.Now()

	raw, err := ingestion.NewCSVSource(app.Input).Load(ctx)
	if err != nil {
		return err
	}
	logger.Info("export read", zap.String("input", app.Input), zap.Int("rows", len(raw.Rows)))

	store, err := ingestion.OpenStore(ctx, ingestion.Config{
		Kind:     app.Source,
		Location: app.DSN,
		Table:    app.Table,
		Migrate:  app.Migrate,
	})
	if err != nil {
		return fmt.Errorf("open %s store: %w", app.Source, err)
	}
	defer store.Close()

	if err := store.InsertRaw(ctx, raw); err != nil {
		return fmt.Errorf("insert into %s: %w", app.Table, err)
	}

	logger.Info("export staged",
		zap.String("target", app.Source),
		zap.String("table", app.Table),
		zap.Int("rows", len(raw.Rows)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}
