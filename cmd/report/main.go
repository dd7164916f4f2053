// Package main runs the weekly sales report once: load the export,
// validate, aggregate, write the outputs, archive and email them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"weekly-sales-report/internal/config"
	"weekly-sales-report/internal/observability"
	"weekly-sales-report/internal/pipeline"
	"weekly-sales-report/internal/validation"
)

func main() {
	// Load .env file if exists
	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading .env: %v\n", err)
		os.Exit(1)
	}

	// Parse flags (env vars as defaults)
	app := config.AppFromEnv()
	app.RegisterSourceFlags(flag.CommandLine)
	noProgress := flag.Bool("no-progress", false, "Hide the stage progress bar")
	flag.Parse()

	if err := app.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	logger, err := observability.NewLogger("report", app.LogLevel, app.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, app, logger, !*noProgress); err != nil {
		logger.Error("weekly report failed", zap.Error(err))
		printViolations(err)
		stop()
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, app config.App, logger *zap.Logger, showProgress bool) error {
	logger.Info("starting weekly report",
		zap.String("source", app.Source),
		zap.String("output_dir", app.OutputDir),
		zap.Bool("email", app.EmailConfigured() && !app.SkipEmail),
	)

	job := pipeline.NewJob(app, config.DefaultRules()).WithLogger(logger)
	if showProgress {
		bar := progressbar.NewOptions(len(pipeline.Stages),
			progressbar.OptionSetDescription("weekly report"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		job = job.WithProgress(func(stage string) {
			bar.Describe(stage)
			_ = bar.Add(1)
		})
		defer func() { _ = bar.Finish() }()
	}

	out, err := job.Run(ctx)
	if err != nil {
		return err
	}

	res := out.Result
	fmt.Printf("\nWeek %s to %s\n",
		res.Periods.Current.Start.Format("2006-01-02"), res.Periods.Current.End.Format("2006-01-02"))
	for _, w := range res.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	for _, line := range res.Insights {
		fmt.Printf("  - %s\n", line)
	}
	fmt.Printf("\nOutputs written to %s/ (archive %s, emailed: %t)\n",
		app.OutputDir, out.Published.Zip, out.Published.Emailed)
	return nil
}

// printViolations lists the failing rows of a critical validation error.
func printViolations(err error) {
	if !errors.Is(err, validation.ErrInvariantViolated) {
		return
	}
	for _, v := range validation.Violations(err) {
		fmt.Fprintf(os.Stderr, "  %s\n", v)
	}
}
