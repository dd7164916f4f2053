package config

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Default output names.
const (
	DefaultDataFile     = "Weekly_Data.xlsx"
	DefaultReportFile   = "Weekly_Report.xlsx"
	DefaultMarkdownFile = "WEEKLY_REPORT.md"
	DefaultZipTemplate  = "Weekly_Sales_Report_{date}.zip"
	DefaultSheet        = "dashboard_data"
	DefaultTable        = "raw_sales"
)

// ErrInvalidApp is returned when runtime settings are inconsistent.
var ErrInvalidApp = errors.New("invalid app config")

// App holds runtime settings of the report commands.
// Values come from flags whose defaults are read from the environment.
type App struct {
	Source string // csv, fixtures, postgres, clickhouse, mysql
	Input  string // CSV path for the csv source
	DSN    string // connection string for database sources
	Table  string // staging table for database sources

	OutputDir    string
	DataFile     string
	ReportFile   string
	MarkdownFile string
	ZipTemplate  string
	Sheet        string

	SendGridKey string
	EmailFrom   string
	EmailTo     string

	MetricsAddr string
	Interval    time.Duration
	RunOnStart  bool

	Migrate   bool
	SkipEmail bool
	Verbose   bool
	LogLevel  string
}

// AppFromEnv returns settings populated from the environment and defaults.
func AppFromEnv() App {
	return App{
		Source:       EnvOr("SALES_SOURCE", "csv"),
		Input:        EnvOr("SALES_INPUT", filepath.Join("data", "sales.csv")),
		DSN:          EnvOr("SALES_DSN", ""),
		Table:        EnvOr("SALES_TABLE", DefaultTable),
		OutputDir:    EnvOr("OUTPUT_DIR", "output"),
		DataFile:     DefaultDataFile,
		ReportFile:   DefaultReportFile,
		MarkdownFile: DefaultMarkdownFile,
		ZipTemplate:  DefaultZipTemplate,
		Sheet:        DefaultSheet,
		SendGridKey:  EnvOr("SENDGRID_API_KEY", ""),
		EmailFrom:    EnvOr("EMAIL_FROM", ""),
		EmailTo:      EnvOr("EMAIL_TO", ""),
		MetricsAddr:  EnvOr("METRICS_ADDR", ":9090"),
		Interval:     EnvDuration("REPORT_INTERVAL", 7*24*time.Hour),
		RunOnStart:   EnvBool("RUN_ON_START", true),
		Migrate:      EnvBool("SALES_MIGRATE", false),
		SkipEmail:    EnvBool("SKIP_EMAIL", false),
		LogLevel:     EnvOr("LOG_LEVEL", "info"),
	}
}

// RegisterSourceFlags binds the ingestion and output flags shared by both commands.
func (a *App) RegisterSourceFlags(fs *flag.FlagSet) {
	fs.StringVar(&a.Source, "source", a.Source, "Input source: csv, fixtures, postgres, clickhouse, mysql")
	fs.StringVar(&a.Input, "input", a.Input, "CSV export path (csv source)")
	fs.StringVar(&a.DSN, "dsn", a.DSN, "Database connection string (database sources)")
	fs.StringVar(&a.Table, "table", a.Table, "Staging table holding the raw export")
	fs.StringVar(&a.OutputDir, "output-dir", a.OutputDir, "Output directory for reports")
	fs.BoolVar(&a.Migrate, "migrate", a.Migrate, "Apply staging table migrations before loading")
	fs.BoolVar(&a.SkipEmail, "skip-email", a.SkipEmail, "Do not send the report email")
	fs.BoolVar(&a.Verbose, "verbose", a.Verbose, "Development logging")
	fs.StringVar(&a.LogLevel, "log-level", a.LogLevel, "Log level: debug, info, warn, error")
}

// RegisterServerFlags binds the scheduler and HTTP flags.
func (a *App) RegisterServerFlags(fs *flag.FlagSet) {
	fs.DurationVar(&a.Interval, "interval", a.Interval, "Report run interval")
	fs.BoolVar(&a.RunOnStart, "run-on-start", a.RunOnStart, "Run a report immediately on start")
	fs.StringVar(&a.MetricsAddr, "metrics-addr", a.MetricsAddr, "HTTP address for /health, /metrics and /status")
}

// Validate checks that the selected source has what it needs.
func (a App) Validate() error {
	switch strings.ToLower(a.Source) {
	case "csv":
		if a.Input == "" {
			return fmt.Errorf("%w: --input is required for csv source", ErrInvalidApp)
		}
	case "fixtures":
	case "postgres", "clickhouse", "mysql":
		if a.DSN == "" {
			return fmt.Errorf("%w: --dsn is required for %s source", ErrInvalidApp, a.Source)
		}
		if a.Migrate && a.Table != DefaultTable {
			return fmt.Errorf("%w: --migrate only creates the %s table", ErrInvalidApp, DefaultTable)
		}
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidApp, a.Source)
	}
	if a.OutputDir == "" {
		return fmt.Errorf("%w: --output-dir is required", ErrInvalidApp)
	}
	if a.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidApp)
	}
	return nil
}

// EmailConfigured reports whether every delivery setting is present.
func (a App) EmailConfigured() bool {
	return a.SendGridKey != "" && a.EmailFrom != "" && a.EmailTo != ""
}

// Location returns the source location passed to ingestion: the CSV path or the DSN.
func (a App) Location() string {
	if strings.EqualFold(a.Source, "csv") {
		return a.Input
	}
	return a.DSN
}

// Paths resolves the output file locations for a run on day.
func (a App) Paths(day time.Time) OutputPaths {
	zipName := strings.ReplaceAll(a.ZipTemplate, "{date}", day.Format("2006-01-02"))
	return OutputPaths{
		Dir:      a.OutputDir,
		Data:     filepath.Join(a.OutputDir, a.DataFile),
		Report:   filepath.Join(a.OutputDir, a.ReportFile),
		Markdown: filepath.Join(a.OutputDir, a.MarkdownFile),
		Zip:      filepath.Join(a.OutputDir, zipName),
		Sheet:    a.Sheet,
	}
}

// OutputPaths are the resolved artifact locations of one run.
type OutputPaths struct {
	Dir      string
	Data     string // spreadsheet with the dashboard tables
	Report   string // formatted report workbook, bundled when present
	Markdown string
	Zip      string
	Sheet    string
}

// ZipGlob returns the pattern matching archives of previous runs.
func (a App) ZipGlob() string {
	return strings.ReplaceAll(a.ZipTemplate, "{date}", "*")
}
