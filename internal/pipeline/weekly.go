// Package pipeline runs the weekly report end to end: load, validate,
// resolve windows, aggregate, generate insights and build the report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"weekly-sales-report/internal/config"
	"weekly-sales-report/internal/domain"
	"weekly-sales-report/internal/ingestion"
	"weekly-sales-report/internal/insights"
	"weekly-sales-report/internal/metrics"
	"weekly-sales-report/internal/observability"
	"weekly-sales-report/internal/period"
	"weekly-sales-report/internal/reporting"
	"weekly-sales-report/internal/validation"
)

// Stage names, in execution order.
const (
	StageLoad      = "load"
	StageValidate  = "validate"
	StageResolve   = "resolve"
	StageAggregate = "aggregate"
	StageInsights  = "insights"
	StageReport    = "report"
)

// Stages lists every stage of Run in order.
var Stages = []string{StageLoad, StageValidate, StageResolve, StageAggregate, StageInsights, StageReport}

// Options configures a Weekly run.
type Options struct {
	Source     ingestion.Source
	SourceKind string // metrics label; defaults to "unknown"
	Rules      config.Rules
}

// Result holds every artifact of one successful run.
type Result struct {
	RunID       string
	GeneratedAt time.Time

	LoadedRows int
	Table      *domain.CleanedTable
	Warnings   []validation.Warning
	Summary    domain.DatasetSummary

	Periods  domain.Periods
	Windows  period.Windows
	Metrics  *domain.MetricsRecord
	Insights []string

	Report *reporting.Report
}

// Weekly orchestrates one report run over a source.
type Weekly struct {
	source     ingestion.Source
	sourceKind string
	rules      config.Rules
	validator  *validation.Validator
	aggregator *metrics.Aggregator
	insights   *insights.Generator
	reportGen  *reporting.Generator
	metrics    *observability.Metrics
	logger     *zap.Logger
	clock      func() time.Time
	progress   func(stage string)
}

// NewWeekly creates a run over opts.Source.
func NewWeekly(opts Options) *Weekly {
	kind := opts.SourceKind
	if kind == "" {
		kind = "unknown"
	}
	rules := opts.Rules.Clone()
	return &Weekly{
		source:     opts.Source,
		sourceKind: kind,
		rules:      rules,
		validator:  validation.NewValidator(rules),
		aggregator: metrics.NewAggregator(rules),
		insights:   insights.NewGenerator(rules),
		reportGen:  reporting.NewGenerator(),
		metrics:    observability.DefaultMetrics,
		logger:     zap.NewNop(),
		clock:      func() time.Time { return time.Now().UTC() },
		progress:   func(string) {},
	}
}

// WithClock sets a custom clock function for deterministic output.
func (w *Weekly) WithClock(clock func() time.Time) *Weekly {
	w.clock = clock
	w.reportGen = w.reportGen.WithClock(clock)
	return w
}

// WithLogger sets the logger of the run and its validator.
func (w *Weekly) WithLogger(logger *zap.Logger) *Weekly {
	if logger == nil {
		return w
	}
	w.logger = logger
	w.validator = w.validator.WithLogger(logger.Named("validation"))
	return w
}

// WithMetrics replaces the default metrics instance.
func (w *Weekly) WithMetrics(m *observability.Metrics) *Weekly {
	w.metrics = m
	return w
}

// WithProgress sets a hook called after each completed stage.
func (w *Weekly) WithProgress(fn func(stage string)) *Weekly {
	w.progress = fn
	return w
}

// Run executes every stage. On error no partial result is returned.
func (w *Weekly) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	res := &Result{RunID: uuid.NewString()}
	logger := w.logger.With(zap.String("run_id", res.RunID))

	err := w.run(ctx, res, logger)
	if err != nil {
		w.metrics.RecordRun(observability.StatusFailed, time.Since(started).Seconds())
		logger.Error("report run failed", zap.Error(err))
		return nil, err
	}

	w.metrics.RecordRun(observability.StatusSuccess, time.Since(started).Seconds())
	w.metrics.RecordReport(res.Metrics.TotalSales, res.Metrics.Transactions, res.GeneratedAt.Unix())
	logger.Info("report run completed",
		zap.Duration("duration", time.Since(started)),
		zap.Float64("total_sales", res.Metrics.TotalSales),
		zap.Int("transactions", res.Metrics.Transactions),
	)
	return res, nil
}

func (w *Weekly) run(ctx context.Context, res *Result, logger *zap.Logger) error {
	// 1. Load
	var raw *domain.RawTable
	err := w.stage(ctx, StageLoad, func() error {
		loadStart := time.Now()
		var err error
		raw, err = w.source.Load(ctx)
		w.metrics.RecordSourceLoad(w.sourceKind, time.Since(loadStart).Seconds(), err)
		if err != nil {
			if errors.Is(err, validation.ErrMalformedInput) {
				w.metrics.RecordFatal(fatalKind(err))
			}
			return fmt.Errorf("load %s source: %w", w.sourceKind, err)
		}
		if raw == nil {
			raw = &domain.RawTable{}
		}
		res.LoadedRows = len(raw.Rows)
		logger.Info("raw export loaded", zap.String("source", w.sourceKind), zap.Int("rows", res.LoadedRows))
		return nil
	})
	if err != nil {
		return err
	}

	// 2. Validate
	err = w.stage(ctx, StageValidate, func() error {
		vr, err := w.validator.Validate(raw)
		if err != nil {
			w.metrics.RecordFatal(fatalKind(err))
			return err
		}
		res.Table = vr.Table
		res.Warnings = vr.Warnings
		res.Summary = vr.Table.Summary()

		byCheck := make(map[string]int, len(vr.Warnings))
		for _, wn := range vr.Warnings {
			byCheck[wn.Check] = wn.Count
		}
		w.metrics.RecordValidation(res.LoadedRows, vr.DroppedRows(), vr.Table.Len(), byCheck)

		logger.Info("dataset summary",
			zap.Int("rows", res.Summary.Rows),
			zap.Time("first_date", res.Summary.FirstDate),
			zap.Time("last_date", res.Summary.LastDate),
			zap.Int("unique_invoices", res.Summary.UniqueInvoices),
			zap.Int("warnings", len(vr.Warnings)),
		)
		return nil
	})
	if err != nil {
		return err
	}

	// 3. Resolve windows
	err = w.stage(ctx, StageResolve, func() error {
		res.Periods = period.ResolveWithBaseline(period.LatestDate(res.Table), w.rules.BaselineWeeks)
		res.Windows = period.Split(res.Table, res.Periods)
		logger.Info("reporting windows",
			zap.Time("week_start", res.Periods.Current.Start),
			zap.Time("week_end", res.Periods.Current.End),
			zap.Int("current_rows", len(res.Windows.Current)),
			zap.Int("last_week_rows", len(res.Windows.LastWeek)),
			zap.Int("baseline_rows", len(res.Windows.FourWeeks)),
		)
		return nil
	})
	if err != nil {
		return err
	}

	// 4. Aggregate
	err = w.stage(ctx, StageAggregate, func() error {
		res.Metrics = w.aggregator.Aggregate(res.Windows.Current, res.Windows.LastWeek, res.Windows.FourWeeks)
		return nil
	})
	if err != nil {
		return err
	}

	// 5. Insights
	err = w.stage(ctx, StageInsights, func() error {
		res.Insights = w.insights.Generate(res.Metrics)
		return nil
	})
	if err != nil {
		return err
	}

	// 6. Report
	return w.stage(ctx, StageReport, func() error {
		res.Report = w.reportGen.Generate(reporting.Input{
			RunID:       res.RunID,
			Periods:     res.Periods,
			Summary:     res.Summary,
			Metrics:     res.Metrics,
			Insights:    res.Insights,
			Current:     res.Windows.Current,
			DataQuality: QualityIssues(res.Warnings),
		})
		res.GeneratedAt = res.Report.GeneratedAt
		return nil
	})
}

// stage runs fn unless ctx is done, records its duration and reports progress.
func (w *Weekly) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	start := time.Now()
	if err := fn(); err != nil {
		return err
	}
	w.metrics.RecordStage(name, time.Since(start).Seconds())
	w.progress(name)
	return nil
}

// QualityIssues converts validator warnings into report entries.
func QualityIssues(warnings []validation.Warning) []reporting.QualityIssue {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]reporting.QualityIssue, len(warnings))
	for i, w := range warnings {
		out[i] = reporting.QualityIssue{
			Check:   w.Check,
			Message: w.Message,
			Rows:    w.Count,
			Values:  w.Values,
			Samples: w.Samples,
		}
	}
	return out
}

// fatalKind returns the metrics label of a fatal validation error.
func fatalKind(err error) string {
	switch {
	case errors.Is(err, validation.ErrMalformedInput):
		return "malformed_input"
	case errors.Is(err, validation.ErrMissingColumns):
		return "missing_columns"
	case errors.Is(err, validation.ErrInvariantViolated):
		return "invariant_violated"
	case errors.Is(err, validation.ErrNoValidRows):
		return "no_valid_rows"
	default:
		return "other"
	}
}
