package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"weekly-sales-report/internal/config"
	"weekly-sales-report/internal/delivery"
	"weekly-sales-report/internal/ingestion"
	"weekly-sales-report/internal/observability"
)

// Outcome is the result of one scheduled or manual job.
type Outcome struct {
	Result    *Result
	Published *Published
}

// Job runs and publishes one weekly report from runtime settings.
// A Job is reusable; every Run opens and releases its own source.
type Job struct {
	app      config.App
	rules    config.Rules
	metrics  *observability.Metrics
	logger   *zap.Logger
	clock    func() time.Time
	progress func(stage string)
}

// NewJob creates a job for app using rules.
func NewJob(app config.App, rules config.Rules) *Job {
	return &Job{
		app:      app,
		rules:    rules.Clone(),
		metrics:  observability.DefaultMetrics,
		logger:   zap.NewNop(),
		clock:    func() time.Time { return time.Now().UTC() },
		progress: func(string) {},
	}
}

// WithLogger sets the logger.
func (j *Job) WithLogger(logger *zap.Logger) *Job {
	if logger != nil {
		j.logger = logger
	}
	return j
}

// WithMetrics replaces the default metrics instance.
func (j *Job) WithMetrics(m *observability.Metrics) *Job {
	j.metrics = m
	return j
}

// WithClock sets a custom clock function for deterministic output.
func (j *Job) WithClock(clock func() time.Time) *Job {
	j.clock = clock
	return j
}

// WithProgress sets a hook called after each completed stage.
func (j *Job) WithProgress(fn func(stage string)) *Job {
	j.progress = fn
	return j
}

// Run loads, validates and reports, then writes, archives and emails the outputs.
func (j *Job) Run(ctx context.Context) (*Outcome, error) {
	src, cleanup, err := ingestion.Open(ctx, ingestion.Config{
		Kind:     j.app.Source,
		Location: j.app.Location(),
		Table:    j.app.Table,
		Migrate:  j.app.Migrate,
	})
	if err != nil {
		j.metrics.RecordRun(observability.StatusFailed, 0)
		return nil, fmt.Errorf("open %s source: %w", j.app.Source, err)
	}
	defer cleanup()

	res, err := NewWeekly(Options{Source: src, SourceKind: j.app.Source, Rules: j.rules}).
		WithLogger(j.logger).
		WithMetrics(j.metrics).
		WithClock(j.clock).
		WithProgress(j.progress).
		Run(ctx)
	if err != nil {
		return nil, err
	}

	mailer, err := j.mailer()
	if err != nil {
		return nil, err
	}

	pub, err := NewPublisher(mailer).
		WithLogger(j.logger).
		WithMetrics(j.metrics).
		Publish(ctx, res, j.app.Paths(res.GeneratedAt), j.app.ZipGlob())
	if err != nil {
		return nil, fmt.Errorf("publish report: %w", err)
	}

	j.logger.Info("report published",
		zap.String("run_id", res.RunID),
		zap.String("zip", pub.Zip),
		zap.Int("files", len(pub.Files)),
		zap.Bool("emailed", pub.Emailed),
	)
	return &Outcome{Result: res, Published: pub}, nil
}

// mailer returns nil when delivery is skipped or not configured.
func (j *Job) mailer() (*delivery.Mailer, error) {
	if j.app.SkipEmail {
		return nil, nil
	}
	if !j.app.EmailConfigured() {
		j.logger.Warn("email settings incomplete, skipping delivery")
		return nil, nil
	}
	m, err := delivery.NewMailer(delivery.Config{
		APIKey: j.app.SendGridKey,
		From:   j.app.EmailFrom,
		To:     j.app.EmailTo,
	})
	if err != nil {
		return nil, fmt.Errorf("create mailer: %w", err)
	}
	return m, nil
}
