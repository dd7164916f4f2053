package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"weekly-sales-report/internal/archive"
	"weekly-sales-report/internal/config"
	"weekly-sales-report/internal/delivery"
	"weekly-sales-report/internal/observability"
	"weekly-sales-report/internal/reporting"
)

// TablesDir is the output subdirectory holding one CSV per table.
const TablesDir = "tables"

// WriteOutputs writes the workbook, the markdown report and the per-table CSVs.
// Returns the written paths, workbook first.
func WriteOutputs(res *Result, paths config.OutputPaths) ([]string, error) {
	if res == nil || res.Report == nil {
		return nil, errors.New("no report to write")
	}

	tablesDir := filepath.Join(paths.Dir, TablesDir)
	if err := os.MkdirAll(tablesDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string

	if err := reporting.WriteWorkbook(paths.Data, paths.Sheet, res.Report.Tables); err != nil {
		return written, fmt.Errorf("write %s: %w", filepath.Base(paths.Data), err)
	}
	written = append(written, paths.Data)

	if err := os.WriteFile(paths.Markdown, []byte(reporting.RenderMarkdown(res.Report)), 0644); err != nil {
		return written, fmt.Errorf("write %s: %w", filepath.Base(paths.Markdown), err)
	}
	written = append(written, paths.Markdown)

	for i := range res.Report.Tables {
		t := &res.Report.Tables[i]
		path := filepath.Join(tablesDir, reporting.CSVFileName(t))
		if err := os.WriteFile(path, []byte(reporting.RenderCSV(t)), 0644); err != nil {
			return written, fmt.Errorf("write %s: %w", filepath.Base(path), err)
		}
		written = append(written, path)
	}

	return written, nil
}

// Published describes the artifacts of a published run.
type Published struct {
	Files    []string
	Zip      string
	Archived int  // files inside Zip
	Emailed  bool // false when delivery is off or failed
}

// Publisher writes, bundles and delivers the outputs of a run.
type Publisher struct {
	bundler *archive.Bundler
	mailer  *delivery.Mailer // nil disables delivery
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewPublisher creates a Publisher. mailer may be nil.
func NewPublisher(mailer *delivery.Mailer) *Publisher {
	return &Publisher{
		bundler: archive.NewBundler(),
		mailer:  mailer,
		metrics: observability.DefaultMetrics,
		logger:  zap.NewNop(),
	}
}

// WithLogger sets the logger.
func (p *Publisher) WithLogger(logger *zap.Logger) *Publisher {
	if logger == nil {
		return p
	}
	p.logger = logger
	p.bundler = p.bundler.WithLogger(logger.Named("archive"))
	if p.mailer != nil {
		p.mailer = p.mailer.WithLogger(logger.Named("delivery"))
	}
	return p
}

// WithMetrics replaces the default metrics instance.
func (p *Publisher) WithMetrics(m *observability.Metrics) *Publisher {
	p.metrics = m
	return p
}

// Publish writes the outputs, replaces older archives with a fresh one and emails it.
// Output and archive failures are returned; delivery failures are logged and
// counted only, so a run is never lost to a mail outage.
func (p *Publisher) Publish(ctx context.Context, res *Result, paths config.OutputPaths, staleGlob string) (*Published, error) {
	files, err := WriteOutputs(res, paths)
	if err != nil {
		return nil, err
	}
	out := &Published{Files: files, Zip: paths.Zip}

	if _, err := p.bundler.RemoveStale(paths.Dir, staleGlob, paths.Zip); err != nil {
		p.logger.Warn("could not remove previous archives", zap.Error(err))
	}
	out.Archived, err = p.bundler.Bundle(paths.Zip, paths.Data, paths.Report)
	if err != nil {
		return out, fmt.Errorf("bundle outputs: %w", err)
	}

	if p.mailer == nil {
		p.logger.Info("email delivery disabled")
		return out, nil
	}
	if err := p.mailer.SendWeeklyReport(ctx, paths.Zip, res.Periods); err != nil {
		p.metrics.RecordEmail(observability.StatusFailed)
		p.logger.Error("failed to send email", zap.Error(err))
		return out, nil
	}
	p.metrics.RecordEmail(observability.StatusSuccess)
	out.Emailed = true
	return out, nil
}
