package reporting

import (
	"time"

	"weekly-sales-report/internal/domain"
)

// Input carries the engine artifacts a report is built from.
type Input struct {
	RunID       string
	Periods     domain.Periods
	Summary     domain.DatasetSummary
	Metrics     *domain.MetricsRecord
	Insights    []string
	Current     []domain.Sale // current-window rows
	DataQuality []QualityIssue
}

// Generator assembles reports from run artifacts.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds the report and its output tables.
func (g *Generator) Generate(in Input) *Report {
	generatedAt := g.now()
	return &Report{
		RunID:       in.RunID,
		GeneratedAt: generatedAt,
		Periods:     in.Periods,
		Summary:     in.Summary,
		DataQuality: in.DataQuality,
		Metrics:     in.Metrics,
		Insights:    in.Insights,
		Tables:      BuildTables(in.Metrics, in.Insights, in.Periods, in.Current, generatedAt),
	}
}
