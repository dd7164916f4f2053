package reporting

import (
	"time"

	"weekly-sales-report/internal/domain"
)

// Report is the rendered view of one weekly run.
type Report struct {
	// Metadata
	RunID       string
	GeneratedAt time.Time
	Periods     domain.Periods

	// Dataset summary of the cleaned table
	Summary domain.DatasetSummary

	// Data quality warnings, in the order they were raised
	DataQuality []QualityIssue

	Metrics  *domain.MetricsRecord
	Insights []string

	// Output tables in TableOrder
	Tables []domain.Table
}

// QualityIssue is one non-blocking data quality finding.
type QualityIssue struct {
	Check   string
	Message string
	Rows    int
	Values  []string
	Samples []string
}

// Table returns the named output table.
func (r *Report) Table(name string) (*domain.Table, bool) {
	for i := range r.Tables {
		if r.Tables[i].Name == name {
			return &r.Tables[i], true
		}
	}
	return nil, false
}
