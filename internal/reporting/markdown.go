package reporting

import (
	"fmt"
	"strings"
	"time"

	"weekly-sales-report/internal/domain"
)

// Section titles of the output tables.
var tableTitles = map[string]string{
	TableKPIs:                "Key Metrics",
	TablePercentageChanges:   "Percentage Changes",
	TableTopPerformers:       "Top Performers",
	TableSalesByProduct:      "Sales by Product Line",
	TableSalesByDay:          "Sales by Day",
	TablePaymentDistribution: "Payment Distribution",
	TableInsights:            "Insights",
	TableReportInfo:          "Report Information",
}

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Weekly Sales Performance Report\n\n")
	sb.WriteString(fmt.Sprintf("Week: %s to %s\n\n",
		r.Periods.Current.Start.Format("2006-01-02"), r.Periods.Current.End.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	if r.RunID != "" {
		sb.WriteString(fmt.Sprintf("Run: %s\n\n", r.RunID))
	}

	// Dataset
	sb.WriteString("## Dataset\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(printer.Sprintf("| Total Rows | %d |\n", r.Summary.Rows))
	sb.WriteString(fmt.Sprintf("| Date Range | %s to %s |\n", formatDate(r.Summary.FirstDate), formatDate(r.Summary.LastDate)))
	sb.WriteString(printer.Sprintf("| Unique Invoices | %d |\n", r.Summary.UniqueInvoices))
	sb.WriteString(fmt.Sprintf("| Last Week | %s to %s |\n", formatDate(r.Periods.LastWeek.Start), formatDate(r.Periods.LastWeek.End)))
	sb.WriteString(fmt.Sprintf("| Baseline | %s to %s |\n", formatDate(r.Periods.FourWeeks.Start), formatDate(r.Periods.FourWeeks.End)))
	sb.WriteString("\n")

	// Data Quality
	sb.WriteString("## Data Quality\n\n")
	if len(r.DataQuality) == 0 {
		sb.WriteString("No data quality warnings.\n\n")
	} else {
		sb.WriteString("| Check | Rows | Detail |\n")
		sb.WriteString("|-------|------|--------|\n")
		for _, q := range r.DataQuality {
			detail := q.Message
			if len(q.Values) > 0 {
				detail += ": " + strings.Join(q.Values, ", ")
			}
			if len(q.Samples) > 0 {
				detail += " (e.g. " + strings.Join(q.Samples, ", ") + ")"
			}
			sb.WriteString(fmt.Sprintf("| %s | %d | %s |\n", q.Check, q.Rows, escapeCell(detail)))
		}
		sb.WriteString("\n")
	}

	// Output tables
	for i := range r.Tables {
		t := &r.Tables[i]
		title := tableTitles[t.Name]
		if title == "" {
			title = t.Name
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n", title))
		if len(t.Rows) == 0 {
			sb.WriteString("No data for this week.\n\n")
			continue
		}
		renderTable(&sb, t)
		sb.WriteString("\n")
	}

	return sb.String()
}

func renderTable(sb *strings.Builder, t *domain.Table) {
	sb.WriteString("| " + strings.Join(t.Columns, " | ") + " |\n")
	seps := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		seps[i] = strings.Repeat("-", len(c))
	}
	sb.WriteString("|" + strings.Join(seps, "|") + "|\n")

	for r := range t.Rows {
		cells := make([]string, len(t.Columns))
		for c := range t.Columns {
			if c < len(t.Rows[r]) {
				cells[c] = escapeCell(FormatCell(t, r, c))
			}
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
