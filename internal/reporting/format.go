package reporting

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"weekly-sales-report/internal/domain"
)

// Spreadsheet number formats.
const (
	FormatAmount  = "#,##0.0"
	FormatCount   = "#,##0"
	FormatRating  = "0.0"
	FormatPercent = "0.0%"
)

// NumberFormat returns the display format of the cell at (row, col) of t,
// or "" for non-numeric cells.
func NumberFormat(t *domain.Table, row, col int) string {
	if row >= len(t.Rows) || col >= len(t.Rows[row]) || col >= len(t.Columns) {
		return ""
	}
	v := t.Rows[row][col]
	if !isNumber(v) {
		return ""
	}
	column := t.Columns[col]

	switch {
	case t.Name == TableTopPerformers && column == "Value":
		// product and branch sales, then the payment share
		if row < 2 {
			return FormatAmount
		}
		return FormatPercent
	case t.Name == TablePercentageChanges:
		return FormatPercent
	case t.Name == TablePaymentDistribution && column == "Percentage":
		return FormatPercent
	case t.Name == TableKPIs && column == "Value":
		metric, _ := t.Rows[row][0].(string)
		switch metric {
		case MetricTotalSales, MetricAvgTicket, MetricGrossIncome:
			return FormatAmount
		case MetricTransactions, MetricTotalQuantity:
			return FormatCount
		case MetricAvgRating:
			return FormatRating
		}
	}

	if _, ok := v.(int); ok {
		return FormatCount
	}
	return FormatAmount
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int64, float64:
		return true
	}
	return false
}

var printer = message.NewPrinter(language.English)

// FormatCell renders a cell as text using NumberFormat.
func FormatCell(t *domain.Table, row, col int) string {
	v := t.Rows[row][col]
	f := toFloat(v)
	switch NumberFormat(t, row, col) {
	case FormatAmount:
		return printer.Sprintf("%.1f", f)
	case FormatCount:
		return printer.Sprintf("%.0f", f)
	case FormatRating:
		return printer.Sprintf("%.1f", f)
	case FormatPercent:
		return printer.Sprintf("%.1f%%", f*100)
	}
	if v == nil {
		return ""
	}
	return printer.Sprint(v)
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}
