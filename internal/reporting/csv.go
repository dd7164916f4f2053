package reporting

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"weekly-sales-report/internal/domain"
)

// RenderCSV renders a table as CSV string with raw, unformatted values.
func RenderCSV(t *domain.Table) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	// Header
	_ = w.Write(t.Columns)

	// Rows
	for _, row := range t.Rows {
		record := make([]string, len(t.Columns))
		for i := range record {
			if i < len(row) {
				record[i] = rawValue(row[i])
			}
		}
		_ = w.Write(record)
	}

	w.Flush()
	return sb.String()
}

// CSVFileName returns the file name used for a table's CSV export.
func CSVFileName(t *domain.Table) string {
	return t.Name + ".csv"
}

func rawValue(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case int:
		return strconv.Itoa(n)
	default:
		return fmt.Sprint(n)
	}
}
