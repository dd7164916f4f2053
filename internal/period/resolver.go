// Package period computes the comparison windows of a weekly run and
// slices the cleaned table into them.
package period

import (
	"time"

	"weekly-sales-report/internal/domain"
)

// DefaultBaselineWeeks is the length of the lookback baseline in weeks.
const DefaultBaselineWeeks = 4

// Resolve returns the windows centered on latest, the maximum date in the data.
// Current is the Monday-Sunday week containing latest; LastWeek and FourWeeks
// end the day before Current starts.
func Resolve(latest time.Time) domain.Periods {
	return ResolveWithBaseline(latest, DefaultBaselineWeeks)
}

// ResolveWithBaseline is Resolve with a configurable baseline length.
// weeks below 1 is treated as 1.
func ResolveWithBaseline(latest time.Time, weeks int) domain.Periods {
	if weeks < 1 {
		weeks = 1
	}
	latest = truncateDay(latest)

	// Monday = 0
	offset := (int(latest.Weekday()) + 6) % 7
	start := latest.AddDate(0, 0, -offset)
	dayBefore := start.AddDate(0, 0, -1)

	return domain.Periods{
		Current: domain.TimeWindow{
			Start: start,
			End:   start.AddDate(0, 0, 6),
		},
		LastWeek: domain.TimeWindow{
			Start: start.AddDate(0, 0, -7),
			End:   dayBefore,
		},
		FourWeeks: domain.TimeWindow{
			Start: start.AddDate(0, 0, -7*weeks),
			End:   dayBefore,
		},
		LatestDate: latest,
	}
}

// Filter returns the rows dated within w as a new slice, input order preserved.
// rows is never modified.
func Filter(rows []domain.Sale, w domain.TimeWindow) []domain.Sale {
	var out []domain.Sale
	for _, s := range rows {
		if w.Contains(s.Date) {
			out = append(out, s)
		}
	}
	return out
}

// Windows holds the cleaned rows split by comparison window.
type Windows struct {
	Current   []domain.Sale
	LastWeek  []domain.Sale
	FourWeeks []domain.Sale
}

// Split filters table into the three windows of p.
func Split(table *domain.CleanedTable, p domain.Periods) Windows {
	if table == nil {
		return Windows{}
	}
	return Windows{
		Current:   Filter(table.Rows, p.Current),
		LastWeek:  Filter(table.Rows, p.LastWeek),
		FourWeeks: Filter(table.Rows, p.FourWeeks),
	}
}

// LatestDate returns the maximum sale date of table; zero for an empty table.
func LatestDate(table *domain.CleanedTable) time.Time {
	_, last := table.DateRange()
	return last
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
