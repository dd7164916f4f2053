package domain

import "time"

// Day is one calendar day.
const Day = 24 * time.Hour

// TimeWindow is an inclusive [Start, End] range of calendar dates.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether date falls within the window, bounds included.
func (w TimeWindow) Contains(date time.Time) bool {
	return !date.Before(w.Start) && !date.After(w.End)
}

// Days returns the number of calendar days covered by the window.
func (w TimeWindow) Days() int {
	if w.End.Before(w.Start) {
		return 0
	}
	return int(w.End.Sub(w.Start)/Day) + 1
}

// Overlaps reports whether the two windows share at least one day.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return !w.End.Before(other.Start) && !other.End.Before(w.Start)
}

// Periods holds the three comparison windows of one run.
// FourWeeks is an independent 28-day lookback; it contains LastWeek
// and must never be summed with it.
type Periods struct {
	Current    TimeWindow
	LastWeek   TimeWindow
	FourWeeks  TimeWindow
	LatestDate time.Time
}
