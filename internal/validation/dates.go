package validation

import (
	"errors"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var errEmptyDate = errors.New("empty date")

// ParseDate parses a date cell with a tolerant parser and returns the calendar
// date at UTC midnight. Ambiguous numeric dates are read month first; a
// day-first date whose day cannot be a month ("25/03/2019") is swapped.
func ParseDate(cell string) (time.Time, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}, errEmptyDate
	}
	t, err := dateparse.ParseIn(cell, time.UTC, dateparse.RetryAmbiguousDateWithSwap(true))
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
