package valueobjects

import (
	"fmt"
	"time"
)

// PeriodView selects the calendar granularity of a window
type PeriodView string

const (
	PeriodViewMonth PeriodView = "month"
	PeriodViewWeek  PeriodView = "week"
)

// ParsePeriodView validates a view selector
func ParsePeriodView(s string) (PeriodView, error) {
	switch PeriodView(s) {
	case PeriodViewMonth, PeriodViewWeek:
		return PeriodView(s), nil
	}
	return "", fmt.Errorf("unknown period view: %q", s)
}

// PeriodWindow is the inclusive [Start, End] date range backing the
// dashboard and calendar list queries. Windows are derived values:
// recomputed on every navigation, never stored.
type PeriodWindow struct {
	Start time.Time
	End   time.Time
}

// MonthWindow returns the window spanning the given month, from the
// first to the last day. Arithmetic is done on calendar components so
// daylight-saving transitions cannot skew the bounds.
func MonthWindow(year int, month time.Month) PeriodWindow {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	// Day zero of the following month is the last day of this one.
	end := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return PeriodWindow{Start: start, End: end}
}

// WeekWindow returns the Sunday-through-Saturday window containing the
// anchor date
func WeekWindow(anchor time.Time) PeriodWindow {
	y, m, d := anchor.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	offset := int(day.Weekday())
	start := day.AddDate(0, 0, -offset)
	end := start.AddDate(0, 0, 6)
	return PeriodWindow{Start: start, End: end}
}

// Advance pages a window forward (direction > 0) or backward
// (direction < 0) by one period. Month paging rolls the year at the
// December/January boundaries; week paging shifts both bounds by
// exactly seven days.
func Advance(w PeriodWindow, view PeriodView, direction int) PeriodWindow {
	step := 1
	if direction < 0 {
		step = -1
	}

	switch view {
	case PeriodViewWeek:
		return PeriodWindow{
			Start: w.Start.AddDate(0, 0, 7*step),
			End:   w.End.AddDate(0, 0, 7*step),
		}
	default:
		year, month, _ := w.Start.Date()
		// time.Date normalizes out-of-range months, rolling the year.
		next := time.Date(year, month+time.Month(step), 1, 0, 0, 0, 0, time.UTC)
		return MonthWindow(next.Year(), next.Month())
	}
}

// Contains reports whether the given date falls inside the window,
// compared on calendar date components
func (w PeriodWindow) Contains(t time.Time) bool {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return !day.Before(w.Start) && !day.After(w.End)
}

// StartDate returns the window start in YYYY-MM-DD API form
func (w PeriodWindow) StartDate() string {
	return w.Start.Format("2006-01-02")
}

// EndDate returns the window end in YYYY-MM-DD API form
func (w PeriodWindow) EndDate() string {
	return w.End.Format("2006-01-02")
}
