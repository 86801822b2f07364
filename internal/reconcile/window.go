package reconcile

import "time"

// MonthWindow is the inclusive [Start, End] span of one calendar month in a
// particular location. Start is the first instant of day 1; End is the last
// millisecond of the final day.
type MonthWindow struct {
	Start time.Time
	End   time.Time
}

// CurrentMonthWindow computes the window for the month containing now, in
// now's location. Pure function of its input: callers inject "now" so a pass
// computes its window exactly once and tests stay deterministic.
//
// The final day is derived by stepping to day 1 of the following month and
// backing off one millisecond, which handles 28/29/30/31-day months without
// a day-count table. time.Date normalizes month overflow, so December rolls
// into January of the next year.
func CurrentMonthWindow(now time.Time) MonthWindow {
	loc := now.Location()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	end := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, loc).Add(-time.Millisecond)
	return MonthWindow{Start: start, End: end}
}

// Contains reports whether t falls inside the window, bounds inclusive.
func (w MonthWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
