package domain

import "time"

const dateLayout = "2006-01-02"

// QueryWindow is a closed date range bounding one sub-resource query.
type QueryWindow struct {
	Start time.Time
	End   time.Time
}

// DayWindow returns the one-day window covering the calendar day of t,
// truncated in t's location.
func DayWindow(t time.Time) QueryWindow {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return QueryWindow{Start: day, End: day}
}

// Previous shifts the window back by its own length plus one day, so the
// previous window of a single day is the day before it.
func (w QueryWindow) Previous() QueryWindow {
	span := w.End.Sub(w.Start) + 24*time.Hour
	return QueryWindow{Start: w.Start.Add(-span), End: w.End.Add(-span)}
}

// StartDate and EndDate render the bounds in the YYYY-MM-DD form every
// supported vendor uses for date-range query parameters.
func (w QueryWindow) StartDate() string { return w.Start.Format(dateLayout) }

func (w QueryWindow) EndDate() string { return w.End.Format(dateLayout) }
