package schedule

import "time"

const dateLayout = "2006-01-02"

// DateKey is the calendar date of t, used as a map key.
func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// WeekendKey groups dates that count as the same playing weekend. Saturday
// and Sunday share the Saturday's key; every other day is its own key.
func WeekendKey(d time.Time) string {
	if d.Weekday() == time.Sunday {
		return DateKey(d.AddDate(0, 0, -1))
	}
	return DateKey(d)
}
