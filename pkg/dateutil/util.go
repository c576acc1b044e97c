package dateutil

import "time"

func BeginningOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func NextDay(t time.Time) time.Time {
	return BeginningOfDay(t).AddDate(0, 0, 1)
}

// Date formats t as the calendar date used as a trust graph snapshot key.
func Date(t time.Time) string {
	return t.Format("2006-01-02")
}
