package common

import "time"

// Date normalises t to midnight UTC of its calendar day
func Date(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// IsBusinessDay reports whether t falls Monday to Friday in UTC
func IsBusinessDay(t time.Time) bool {
	switch t.UTC().Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return true
}
