package domain

import "time"

// Day truncates t to its calendar day at UTC midnight. Reservation dates
// carry no time component, so every date entering the domain goes through
// this normalization.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfYear returns December 31 of t's year as a calendar day.
func EndOfYear(t time.Time) time.Time {
	return time.Date(t.UTC().Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
}
