// Package week computes the weekly accounting windows used by the revenue
// pool and distribution system. Weeks run Monday 00:00:00 UTC through Sunday
// 23:59:59 UTC; the distribution day is the Friday of the same week.
package week

import "time"

// Window is one accounting week.
type Window struct {
	Start        time.Time // Monday 00:00:00 UTC
	End          time.Time // Sunday 23:59:59 UTC
	Distribution time.Time // Friday at the given hour UTC
}

// Of returns the accounting window containing t. distributionHour is the UTC
// hour of the distribution moment on Friday.
func Of(t time.Time, distributionHour int) Window {
	t = t.UTC()
	day := int(t.Weekday())
	// Weekday() has Sunday=0; shift so Monday starts the week.
	diff := day - 1
	if day == 0 {
		diff = 6
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -diff)
	end := start.AddDate(0, 0, 6).Add(24*time.Hour - time.Second)
	dist := start.AddDate(0, 0, 4).Add(time.Duration(distributionHour) * time.Hour)
	return Window{Start: start, End: end, Distribution: dist}
}

// StartOf returns only the week-start of the window containing t.
func StartOf(t time.Time) time.Time {
	return Of(t, 0).Start
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(w.Start) && !t.After(w.End)
}

// Number returns the ISO 8601 week number for t.
func Number(t time.Time) int {
	_, wk := t.UTC().ISOWeek()
	return wk
}
