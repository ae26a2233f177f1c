// ABOUTME: WorkoutHistory model and ISO date-key helpers.
// ABOUTME: History maps YYYY-MM-DD to exercise ID to completion flag.
package models

import "time"

// DateLayout is the ISO day format used for every date key.
const DateLayout = "2006-01-02"

// DateKey formats t as a YYYY-MM-DD key in t's location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDateKey parses a YYYY-MM-DD key in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, key, loc)
}

// WorkoutHistory records which exercises were completed on which day.
type WorkoutHistory map[string]map[string]bool

// Toggle flips the completion flag for an exercise on a date, creating the
// date entry lazily. Returns the new value.
func (h WorkoutHistory) Toggle(date, exerciseID string) bool {
	day, ok := h[date]
	if !ok {
		day = make(map[string]bool)
		h[date] = day
	}
	day[exerciseID] = !day[exerciseID]
	return day[exerciseID]
}

// CompletedCount returns the number of true flags recorded for a date.
func (h WorkoutHistory) CompletedCount(date string) int {
	n := 0
	for _, done := range h[date] {
		if done {
			n++
		}
	}
	return n
}

// IsCompleted reports whether an exercise is marked complete on a date.
func (h WorkoutHistory) IsCompleted(date, exerciseID string) bool {
	return h[date][exerciseID]
}

// Clone returns a deep copy.
func (h WorkoutHistory) Clone() WorkoutHistory {
	out := make(WorkoutHistory, len(h))
	for date, day := range h {
		cp := make(map[string]bool, len(day))
		for id, done := range day {
			cp[id] = done
		}
		out[date] = cp
	}
	return out
}
