// ABOUTME: PersonalRecord model for user-logged personal bests.
// ABOUTME: Records are append-only and sorted most recent first for display.
package models

import (
	"fmt"
	"sort"
	"time"
)

// PersonalRecord is a personal best: weight × reps on a date.
type PersonalRecord struct {
	ID           string  `json:"id" yaml:"id"`
	Date         string  `json:"date" yaml:"date"`
	ExerciseName string  `json:"exerciseName" yaml:"exercise_name"`
	Weight       float64 `json:"weight" yaml:"weight"`
	Reps         int     `json:"reps" yaml:"reps"`
}

// NewPersonalRecord creates a record stamped with now's date and ID.
func NewPersonalRecord(exerciseName string, weight float64, reps int, now time.Time) PersonalRecord {
	return PersonalRecord{
		ID:           fmt.Sprintf("pr-%d", now.UnixMilli()),
		Date:         DateKey(now),
		ExerciseName: exerciseName,
		Weight:       weight,
		Reps:         reps,
	}
}

// SortRecords returns a copy sorted by date descending. Ties keep input order.
func SortRecords(records []PersonalRecord) []PersonalRecord {
	out := make([]PersonalRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

// RecordDates returns the set of dates with at least one record.
func RecordDates(records []PersonalRecord) map[string]bool {
	dates := make(map[string]bool, len(records))
	for _, r := range records {
		dates[r.Date] = true
	}
	return dates
}
