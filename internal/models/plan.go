// ABOUTME: WorkoutPlan, DailyWorkout, and Exercise models.
// ABOUTME: Plans are Monday-first, exactly seven days, and immutable once generated.
package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DaysInPlan is the fixed length of a weekly plan.
const DaysInPlan = 7

// WeekdayNames are the plan's day names, index 0 = Monday.
var WeekdayNames = [DaysInPlan]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Exercise is a single prescribed movement within a day.
type Exercise struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Sets        int    `json:"sets" yaml:"sets"`
	Reps        string `json:"reps" yaml:"reps"`
	Description string `json:"description" yaml:"description"`
}

// DailyWorkout is one day of a weekly plan.
type DailyWorkout struct {
	Day       string     `json:"day" yaml:"day"`
	IsRestDay bool       `json:"isRestDay" yaml:"is_rest_day"`
	Exercises []Exercise `json:"exercises" yaml:"exercises"`
}

// WorkoutPlan is the generated seven-day schedule.
type WorkoutPlan struct {
	WeeklyPlan []DailyWorkout `json:"weeklyPlan" yaml:"weekly_plan"`
}

// Validate checks that the plan has exactly seven days.
func (p *WorkoutPlan) Validate() error {
	if len(p.WeeklyPlan) != DaysInPlan {
		return fmt.Errorf("plan must have %d days, got %d", DaysInPlan, len(p.WeeklyPlan))
	}
	return nil
}

// Day returns the workout at a plan index (0 = Monday).
func (p *WorkoutPlan) Day(index int) (DailyWorkout, bool) {
	if p == nil || index < 0 || index >= len(p.WeeklyPlan) {
		return DailyWorkout{}, false
	}
	return p.WeeklyPlan[index], true
}

// FindExercise looks up an exercise by ID anywhere in the plan.
func (p *WorkoutPlan) FindExercise(id string) (Exercise, bool) {
	if p == nil {
		return Exercise{}, false
	}
	for _, d := range p.WeeklyPlan {
		for _, e := range d.Exercises {
			if e.ID == id {
				return e, true
			}
		}
	}
	return Exercise{}, false
}

// RestDayCount returns how many of the listed plan indexes are rest days.
func (p *WorkoutPlan) RestDayCount(indexes ...int) int {
	n := 0
	for _, i := range indexes {
		if d, ok := p.Day(i); ok && d.IsRestDay {
			n++
		}
	}
	return n
}

var whitespace = regexp.MustCompile(`\s`)

// ExerciseID builds the synthetic ID {day}-{index}-{unixMillis}.
func ExerciseID(day string, index int, t time.Time) string {
	slug := whitespace.ReplaceAllString(strings.ToLower(day), "-")
	return fmt.Sprintf("%s-%d-%d", slug, index, t.UnixMilli())
}

// AssignExerciseIDs stamps every exercise in the plan with a fresh ID.
func (p *WorkoutPlan) AssignExerciseIDs(t time.Time) {
	for d := range p.WeeklyPlan {
		day := &p.WeeklyPlan[d]
		for i := range day.Exercises {
			day.Exercises[i].ID = ExerciseID(day.Day, i, t)
		}
	}
}
