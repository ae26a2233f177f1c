// ABOUTME: UserProfile model with fitness level and goal enums.
// ABOUTME: Profiles are replaced wholesale; Validate guards every write.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// Level is the user's self-reported training experience.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Goal is the user's primary training goal.
type Goal string

const (
	GoalStrength    Goal = "strength"
	GoalHypertrophy Goal = "hypertrophy"
	GoalEndurance   Goal = "endurance"
	GoalGeneral     Goal = "general"
)

const (
	MinDaysPerWeek = 2
	MaxDaysPerWeek = 5
)

// AllLevels lists valid levels in display order.
var AllLevels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}

// AllGoals lists valid goals in display order.
var AllGoals = []Goal{GoalStrength, GoalHypertrophy, GoalEndurance, GoalGeneral}

// GoalLabels maps goals to their human-readable names.
var GoalLabels = map[Goal]string{
	GoalStrength:    "Build Strength",
	GoalHypertrophy: "Build Muscle (Hypertrophy)",
	GoalEndurance:   "Improve Endurance",
	GoalGeneral:     "General Fitness",
}

// ParseLevel converts a string into a Level.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range AllLevels {
		if l == valid {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown level %q (want beginner, intermediate, or advanced)", s)
}

// ParseGoal converts a string into a Goal.
func ParseGoal(s string) (Goal, error) {
	g := Goal(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range AllGoals {
		if g == valid {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown goal %q (want strength, hypertrophy, endurance, or general)", s)
}

// UserProfile describes the person the plan is generated for.
type UserProfile struct {
	Name      string `json:"name" yaml:"name"`
	Level     Level  `json:"level" yaml:"level"`
	Goal      Goal   `json:"goal" yaml:"goal"`
	Days      int    `json:"days" yaml:"days"`
	Equipment string `json:"equipment" yaml:"equipment"`
}

// Validate checks enum membership and ranges.
func (p *UserProfile) Validate() error {
	var errs []error
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if _, err := ParseLevel(string(p.Level)); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseGoal(string(p.Goal)); err != nil {
		errs = append(errs, err)
	}
	if p.Days < MinDaysPerWeek || p.Days > MaxDaysPerWeek {
		errs = append(errs, fmt.Errorf("days must be between %d and %d, got %d", MinDaysPerWeek, MaxDaysPerWeek, p.Days))
	}
	return errors.Join(errs...)
}
