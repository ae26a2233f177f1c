// ABOUTME: MCP tool implementations for fitcoach.
// ABOUTME: Profile, today's workout, completion toggles, food logging, PRs, and stats.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/fitcoach/internal/models"
	"github.com/harperreed/fitcoach/internal/progress"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// get_profile
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_profile",
		Description: "Get the user's fitness profile (level, goal, training days, equipment)",
	}, s.handleGetProfile)

	// get_today_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_today_workout",
		Description: "Get today's planned workout with completion status for each exercise",
	}, s.handleGetTodayWorkout)

	// toggle_exercise
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "toggle_exercise",
		Description: "Mark an exercise in today's workout as done, or undo it",
	}, s.handleToggleExercise)

	// log_food
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_food",
		Description: "Log a meal from a text description; macros are estimated by the AI coach",
	}, s.handleLogFood)

	// add_personal_record
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_personal_record",
		Description: "Record a personal best (weight x reps) for an exercise, dated today",
	}, s.handleAddPersonalRecord)

	// list_personal_records
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_personal_records",
		Description: "List personal records, most recent first",
	}, s.handleListPersonalRecords)

	// get_stats
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_stats",
		Description: "Get workout streak, lifetime totals, and the last seven days of activity",
	}, s.handleGetStats)
}

// Tool input/output types

type emptyInput struct{}

type exerciseStatus struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Sets        int    `json:"sets"`
	Reps        string `json:"reps"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

type todayWorkoutOutput struct {
	Date      string           `json:"date"`
	Day       string           `json:"day"`
	IsRestDay bool             `json:"is_rest_day"`
	Exercises []exerciseStatus `json:"exercises"`
	Completed int              `json:"completed"`
	Total     int              `json:"total"`
	Percent   int              `json:"percent"`
}

type toggleExerciseInput struct {
	ExerciseID string `json:"exercise_id" jsonschema:"ID of an exercise in today's workout"`
}

type toggleExerciseOutput struct {
	ExerciseID string `json:"exercise_id"`
	Completed  bool   `json:"completed"`
	Message    string `json:"message"`
}

type logFoodInput struct {
	Description string `json:"description" jsonschema:"What was eaten, e.g. '2 eggs and a slice of toast'"`
}

type logFoodOutput struct {
	Items   []models.FoodItem  `json:"items"`
	Totals  models.MacroTotals `json:"today_totals"`
	Message string             `json:"message"`
}

type addPRInput struct {
	ExerciseName string  `json:"exercise_name" jsonschema:"Exercise name, e.g. Bench Press"`
	Weight       float64 `json:"weight" jsonschema:"Weight lifted, must be greater than zero"`
	Reps         int     `json:"reps" jsonschema:"Repetitions, must be greater than zero"`
}

type prOutput struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Message string `json:"message"`
}

type listPRsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type statsOutput struct {
	Streak            int                    `json:"streak"`
	WorkoutsCompleted int                    `json:"workouts_completed"`
	ExercisesDone     int                    `json:"exercises_done"`
	Week              []progress.DayActivity `json:"week"`
}

// Tool handlers

func (s *Server) handleGetProfile(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	profile, err := s.ctrl.RequireProfile()
	if err != nil {
		return nil, nil, err
	}
	return nil, profile, nil
}

func (s *Server) todayWorkout() (todayWorkoutOutput, error) {
	if _, err := s.ctrl.RequirePlan(); err != nil {
		return todayWorkoutOutput{}, err
	}
	day, _ := s.ctrl.TodayWorkout()
	p := s.ctrl.TodayProgress()

	out := todayWorkoutOutput{
		Date:      models.DateKey(s.ctrl.Now()),
		Day:       day.Day,
		IsRestDay: day.IsRestDay,
		Exercises: []exerciseStatus{},
		Completed: p.Completed,
		Total:     p.Total,
		Percent:   p.Percent(),
	}
	for _, e := range day.Exercises {
		out.Exercises = append(out.Exercises, exerciseStatus{
			ID:          e.ID,
			Name:        e.Name,
			Sets:        e.Sets,
			Reps:        e.Reps,
			Description: e.Description,
			Completed:   s.ctrl.IsCompletedToday(e.ID),
		})
	}
	return out, nil
}

func (s *Server) handleGetTodayWorkout(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, todayWorkoutOutput, error) {
	out, err := s.todayWorkout()
	if err != nil {
		return nil, todayWorkoutOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleToggleExercise(ctx context.Context, req *mcp.CallToolRequest, input toggleExerciseInput) (*mcp.CallToolResult, toggleExerciseOutput, error) {
	_, done, err := s.ctrl.ToggleExerciseComplete(input.ExerciseID)
	if err != nil {
		return nil, toggleExerciseOutput{}, fmt.Errorf("failed to toggle exercise: %w", err)
	}

	msg := fmt.Sprintf("Marked %s as done", input.ExerciseID)
	if !done {
		msg = fmt.Sprintf("Marked %s as not done", input.ExerciseID)
	}
	return nil, toggleExerciseOutput{ExerciseID: input.ExerciseID, Completed: done, Message: msg}, nil
}

func (s *Server) handleLogFood(ctx context.Context, req *mcp.CallToolRequest, input logFoodInput) (*mcp.CallToolResult, logFoodOutput, error) {
	if _, err := s.ctrl.RequireProfile(); err != nil {
		return nil, logFoodOutput{}, err
	}
	st, items, err := s.ctrl.LogFood(ctx, input.Description)
	if err != nil {
		if st.LastError != "" {
			return nil, logFoodOutput{}, errors.New(st.LastError)
		}
		return nil, logFoodOutput{}, err
	}

	totals := s.ctrl.TodayLog().Totals
	return nil, logFoodOutput{
		Items:   items,
		Totals:  totals,
		Message: fmt.Sprintf("Logged %d item(s); today: %d kcal", len(items), totals.Calories),
	}, nil
}

func (s *Server) handleAddPersonalRecord(ctx context.Context, req *mcp.CallToolRequest, input addPRInput) (*mcp.CallToolResult, prOutput, error) {
	_, pr, err := s.ctrl.AddPR(input.ExerciseName, input.Weight, input.Reps)
	if err != nil {
		return nil, prOutput{}, fmt.Errorf("failed to add personal record: %w", err)
	}
	return nil, prOutput{
		ID:      pr.ID,
		Date:    pr.Date,
		Message: fmt.Sprintf("Added PR: %s %.1f x %d", pr.ExerciseName, pr.Weight, pr.Reps),
	}, nil
}

func (s *Server) handleListPersonalRecords(ctx context.Context, req *mcp.CallToolRequest, input listPRsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	prs := s.ctrl.SortedPRs()
	if len(prs) == 0 {
		return nil, map[string]interface{}{"message": "No personal records found."}, nil
	}
	if len(prs) > input.Limit {
		prs = prs[:input.Limit]
	}
	return nil, prs, nil
}

func (s *Server) stats() statsOutput {
	totals := s.ctrl.Totals()
	return statsOutput{
		Streak:            s.ctrl.Streak(),
		WorkoutsCompleted: totals.WorkoutsCompleted,
		ExercisesDone:     totals.ExercisesDone,
		Week:              s.ctrl.WeeklyActivity(),
	}
}

func (s *Server) handleGetStats(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, statsOutput, error) {
	return nil, s.stats(), nil
}
