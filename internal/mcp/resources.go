// ABOUTME: MCP resource implementations for fitcoach.
// ABOUTME: Provides fitcoach://plan, fitcoach://today, and fitcoach://nutrition/today.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harperreed/fitcoach/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	planURI           = "fitcoach://plan"
	todayURI          = "fitcoach://today"
	nutritionTodayURI = "fitcoach://nutrition/today"
)

func (s *Server) registerResources() {
	// fitcoach://plan - The full weekly plan
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         planURI,
		Name:        "Weekly Workout Plan",
		Description: "The seven-day plan, Monday first",
		MIMEType:    "application/json",
	}, s.handlePlanResource)

	// fitcoach://today - Today's workout and progress
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today's Workout",
		Description: "Today's exercises with completion status, plus streak",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// fitcoach://nutrition/today - Today's food log
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         nutritionTodayURI,
		Name:        "Today's Nutrition",
		Description: "Food items logged today with running macro totals",
		MIMEType:    "application/json",
	}, s.handleNutritionTodayResource)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// Resource handlers

func (s *Server) handlePlanResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	plan, err := s.ctrl.RequirePlan()
	if err != nil {
		return jsonResource(planURI, map[string]interface{}{"message": "No workout plan yet."})
	}
	return jsonResource(planURI, plan)
}

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	workout, err := s.todayWorkout()
	if err != nil {
		return jsonResource(todayURI, map[string]interface{}{"message": "No workout plan yet."})
	}
	return jsonResource(todayURI, map[string]interface{}{
		"workout": workout,
		"streak":  s.ctrl.Streak(),
	})
}

func (s *Server) handleNutritionTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	log := s.ctrl.TodayLog()
	return jsonResource(nutritionTodayURI, struct {
		Date string `json:"date"`
		models.DailyFoodLog
	}{
		Date:         models.DateKey(s.ctrl.Now()),
		DailyFoodLog: log,
	})
}
