// ABOUTME: Tests for export and import functionality.
// ABOUTME: Verifies JSON round-trips through import and YAML is readable.
package storage

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/harperreed/fitcoach/internal/models"
	"gopkg.in/yaml.v3"
)

var exportTime = time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)

func seedStore(t *testing.T, s *Store) {
	t.Helper()
	if err := s.SaveProfile(&models.UserProfile{Name: "Sam", Level: models.LevelBeginner, Goal: models.GoalEndurance, Days: 3, Equipment: "none"}); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	if err := s.SavePlan(testPlan()); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}
	if err := s.SaveWorkoutHistory(models.WorkoutHistory{"2024-05-06": {"ex-Monday": true, "other": false}}); err != nil {
		t.Fatalf("SaveWorkoutHistory failed: %v", err)
	}
	nutrition := models.NutritionHistory{}
	nutrition.Append("2024-05-06", models.FoodItem{Name: "Oats", Calories: 150, Protein: 5, Carbs: 27, Fat: 3})
	if err := s.SaveNutritionHistory(nutrition); err != nil {
		t.Fatalf("SaveNutritionHistory failed: %v", err)
	}
	if err := s.SavePersonalRecords([]models.PersonalRecord{{ID: "pr-1", Date: "2024-05-06", ExerciseName: "Squat", Weight: 100, Reps: 3}}); err != nil {
		t.Fatalf("SavePersonalRecords failed: %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	s := setupTestStore(t)
	seedStore(t, s)

	data, err := s.ExportJSON(exportTime)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var export ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if export.Version != ExportVersion {
		t.Errorf("Expected version %s, got %s", ExportVersion, export.Version)
	}
	if export.Tool != "fitcoach" {
		t.Errorf("Expected tool fitcoach, got %s", export.Tool)
	}
	if export.Profile == nil || export.Profile.Name != "Sam" {
		t.Errorf("Expected profile Sam, got %+v", export.Profile)
	}
	if export.Plan == nil || len(export.Plan.WeeklyPlan) != 7 {
		t.Errorf("Expected 7-day plan, got %+v", export.Plan)
	}
	if len(export.PersonalRecords) != 1 {
		t.Errorf("Expected 1 record, got %d", len(export.PersonalRecords))
	}
}

func TestImportJSONRoundTrip(t *testing.T) {
	src := setupTestStore(t)
	seedStore(t, src)

	data, err := src.ExportJSON(exportTime)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	dst := setupTestStore(t)
	if err := dst.ImportJSON(data); err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}

	want, _ := src.LoadAll()
	got, err := dst.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestImportRejectsBadPlan(t *testing.T) {
	s := setupTestStore(t)

	raw := []byte(`{"version":"1.0","plan":{"weeklyPlan":[]}}`)
	if err := s.ImportJSON(raw); err == nil {
		t.Error("Expected error importing plan with no days")
	}
}

func TestExportYAML(t *testing.T) {
	s := setupTestStore(t)
	seedStore(t, s)

	data, err := s.ExportYAML(exportTime)
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}
	if parsed["tool"] != "fitcoach" {
		t.Errorf("Expected tool fitcoach, got %v", parsed["tool"])
	}

	out := string(data)
	if !strings.Contains(out, "Squat 3x8-12") {
		t.Errorf("Expected plan exercise summary in YAML, got:\n%s", out)
	}
	if !strings.Contains(out, "ex-Monday") {
		t.Error("Expected completed exercise id in YAML")
	}
	if strings.Contains(out, "other") {
		t.Error("Expected uncompleted exercise to be omitted")
	}
}

func TestExportYAMLStableOrder(t *testing.T) {
	s := setupTestStore(t)
	history := models.WorkoutHistory{"2024-05-06": {}}
	for _, id := range []string{"ex-d", "ex-b", "ex-e", "ex-a", "ex-c"} {
		history["2024-05-06"][id] = true
	}
	if err := s.SaveWorkoutHistory(history); err != nil {
		t.Fatalf("SaveWorkoutHistory failed: %v", err)
	}

	first, err := s.ExportYAML(exportTime)
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := s.ExportYAML(exportTime)
		if err != nil {
			t.Fatalf("ExportYAML failed: %v", err)
		}
		if string(again) != string(first) {
			t.Fatalf("Export changed between runs:\n%s\n---\n%s", first, again)
		}
	}
	var parsed struct {
		Completed map[string][]string `yaml:"completed"`
	}
	if err := yaml.Unmarshal(first, &parsed); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}
	want := []string{"ex-a", "ex-b", "ex-c", "ex-d", "ex-e"}
	if diff := cmp.Diff(want, parsed.Completed["2024-05-06"]); diff != "" {
		t.Errorf("completed ids not sorted (-want +got):\n%s", diff)
	}
}
