// ABOUTME: Tests for the typed record store.
// ABOUTME: Covers round-trips, empty defaults, corruption reporting, and Clear.
package storage

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/harperreed/fitcoach/internal/models"
)

func setupTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	b, err := OpenBadger("")
	if err != nil {
		t.Fatalf("OpenBadger failed: %v", err)
	}
	s := New(b, opts...)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testPlan() *models.WorkoutPlan {
	plan := &models.WorkoutPlan{}
	for i, name := range models.WeekdayNames {
		d := models.DailyWorkout{Day: name, IsRestDay: i >= 5, Exercises: []models.Exercise{}}
		if !d.IsRestDay {
			d.Exercises = []models.Exercise{
				{ID: "ex-" + name, Name: "Squat", Sets: 3, Reps: "8-12", Description: "Brace"},
			}
		}
		plan.WeeklyPlan = append(plan.WeeklyPlan, d)
	}
	return plan
}

func TestEmptyStoreDefaults(t *testing.T) {
	s := setupTestStore(t)

	snap, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if snap.Profile != nil {
		t.Errorf("Expected nil profile, got %+v", snap.Profile)
	}
	if snap.Plan != nil {
		t.Errorf("Expected nil plan, got %+v", snap.Plan)
	}
	if snap.WorkoutHistory == nil || len(snap.WorkoutHistory) != 0 {
		t.Errorf("Expected empty workout history, got %v", snap.WorkoutHistory)
	}
	if snap.NutritionHistory == nil || len(snap.NutritionHistory) != 0 {
		t.Errorf("Expected empty nutrition history, got %v", snap.NutritionHistory)
	}
	if snap.ChatHistory == nil || len(snap.ChatHistory) != 0 {
		t.Errorf("Expected empty chat history, got %v", snap.ChatHistory)
	}
	if snap.PersonalRecords == nil || len(snap.PersonalRecords) != 0 {
		t.Errorf("Expected empty records, got %v", snap.PersonalRecords)
	}
}

func TestRoundTrip(t *testing.T) {
	s := setupTestStore(t)

	profile := &models.UserProfile{
		Name:      "Sam",
		Level:     models.LevelBeginner,
		Goal:      models.GoalStrength,
		Days:      3,
		Equipment: "dumbbells",
	}
	plan := testPlan()
	history := models.WorkoutHistory{"2024-05-06": {"ex-Monday": true}}
	nutrition := models.NutritionHistory{}
	nutrition.Append("2024-05-06", models.FoodItem{Name: "Egg", Calories: 78, Protein: 6, Carbs: 0.6, Fat: 5})
	chat := []models.ChatMessage{
		models.NewChatMessage(models.RoleUser, "hi"),
		models.NewChatMessage(models.RoleModel, "hello"),
	}
	prs := []models.PersonalRecord{
		models.NewPersonalRecord("Bench", 80, 5, time.Date(2024, 5, 6, 9, 0, 0, 0, time.Local)),
	}

	if err := s.SaveProfile(profile); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	if err := s.SavePlan(plan); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}
	if err := s.SaveWorkoutHistory(history); err != nil {
		t.Fatalf("SaveWorkoutHistory failed: %v", err)
	}
	if err := s.SaveNutritionHistory(nutrition); err != nil {
		t.Fatalf("SaveNutritionHistory failed: %v", err)
	}
	if err := s.SaveChatHistory(chat); err != nil {
		t.Fatalf("SaveChatHistory failed: %v", err)
	}
	if err := s.SavePersonalRecords(prs); err != nil {
		t.Fatalf("SavePersonalRecords failed: %v", err)
	}

	snap, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	if diff := cmp.Diff(profile, snap.Profile); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(plan, snap.Plan); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(history, snap.WorkoutHistory); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(nutrition, snap.NutritionHistory); diff != "" {
		t.Errorf("nutrition mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(chat, snap.ChatHistory); diff != "" {
		t.Errorf("chat mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(prs, snap.PersonalRecords); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveNilRemoves(t *testing.T) {
	s := setupTestStore(t)

	if err := s.SavePlan(testPlan()); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}
	if err := s.SavePlan(nil); err != nil {
		t.Fatalf("SavePlan(nil) failed: %v", err)
	}
	if _, found, _ := s.Get(KeyPlan); found {
		t.Error("Expected plan key to be removed")
	}
}

func TestCorruptRecordsFallBackToDefaults(t *testing.T) {
	var reports []Corruption
	s := setupTestStore(t, WithCorruptionHandler(func(c Corruption) {
		reports = append(reports, c)
	}))

	if err := s.Set(KeyWorkoutHistory, []byte("{not json")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(KeyProfile, []byte(`"just a string"`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	history, err := s.LoadWorkoutHistory()
	if err != nil {
		t.Fatalf("LoadWorkoutHistory failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("Expected empty history, got %v", history)
	}

	profile, err := s.LoadProfile()
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if profile != nil {
		t.Errorf("Expected nil profile, got %+v", profile)
	}

	if len(reports) != 2 {
		t.Fatalf("Expected 2 corruption reports, got %d", len(reports))
	}
	if reports[0].Key != KeyWorkoutHistory {
		t.Errorf("Expected first report for %s, got %s", KeyWorkoutHistory, reports[0].Key)
	}
	if reports[1].Key != KeyProfile {
		t.Errorf("Expected second report for %s, got %s", KeyProfile, reports[1].Key)
	}
}

func TestShortPlanIsCorrupt(t *testing.T) {
	var reports []Corruption
	s := setupTestStore(t, WithCorruptionHandler(func(c Corruption) {
		reports = append(reports, c)
	}))

	if err := s.Set(KeyPlan, []byte(`{"weeklyPlan":[{"day":"Monday","isRestDay":true,"exercises":[]}]}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	plan, err := s.LoadPlan()
	if err != nil {
		t.Fatalf("LoadPlan failed: %v", err)
	}
	if plan != nil {
		t.Errorf("Expected nil plan, got %+v", plan)
	}
	if len(reports) != 1 || reports[0].Key != KeyPlan {
		t.Errorf("Expected one plan corruption report, got %v", reports)
	}
}

func TestClear(t *testing.T) {
	s := setupTestStore(t)

	if err := s.SaveProfile(&models.UserProfile{Name: "A", Level: models.LevelAdvanced, Goal: models.GoalGeneral, Days: 4}); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	if err := s.SaveWorkoutHistory(models.WorkoutHistory{"2024-01-01": {"x": true}}); err != nil {
		t.Fatalf("SaveWorkoutHistory failed: %v", err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	for _, key := range AllKeys {
		if _, found, err := s.Get(key); err != nil || found {
			t.Errorf("Expected %s to be absent after Clear (found=%v, err=%v)", key, found, err)
		}
	}
}

func TestLoadReport(t *testing.T) {
	var handled int
	s := setupTestStore(t, WithCorruptionHandler(func(Corruption) { handled++ }))

	if err := s.Set(KeyChatHistory, []byte("[{")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(KeyPersonalRecords, []byte(`{"not":"a list"}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	snap, corruptions, err := s.LoadReport()
	if err != nil {
		t.Fatalf("LoadReport failed: %v", err)
	}
	if len(snap.ChatHistory) != 0 || len(snap.PersonalRecords) != 0 {
		t.Errorf("Expected empty defaults, got %+v", snap)
	}

	var keys []string
	for _, c := range corruptions {
		keys = append(keys, c.Key)
	}
	if diff := cmp.Diff([]string{KeyChatHistory, KeyPersonalRecords}, keys); diff != "" {
		t.Errorf("corruption keys mismatch (-want +got):\n%s", diff)
	}
	if handled != 2 {
		t.Errorf("Expected handler to see 2 reports, got %d", handled)
	}
}
