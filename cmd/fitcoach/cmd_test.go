// ABOUTME: Tests for CLI helpers and command execution.
// ABOUTME: Runs commands against a badger store in a temp dir with a fake AI gateway.
package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/fitcoach/internal/app"
	"github.com/harperreed/fitcoach/internal/coach"
	"github.com/harperreed/fitcoach/internal/config"
	"github.com/harperreed/fitcoach/internal/models"
	"github.com/harperreed/fitcoach/internal/progress"
	"github.com/harperreed/fitcoach/internal/storage"
	"github.com/spf13/cobra"
)

type cliGateway struct {
	food    []models.FoodItem
	chunks  []string
	chatErr error
}

func (g *cliGateway) GeneratePlan(ctx context.Context, profile models.UserProfile) (*models.WorkoutPlan, error) {
	plan := &models.WorkoutPlan{}
	for _, name := range models.WeekdayNames {
		plan.WeeklyPlan = append(plan.WeeklyPlan, models.DailyWorkout{
			Day: name,
			Exercises: []models.Exercise{
				{Name: "Squat", Sets: 3, Reps: "5", Description: "Brace hard"},
				{Name: "Plank", Sets: 3, Reps: "30s", Description: "Neutral spine"},
			},
		})
	}
	plan.AssignExerciseIDs(time.Now())
	return plan, nil
}

func (g *cliGateway) NutritionFromText(ctx context.Context, query string) ([]models.FoodItem, error) {
	return g.food, nil
}

func (g *cliGateway) NutritionFromImage(ctx context.Context, image []byte, mimeType string) ([]models.FoodItem, error) {
	return g.food, nil
}

func (g *cliGateway) NewChat(profile models.UserProfile, history []models.ChatMessage) coach.ChatSession {
	return &cliSession{g: g}
}

type cliSession struct{ g *cliGateway }

func (s *cliSession) Send(ctx context.Context, text string) (*coach.Stream, error) {
	return coach.NewStream(&coach.SliceSource{Chunks: s.g.chunks, Fail: s.g.chatErr}, nil), nil
}

func resetFlags() {
	setupName, setupLevel, setupGoal, setupDays, setupEquipment, setupGenerate = "", "beginner", "general", 3, "", false
	exportOutput = ""
	resetSkipConfirm = false
	migrateTo, migrateSwitch = "", false
	prListLimit, foodHistoryDays, chatHistoryLimit = 20, 7, 20
}

// setupTestCLI points config and data at a temp dir with the badger backend.
func setupTestCLI(t *testing.T, gw *cliGateway) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("FITCOACH_BACKEND", config.BackendBadger)
	t.Setenv("FITCOACH_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("FITCOACH_LOG_LEVEL", "error")
	t.Setenv("OPENAI_API_KEY", "")

	orig := newGateway
	newGateway = func(*config.Config) (coach.Gateway, error) {
		if gw == nil {
			return nil, coach.ErrNoAPIKey
		}
		return gw, nil
	}
	t.Cleanup(func() {
		newGateway = orig
		resetFlags()
	})
	resetFlags()
	return dir
}

func run(args ...string) error {
	resetFlags()
	rootCmd.SetArgs(args)
	return Execute()
}

// inspect opens the test store after commands have closed it.
func inspect(t *testing.T, dir string) *storage.Store {
	t.Helper()
	b, err := storage.OpenBadger(filepath.Join(dir, "data", "badger"))
	if err != nil {
		t.Fatalf("OpenBadger failed: %v", err)
	}
	s := storage.New(b)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustRun(t *testing.T, args ...string) {
	t.Helper()
	if err := run(args...); err != nil {
		t.Fatalf("%s failed: %v", strings.Join(args, " "), err)
	}
}

func setupProfile(t *testing.T, generate bool) {
	t.Helper()
	args := []string{"setup", "--name", "Sam", "--level", "intermediate", "--goal", "hypertrophy", "--days", "4"}
	if generate {
		args = append(args, "--generate")
	}
	mustRun(t, args...)
}

func TestGateFor(t *testing.T) {
	tests := []struct {
		cmd  *cobra.Command
		want string
	}{
		{setupCmd, ""},
		{todayCmd, gatePlan},
		{planGenerateCmd, gateProfile},
		{planShowCmd, gatePlan},
		{foodLogCmd, gateProfile},
		{installSkillCmd, gateNone},
		{syncWipeCmd, gateNone},
		{syncStatusCmd, ""},
		{exportCmd, ""},
	}
	for _, tt := range tests {
		t.Run(tt.cmd.CommandPath(), func(t *testing.T) {
			if got := gateFor(tt.cmd); got != tt.want {
				t.Errorf("gateFor = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseMonth(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Month
		wantErr bool
	}{
		{"1", time.January, false},
		{"12", time.December, false},
		{"feb", time.February, false},
		{"September", time.September, false},
		{"0", 0, true},
		{"13", 0, true},
		{"ju", 0, true},
		{"smarch", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseMonth(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseMonth(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseMonth(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveExercise(t *testing.T) {
	day := models.DailyWorkout{Day: "Monday", Exercises: []models.Exercise{{ID: "a"}, {ID: "b"}}}

	tests := []struct {
		arg     string
		want    string
		wantErr bool
	}{
		{"1", "a", false},
		{"2", "b", false},
		{"3", "", true},
		{"0", "", true},
		{"monday-1-5", "monday-1-5", false},
	}
	for _, tt := range tests {
		got, err := resolveExercise(day, tt.arg)
		if (err != nil) != tt.wantErr {
			t.Errorf("resolveExercise(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("resolveExercise(%q) = %q, want %q", tt.arg, got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	for _, p := range []int{-5, 0, 50, 100, 150} {
		bar := progressBar(p, 10)
		if strings.Count(bar, "█")+strings.Count(bar, "░") != 10 {
			t.Errorf("progressBar(%d) has wrong width: %q", p, bar)
		}
	}
	if !strings.Contains(progressBar(50, 10), " 50%") {
		t.Error("Expected percentage label")
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("abc", 6); got != "abc   " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 3); got != "abcdef" {
		t.Errorf("padRight should not truncate, got %q", got)
	}
}

func TestRenderHistogram(t *testing.T) {
	days := []progress.DayActivity{
		{Label: "Mon", Exercises: 4},
		{Label: "Tue", Exercises: 0},
		{Label: "Wed", Exercises: 1},
	}
	out := renderHistogram(days, 8)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}
	if strings.Count(lines[0], "█") != 8 {
		t.Errorf("Expected the busiest day to fill the width: %q", lines[0])
	}
	if strings.Contains(lines[1], "█") {
		t.Errorf("Expected an empty bar for a rest day: %q", lines[1])
	}
	if strings.Count(lines[2], "█") != 2 {
		t.Errorf("Expected a scaled bar: %q", lines[2])
	}
}

func TestRenderCalendar(t *testing.T) {
	today := time.Date(2024, 5, 8, 12, 0, 0, 0, time.Local)
	weeks := progress.Month(nil, nil, []models.PersonalRecord{{Date: "2024-05-03"}}, 2024, time.May, today)

	out := renderCalendar(2024, time.May, weeks)
	for _, want := range []string{"May 2024", "Su", "Sa", "31", "3*"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected calendar to contain %q:\n%s", want, out)
		}
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"setup", "profile", "plan", "today", "done", "calendar", "stats",
		"food", "chat", "pr", "reset", "export", "import", "migrate", "mcp", "sync", "install-skill"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Expected %s command to be registered", name)
		}
	}
}

func TestSetupCmd(t *testing.T) {
	dir := setupTestCLI(t, nil)

	setupProfile(t, false)

	profile, err := inspect(t, dir).LoadProfile()
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if profile == nil || profile.Name != "Sam" || profile.Level != models.LevelIntermediate || profile.Days != 4 {
		t.Errorf("Unexpected profile: %+v", profile)
	}
}

func TestSetupCmdInvalid(t *testing.T) {
	setupTestCLI(t, nil)

	tests := [][]string{
		{"setup", "--name", "Sam", "--level", "elite"},
		{"setup", "--name", "Sam", "--goal", "speed"},
		{"setup", "--name", "Sam", "--days", "6"},
		{"setup", "--name", " "},
	}
	for _, args := range tests {
		if err := run(args...); err == nil {
			t.Errorf("Expected %v to fail", args)
		}
	}
}

func TestCommandsRequireProfile(t *testing.T) {
	setupTestCLI(t, nil)

	for _, args := range [][]string{{"today"}, {"stats"}, {"food", "today"}, {"pr", "list"}, {"plan", "generate"}} {
		if err := run(args...); !errors.Is(err, errNoProfile) {
			t.Errorf("%v: expected errNoProfile, got %v", args, err)
		}
	}
}

func TestCommandsRequirePlan(t *testing.T) {
	setupTestCLI(t, nil)
	setupProfile(t, false)

	for _, args := range [][]string{{"today"}, {"done", "1"}, {"calendar"}, {"plan", "show"}} {
		if err := run(args...); !errors.Is(err, errNoPlan) {
			t.Errorf("%v: expected errNoPlan, got %v", args, err)
		}
	}
}

func TestPlanGenerateWithoutAPIKey(t *testing.T) {
	setupTestCLI(t, nil)
	setupProfile(t, false)

	err := run("plan", "generate")
	if err == nil || !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("Expected API key error, got %v", err)
	}
}

func TestSetupGenerateAndDone(t *testing.T) {
	dir := setupTestCLI(t, &cliGateway{})
	setupProfile(t, true)

	mustRun(t, "today")
	mustRun(t, "plan", "show")
	mustRun(t, "done", "2")
	mustRun(t, "calendar")
	mustRun(t, "stats")

	s := inspect(t, dir)
	plan, err := s.LoadPlan()
	if err != nil || plan == nil {
		t.Fatalf("Expected a saved plan, got %v (err %v)", plan, err)
	}
	history, err := s.LoadWorkoutHistory()
	if err != nil {
		t.Fatalf("LoadWorkoutHistory failed: %v", err)
	}

	day, _ := plan.Day(progress.PlanDayIndex(time.Now()))
	if !history.IsCompleted(models.DateKey(time.Now()), day.Exercises[1].ID) {
		t.Errorf("Expected exercise #2 done today, history %v", history)
	}
}

func TestDoneTwiceUndoes(t *testing.T) {
	dir := setupTestCLI(t, &cliGateway{})
	setupProfile(t, true)

	mustRun(t, "done", "1")
	mustRun(t, "done", "1")

	history, _ := inspect(t, dir).LoadWorkoutHistory()
	if n := history.CompletedCount(models.DateKey(time.Now())); n != 0 {
		t.Errorf("Expected nothing completed, got %d", n)
	}
}

func TestDoneUnknownExercise(t *testing.T) {
	setupTestCLI(t, &cliGateway{})
	setupProfile(t, true)

	if err := run("done", "9"); err == nil {
		t.Error("Expected out-of-range index to fail")
	}
	if err := run("done", "nope"); err == nil {
		t.Error("Expected unknown ID to fail")
	}
}

func TestPlanClear(t *testing.T) {
	dir := setupTestCLI(t, &cliGateway{})
	setupProfile(t, true)

	mustRun(t, "plan", "clear")

	plan, _ := inspect(t, dir).LoadPlan()
	if plan != nil {
		t.Error("Expected plan to be removed")
	}
}

func TestFoodLogCmd(t *testing.T) {
	gw := &cliGateway{food: []models.FoodItem{
		{Name: "Oatmeal", Calories: 150, Protein: 5, Carbs: 27, Fat: 3},
		{Name: "Blueberries", Calories: 40, Protein: 0.5, Carbs: 10, Fat: 0.2},
	}}
	dir := setupTestCLI(t, gw)
	setupProfile(t, false)

	mustRun(t, "food", "log", "oatmeal", "with", "blueberries")
	mustRun(t, "food", "today")
	mustRun(t, "food", "history")

	history, err := inspect(t, dir).LoadNutritionHistory()
	if err != nil {
		t.Fatalf("LoadNutritionHistory failed: %v", err)
	}
	log := history.Log(models.DateKey(time.Now()))
	if len(log.Items) != 2 || log.Totals.Calories != 190 {
		t.Errorf("Unexpected log: %+v", log)
	}
}

func TestFoodScanCmd(t *testing.T) {
	gw := &cliGateway{food: []models.FoodItem{{Name: "Pizza", Calories: 285, Protein: 12, Carbs: 36, Fat: 10}}}
	dir := setupTestCLI(t, gw)
	setupProfile(t, false)

	// Minimal PNG header is enough for content sniffing.
	img := filepath.Join(dir, "meal.png")
	if err := os.WriteFile(img, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("not an image"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if err := run("food", "scan", txt); err == nil {
		t.Error("Expected non-image file to be rejected")
	}
	mustRun(t, "food", "scan", img, img)

	history, _ := inspect(t, dir).LoadNutritionHistory()
	if got := history.Log(models.DateKey(time.Now())).Totals.Calories; got != 570 {
		t.Errorf("Expected 570 kcal from two photos, got %d", got)
	}
}

func TestChatCmd(t *testing.T) {
	dir := setupTestCLI(t, &cliGateway{chunks: []string{"Warm up ", "for 5 minutes."}})
	setupProfile(t, false)

	mustRun(t, "chat", "How", "should", "I", "warm", "up?")
	mustRun(t, "chat", "history")

	msgs, err := inspect(t, dir).LoadChatHistory()
	if err != nil {
		t.Fatalf("LoadChatHistory failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Text() != "How should I warm up?" || msgs[1].Text() != "Warm up for 5 minutes." {
		t.Errorf("Unexpected conversation: %+v", msgs)
	}
}

func TestChatCmdFailurePersistsApology(t *testing.T) {
	dir := setupTestCLI(t, &cliGateway{chatErr: errors.New("connection reset")})
	setupProfile(t, false)

	if err := run("chat", "hello"); err != nil {
		t.Fatalf("Expected failed turn to be handled, got %v", err)
	}

	msgs, _ := inspect(t, dir).LoadChatHistory()
	if len(msgs) != 2 || msgs[1].Role != models.RoleModel || msgs[1].Text() != app.ApologyText {
		t.Fatalf("Expected user message plus apology, got %+v", msgs)
	}
}

func TestSendChatPrintsApologyAfterPartialReply(t *testing.T) {
	setupTestCLI(t, &cliGateway{chunks: []string{"Start with "}, chatErr: errors.New("connection reset")})
	setupProfile(t, false)
	if err := openApp(); err != nil {
		t.Fatalf("openApp failed: %v", err)
	}
	t.Cleanup(func() { _ = closeApp() })

	var out bytes.Buffer
	if err := sendChat(context.Background(), &out, "how do I start?"); err != nil {
		t.Fatalf("sendChat failed: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Start with \n") {
		t.Errorf("Expected partial reply on its own line, got %q", got)
	}
	if !strings.Contains(got, app.ApologyText) {
		t.Errorf("Expected apology in output, got %q", got)
	}
}

func TestChatREPL(t *testing.T) {
	setupTestCLI(t, &cliGateway{chunks: []string{"Hi ", "Sam!"}})
	setupProfile(t, false)
	if err := openApp(); err != nil {
		t.Fatalf("openApp failed: %v", err)
	}
	t.Cleanup(func() { _ = closeApp() })

	var out bytes.Buffer
	in := strings.NewReader("hello\n\nexit\nignored\n")
	if err := chatREPL(context.Background(), in, &out); err != nil {
		t.Fatalf("chatREPL failed: %v", err)
	}
	if !strings.Contains(out.String(), "Hi Sam!") {
		t.Errorf("Expected streamed reply in output, got %q", out.String())
	}
	if n := len(ctrl.State().ChatHistory); n != 2 {
		t.Errorf("Expected one exchange, got %d messages", n)
	}
}

func TestPRCmds(t *testing.T) {
	dir := setupTestCLI(t, nil)
	setupProfile(t, false)

	mustRun(t, "pr", "add", "Bench Press", "80.5", "5")
	mustRun(t, "pr", "list")

	prs, _ := inspect(t, dir).LoadPersonalRecords()
	if len(prs) != 1 || prs[0].ExerciseName != "Bench Press" || prs[0].Weight != 80.5 || prs[0].Reps != 5 {
		t.Errorf("Unexpected records: %+v", prs)
	}
}

func TestPRAddInvalid(t *testing.T) {
	setupTestCLI(t, nil)
	setupProfile(t, false)

	for _, args := range [][]string{
		{"pr", "add", "Squat", "heavy", "5"},
		{"pr", "add", "Squat", "100", "five"},
		{"pr", "add", "Squat", "0", "5"},
		{"pr", "add", "Squat", "100"},
	} {
		if err := run(args...); err == nil {
			t.Errorf("Expected %v to fail", args)
		}
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := setupTestCLI(t, &cliGateway{})
	setupProfile(t, true)
	mustRun(t, "pr", "add", "Deadlift", "140", "3")

	backup := filepath.Join(dir, "backup.json")
	mustRun(t, "export", "json", "-o", backup)
	mustRun(t, "export", "yaml")
	mustRun(t, "reset", "--yes")

	if err := run("today"); !errors.Is(err, errNoProfile) {
		t.Fatalf("Expected reset to remove the profile, got %v", err)
	}

	mustRun(t, "import", backup)
	mustRun(t, "today")

	s := inspect(t, dir)
	profile, _ := s.LoadProfile()
	prs, _ := s.LoadPersonalRecords()
	if profile == nil || profile.Name != "Sam" {
		t.Errorf("Expected profile restored, got %+v", profile)
	}
	if len(prs) != 1 {
		t.Errorf("Expected 1 PR restored, got %d", len(prs))
	}
}

func TestExportInvalidFormat(t *testing.T) {
	setupTestCLI(t, nil)
	if err := run("export", "csv"); err == nil {
		t.Error("Expected unknown format to fail")
	}
}

func TestImportCmdErrors(t *testing.T) {
	dir := setupTestCLI(t, nil)

	if err := run("import", filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected missing file to fail")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := run("import", bad); err == nil {
		t.Error("Expected invalid JSON to fail")
	}
}

func TestMigrateToSQLite(t *testing.T) {
	dir := setupTestCLI(t, nil)
	setupProfile(t, false)

	mustRun(t, "migrate", "--to", "sqlite")

	b, err := storage.OpenSQLite(filepath.Join(dir, "data", "fitcoach.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	s := storage.New(b)
	defer s.Close()

	profile, err := s.LoadProfile()
	if err != nil || profile == nil || profile.Name != "Sam" {
		t.Errorf("Expected profile in sqlite, got %+v (err %v)", profile, err)
	}
}

func TestMigrateSwitchesBackend(t *testing.T) {
	dir := setupTestCLI(t, nil)
	setupProfile(t, false)

	mustRun(t, "migrate", "--to", "sqlite", "--switch")

	t.Setenv("FITCOACH_BACKEND", "")
	os.Unsetenv("FITCOACH_BACKEND")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load failed: %v", err)
	}
	if cfg.GetBackend() != config.BackendSQLite {
		t.Errorf("Expected sqlite backend saved, got %s", cfg.GetBackend())
	}
	if _, err := os.Stat(filepath.Join(dir, "config", "fitcoach", "config.json")); err != nil {
		t.Errorf("Expected config file written: %v", err)
	}
}

func TestMigrateErrors(t *testing.T) {
	setupTestCLI(t, nil)

	if err := run("migrate", "--to", "badger"); err == nil {
		t.Error("Expected migrating to the current backend to fail")
	}
	if err := run("migrate", "--to", "floppy"); err == nil {
		t.Error("Expected unknown backend to fail")
	}
}

func TestSyncRequiresCharmBackend(t *testing.T) {
	setupTestCLI(t, nil)

	if err := run("sync", "status"); !errors.Is(err, errNotCharm) {
		t.Errorf("Expected errNotCharm, got %v", err)
	}
}

func TestRootCmdLongDescription(t *testing.T) {
	if rootCmd.Long == "" {
		t.Error("Expected rootCmd.Long to be non-empty")
	}
}
