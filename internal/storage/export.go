// ABOUTME: Export and import functionality for fitcoach data.
// ABOUTME: JSON is a full backup that round-trips through import; YAML is for reading.
package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/harperreed/fitcoach/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion tags the export layout.
const ExportVersion = "1.0"

// ExportData represents the full export format.
type ExportData struct {
	Version          string                  `json:"version" yaml:"version"`
	ExportedAt       time.Time               `json:"exported_at" yaml:"exported_at"`
	Tool             string                  `json:"tool" yaml:"tool"`
	Profile          *models.UserProfile     `json:"profile,omitempty" yaml:"profile,omitempty"`
	Plan             *models.WorkoutPlan     `json:"plan,omitempty" yaml:"plan,omitempty"`
	WorkoutHistory   models.WorkoutHistory   `json:"workout_history" yaml:"workout_history"`
	NutritionHistory models.NutritionHistory `json:"nutrition_history" yaml:"nutrition_history"`
	ChatHistory      []models.ChatMessage    `json:"chat_history" yaml:"chat_history"`
	PersonalRecords  []models.PersonalRecord `json:"personal_records" yaml:"personal_records"`
}

// GetAllData retrieves all data for export.
func (s *Store) GetAllData(now time.Time) (*ExportData, error) {
	snap, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	return &ExportData{
		Version:          ExportVersion,
		ExportedAt:       now,
		Tool:             "fitcoach",
		Profile:          snap.Profile,
		Plan:             snap.Plan,
		WorkoutHistory:   snap.WorkoutHistory,
		NutritionHistory: snap.NutritionHistory,
		ChatHistory:      snap.ChatHistory,
		PersonalRecords:  snap.PersonalRecords,
	}, nil
}

// ImportData replaces every collection with the contents of data.
func (s *Store) ImportData(data *ExportData) error {
	if data.Profile != nil {
		if err := data.Profile.Validate(); err != nil {
			return fmt.Errorf("import profile: %w", err)
		}
	}
	if data.Plan != nil {
		if err := data.Plan.Validate(); err != nil {
			return fmt.Errorf("import plan: %w", err)
		}
	}

	if err := s.SaveProfile(data.Profile); err != nil {
		return fmt.Errorf("import profile: %w", err)
	}
	if err := s.SavePlan(data.Plan); err != nil {
		return fmt.Errorf("import plan: %w", err)
	}
	if err := s.SaveWorkoutHistory(orEmpty(data.WorkoutHistory)); err != nil {
		return fmt.Errorf("import workout history: %w", err)
	}
	nutrition := data.NutritionHistory
	if nutrition == nil {
		nutrition = models.NutritionHistory{}
	}
	if err := s.SaveNutritionHistory(nutrition); err != nil {
		return fmt.Errorf("import nutrition history: %w", err)
	}
	chat := data.ChatHistory
	if chat == nil {
		chat = []models.ChatMessage{}
	}
	if err := s.SaveChatHistory(chat); err != nil {
		return fmt.Errorf("import chat history: %w", err)
	}
	prs := data.PersonalRecords
	if prs == nil {
		prs = []models.PersonalRecord{}
	}
	if err := s.SavePersonalRecords(prs); err != nil {
		return fmt.Errorf("import personal records: %w", err)
	}
	return nil
}

func orEmpty(h models.WorkoutHistory) models.WorkoutHistory {
	if h == nil {
		return models.WorkoutHistory{}
	}
	return h
}

// ExportJSON exports all data as JSON.
func (s *Store) ExportJSON(now time.Time) ([]byte, error) {
	data, err := s.GetAllData(now)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ImportJSON parses a JSON export and imports it.
func (s *Store) ImportJSON(raw []byte) error {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("parse export: %w", err)
	}
	return s.ImportData(&data)
}

// ExportYAML exports all data as YAML with totals inlined per day.
func (s *Store) ExportYAML(now time.Time) ([]byte, error) {
	data, err := s.GetAllData(now)
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version         string                  `yaml:"version"`
		ExportedAt      string                  `yaml:"exported_at"`
		Tool            string                  `yaml:"tool"`
		Profile         *models.UserProfile     `yaml:"profile,omitempty"`
		Plan            []yamlDay               `yaml:"plan,omitempty"`
		Completed       map[string][]string     `yaml:"completed"`
		Nutrition       map[string]yamlFoodDay  `yaml:"nutrition"`
		Chat            []yamlChat              `yaml:"chat"`
		PersonalRecords []models.PersonalRecord `yaml:"personal_records"`
	}{
		Version:         data.Version,
		ExportedAt:      data.ExportedAt.Format(time.RFC3339),
		Tool:            data.Tool,
		Profile:         data.Profile,
		Completed:       make(map[string][]string),
		Nutrition:       make(map[string]yamlFoodDay),
		Chat:            make([]yamlChat, 0, len(data.ChatHistory)),
		PersonalRecords: models.SortRecords(data.PersonalRecords),
	}

	if data.Plan != nil {
		for _, d := range data.Plan.WeeklyPlan {
			yd := yamlDay{Day: d.Day, Rest: d.IsRestDay}
			for _, e := range d.Exercises {
				yd.Exercises = append(yd.Exercises, fmt.Sprintf("%s %dx%s", e.Name, e.Sets, e.Reps))
			}
			yamlData.Plan = append(yamlData.Plan, yd)
		}
	}

	for date, day := range data.WorkoutHistory {
		for id, done := range day {
			if done {
				yamlData.Completed[date] = append(yamlData.Completed[date], id)
			}
		}
		sort.Strings(yamlData.Completed[date])
	}

	for date, log := range data.NutritionHistory {
		if log == nil {
			continue
		}
		yf := yamlFoodDay{Totals: log.Totals}
		for _, item := range log.Items {
			yf.Items = append(yf.Items, item.Name)
		}
		yamlData.Nutrition[date] = yf
	}

	for _, m := range data.ChatHistory {
		yamlData.Chat = append(yamlData.Chat, yamlChat{Role: string(m.Role), Text: m.Text()})
	}

	return yaml.Marshal(yamlData)
}

type yamlDay struct {
	Day       string   `yaml:"day"`
	Rest      bool     `yaml:"rest,omitempty"`
	Exercises []string `yaml:"exercises,omitempty"`
}

type yamlFoodDay struct {
	Items  []string           `yaml:"items"`
	Totals models.MacroTotals `yaml:"totals"`
}

type yamlChat struct {
	Role string `yaml:"role"`
	Text string `yaml:"text"`
}
