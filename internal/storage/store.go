// ABOUTME: Record store over a raw key-value Backend.
// ABOUTME: Six whole-blob JSON keys; corrupt values fall back to defaults and are reported.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harperreed/fitcoach/internal/models"
)

// Record keys, one per entity collection.
const (
	KeyProfile          = "profile"
	KeyPlan             = "plan"
	KeyWorkoutHistory   = "workout_history"
	KeyNutritionHistory = "nutrition_history"
	KeyChatHistory      = "chat_history"
	KeyPersonalRecords  = "personal_records"
)

// AllKeys lists every record key the store manages.
var AllKeys = []string{
	KeyProfile,
	KeyPlan,
	KeyWorkoutHistory,
	KeyNutritionHistory,
	KeyChatHistory,
	KeyPersonalRecords,
}

// Backend is a raw key-value store holding whole JSON blobs.
// Get reports found=false for a missing key rather than an error.
type Backend interface {
	Get(key string) (value []byte, found bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Corruption describes a persisted record that could not be decoded and was
// replaced by its empty default.
type Corruption struct {
	Key string
	Err error
}

func (c Corruption) Error() string {
	return fmt.Sprintf("corrupt record %q: %v", c.Key, c.Err)
}

// Store provides typed access to the six record keys.
type Store struct {
	backend   Backend
	onCorrupt func(Corruption)
}

// Option configures a Store.
type Option func(*Store)

// WithCorruptionHandler registers a callback invoked whenever a record is
// dropped because it failed to decode.
func WithCorruptionHandler(fn func(Corruption)) Option {
	return func(s *Store) {
		s.onCorrupt = fn
	}
}

// New wraps a backend.
func New(b Backend, opts ...Option) *Store {
	s := &Store{backend: b}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the underlying raw store.
func (s *Store) Backend() Backend {
	return s.backend
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Get returns the raw blob stored under key.
func (s *Store) Get(key string) ([]byte, bool, error) {
	return s.backend.Get(key)
}

// Set replaces the raw blob stored under key.
func (s *Store) Set(key string, value []byte) error {
	return s.backend.Set(key, value)
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(key string) error {
	return s.backend.Delete(key)
}

// Clear removes every record key.
func (s *Store) Clear() error {
	for _, key := range AllKeys {
		if err := s.backend.Delete(key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}

// load decodes key into T. Missing keys yield found=false. Decode failures are
// reported through onCorrupt and also yield found=false.
func load[T any](s *Store, key string, validate func(*T) error) (T, bool, error) {
	var zero T
	data, found, err := s.backend.Get(key)
	if err != nil {
		return zero, false, fmt.Errorf("get %s: %w", key, err)
	}
	if !found {
		return zero, false, nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		s.corrupt(key, err)
		return zero, false, nil
	}
	if validate != nil {
		if err := validate(&v); err != nil {
			s.corrupt(key, err)
			return zero, false, nil
		}
	}
	return v, true, nil
}

func (s *Store) corrupt(key string, err error) {
	if s.onCorrupt != nil {
		s.onCorrupt(Corruption{Key: key, Err: err})
	}
}

func (s *Store) save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.backend.Set(key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// LoadProfile returns the stored profile, or nil if none exists.
func (s *Store) LoadProfile() (*models.UserProfile, error) {
	p, found, err := load[models.UserProfile](s, KeyProfile, nil)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

// SaveProfile replaces the stored profile. A nil profile removes it.
func (s *Store) SaveProfile(p *models.UserProfile) error {
	if p == nil {
		return s.Remove(KeyProfile)
	}
	return s.save(KeyProfile, p)
}

// LoadPlan returns the stored plan, or nil if none exists. A plan without
// exactly seven days is treated as corrupt.
func (s *Store) LoadPlan() (*models.WorkoutPlan, error) {
	p, found, err := load(s, KeyPlan, func(p *models.WorkoutPlan) error { return p.Validate() })
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

// SavePlan replaces the stored plan. A nil plan removes it.
func (s *Store) SavePlan(p *models.WorkoutPlan) error {
	if p == nil {
		return s.Remove(KeyPlan)
	}
	return s.save(KeyPlan, p)
}

// LoadWorkoutHistory returns the stored history, or an empty one.
func (s *Store) LoadWorkoutHistory() (models.WorkoutHistory, error) {
	h, found, err := load[models.WorkoutHistory](s, KeyWorkoutHistory, nil)
	if err != nil {
		return nil, err
	}
	if !found || h == nil {
		return models.WorkoutHistory{}, nil
	}
	return h, nil
}

// SaveWorkoutHistory replaces the stored history.
func (s *Store) SaveWorkoutHistory(h models.WorkoutHistory) error {
	return s.save(KeyWorkoutHistory, h)
}

// LoadNutritionHistory returns the stored nutrition history, or an empty one.
func (s *Store) LoadNutritionHistory() (models.NutritionHistory, error) {
	h, found, err := load[models.NutritionHistory](s, KeyNutritionHistory, nil)
	if err != nil {
		return nil, err
	}
	if !found || h == nil {
		return models.NutritionHistory{}, nil
	}
	return h, nil
}

// SaveNutritionHistory replaces the stored nutrition history.
func (s *Store) SaveNutritionHistory(h models.NutritionHistory) error {
	return s.save(KeyNutritionHistory, h)
}

// LoadChatHistory returns the stored conversation, or an empty one.
func (s *Store) LoadChatHistory() ([]models.ChatMessage, error) {
	msgs, found, err := load[[]models.ChatMessage](s, KeyChatHistory, nil)
	if err != nil {
		return nil, err
	}
	if !found || msgs == nil {
		return []models.ChatMessage{}, nil
	}
	return msgs, nil
}

// SaveChatHistory replaces the stored conversation.
func (s *Store) SaveChatHistory(msgs []models.ChatMessage) error {
	return s.save(KeyChatHistory, msgs)
}

// LoadPersonalRecords returns the stored records, or an empty list.
func (s *Store) LoadPersonalRecords() ([]models.PersonalRecord, error) {
	prs, found, err := load[[]models.PersonalRecord](s, KeyPersonalRecords, nil)
	if err != nil {
		return nil, err
	}
	if !found || prs == nil {
		return []models.PersonalRecord{}, nil
	}
	return prs, nil
}

// SavePersonalRecords replaces the stored records.
func (s *Store) SavePersonalRecords(prs []models.PersonalRecord) error {
	return s.save(KeyPersonalRecords, prs)
}

// Snapshot is every collection loaded at once.
type Snapshot struct {
	Profile          *models.UserProfile
	Plan             *models.WorkoutPlan
	WorkoutHistory   models.WorkoutHistory
	NutritionHistory models.NutritionHistory
	ChatHistory      []models.ChatMessage
	PersonalRecords  []models.PersonalRecord
}

// LoadAll reads all six keys.
func (s *Store) LoadAll() (*Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)
	if snap.Profile, err = s.LoadProfile(); err != nil {
		return nil, err
	}
	if snap.Plan, err = s.LoadPlan(); err != nil {
		return nil, err
	}
	if snap.WorkoutHistory, err = s.LoadWorkoutHistory(); err != nil {
		return nil, err
	}
	if snap.NutritionHistory, err = s.LoadNutritionHistory(); err != nil {
		return nil, err
	}
	if snap.ChatHistory, err = s.LoadChatHistory(); err != nil {
		return nil, err
	}
	if snap.PersonalRecords, err = s.LoadPersonalRecords(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// DataDir returns the default data directory following XDG base directory rules.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "fitcoach")
}

// LoadReport reads all six keys and returns any corruptions encountered,
// in addition to notifying the registered handler.
func (s *Store) LoadReport() (*Snapshot, []Corruption, error) {
	var found []Corruption
	prev := s.onCorrupt
	s.onCorrupt = func(c Corruption) {
		found = append(found, c)
		if prev != nil {
			prev(c)
		}
	}
	defer func() { s.onCorrupt = prev }()

	snap, err := s.LoadAll()
	if err != nil {
		return nil, nil, err
	}
	return snap, found, nil
}
