// ABOUTME: Tests for WorkoutHistory toggling and counting.
// ABOUTME: Verifies lazy date creation and toggle idempotence.
package models

import (
	"testing"
	"time"
)

func TestToggleTwiceRestores(t *testing.T) {
	h := WorkoutHistory{}

	if got := h.Toggle("2025-03-10", "monday-0-1"); !got {
		t.Fatal("first toggle should complete the exercise")
	}
	if h.CompletedCount("2025-03-10") != 1 {
		t.Errorf("CompletedCount = %d, want 1", h.CompletedCount("2025-03-10"))
	}
	if got := h.Toggle("2025-03-10", "monday-0-1"); got {
		t.Fatal("second toggle should un-complete the exercise")
	}
	if h.IsCompleted("2025-03-10", "monday-0-1") {
		t.Error("exercise should not be completed")
	}
	if _, ok := h["2025-03-10"]; !ok {
		t.Error("date entry should remain after toggling back")
	}
}

func TestCompletedCountIgnoresFalse(t *testing.T) {
	h := WorkoutHistory{"2025-03-10": {"a": true, "b": false, "c": true}}
	if got := h.CompletedCount("2025-03-10"); got != 2 {
		t.Errorf("CompletedCount = %d, want 2", got)
	}
	if got := h.CompletedCount("2025-03-11"); got != 0 {
		t.Errorf("CompletedCount on missing date = %d, want 0", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	h := WorkoutHistory{"2025-03-10": {"a": true}}
	c := h.Clone()
	c.Toggle("2025-03-10", "a")
	if !h.IsCompleted("2025-03-10", "a") {
		t.Error("mutating clone changed original")
	}
}

func TestDateKey(t *testing.T) {
	ts := time.Date(2025, time.January, 5, 23, 30, 0, 0, time.Local)
	if got := DateKey(ts); got != "2025-01-05" {
		t.Errorf("DateKey = %q", got)
	}
	parsed, err := ParseDateKey("2025-01-05", time.Local)
	if err != nil {
		t.Fatalf("ParseDateKey: %v", err)
	}
	if parsed.Day() != 5 || parsed.Month() != time.January {
		t.Errorf("ParseDateKey = %v", parsed)
	}
}
