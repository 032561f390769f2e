package testutil

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/katsuo-ito/slotsync/internal/logger"
	"github.com/katsuo-ito/slotsync/internal/model"
)

// NewTestLogger returns a logger that only reports errors, keeping test
// output quiet.
func NewTestLogger() logger.Logger {
	return logger.NewWithLevel(slog.LevelError)
}

// NewTestEvent builds an event with n candidate slots. Slot IDs start at 1.
func NewTestEvent(n int) *model.EventDetail {
	candidates := make([]model.CandidateSlot, 0, n)
	for i := 1; i <= n; i++ {
		candidates = append(candidates, model.CandidateSlot{
			CandidateSlotID: i,
			StartAt:         fmt.Sprintf("2024-06-0%dT10:00:00Z", i),
			EndAt:           fmt.Sprintf("2024-06-0%dT11:00:00Z", i),
		})
	}
	return &model.EventDetail{
		Title:       "Team offsite",
		Description: "Pick the slots that work for you",
		Candidates:  candidates,
	}
}

// DecodeJSON unmarshals s into an untyped value, failing the test on error.
func DecodeJSON(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("failed to decode test JSON: %v", err)
	}
	return v
}
