// Package payload narrows untrusted decoded JSON into domain types.
//
// This is the single trust boundary between the network and the rest of the
// engine: every inbound body passes through one of the Validate functions,
// and no downstream component re-checks payload shape. Validation never
// panics; a shape mismatch yields nil.
package payload

import (
	"github.com/katsuo-ito/slotsync/internal/model"
)

// ValidateEvent checks raw against the EventDetail shape. Returns nil when
// any required field is missing, has the wrong kind, or any candidate entry
// fails its own shape check.
func ValidateEvent(raw any) *model.EventDetail {
	rec, ok := asRecord(raw)
	if !ok {
		return nil
	}
	title, ok := stringField(rec, "title")
	if !ok {
		return nil
	}
	description, ok := stringField(rec, "description")
	if !ok {
		return nil
	}
	items, ok := rec["candidates"].([]any)
	if !ok {
		return nil
	}
	candidates := make([]model.CandidateSlot, 0, len(items))
	for _, item := range items {
		slot := ValidateCandidateSlot(item)
		if slot == nil {
			return nil
		}
		candidates = append(candidates, *slot)
	}
	return &model.EventDetail{
		Title:       title,
		Description: description,
		Candidates:  candidates,
	}
}

// ValidateCandidateSlot checks raw against the CandidateSlot shape.
func ValidateCandidateSlot(raw any) *model.CandidateSlot {
	rec, ok := asRecord(raw)
	if !ok {
		return nil
	}
	id, ok := intField(rec, "candidateSlotId")
	if !ok {
		return nil
	}
	startAt, ok := stringField(rec, "startAt")
	if !ok {
		return nil
	}
	endAt, ok := stringField(rec, "endAt")
	if !ok {
		return nil
	}
	return &model.CandidateSlot{
		CandidateSlotID: id,
		StartAt:         startAt,
		EndAt:           endAt,
	}
}

// ValidateResults checks raw against the ResultsSnapshot shape.
func ValidateResults(raw any) *model.ResultsSnapshot {
	rec, ok := asRecord(raw)
	if !ok {
		return nil
	}
	publicID, ok := stringField(rec, "publicId")
	if !ok {
		return nil
	}
	title, ok := stringField(rec, "title")
	if !ok {
		return nil
	}
	description, ok := stringField(rec, "description")
	if !ok {
		return nil
	}
	respondentCount, ok := countField(rec, "respondentCount")
	if !ok {
		return nil
	}
	items, ok := rec["candidates"].([]any)
	if !ok {
		return nil
	}
	candidates := make([]model.CandidateResult, 0, len(items))
	for _, item := range items {
		result := ValidateCandidateResult(item)
		if result == nil {
			return nil
		}
		candidates = append(candidates, *result)
	}
	return &model.ResultsSnapshot{
		PublicID:        publicID,
		Title:           title,
		Description:     description,
		RespondentCount: respondentCount,
		Candidates:      candidates,
	}
}

// ValidateCandidateResult checks raw against the CandidateResult shape.
// Tallies must be non-negative numbers.
func ValidateCandidateResult(raw any) *model.CandidateResult {
	rec, ok := asRecord(raw)
	if !ok {
		return nil
	}
	id, ok := intField(rec, "candidateSlotId")
	if !ok {
		return nil
	}
	startAt, ok := stringField(rec, "startAt")
	if !ok {
		return nil
	}
	endAt, ok := stringField(rec, "endAt")
	if !ok {
		return nil
	}
	okCount, ok := countField(rec, "ok")
	if !ok {
		return nil
	}
	maybeCount, ok := countField(rec, "maybe")
	if !ok {
		return nil
	}
	ngCount, ok := countField(rec, "ng")
	if !ok {
		return nil
	}
	return &model.CandidateResult{
		CandidateSlotID: id,
		StartAt:         startAt,
		EndAt:           endAt,
		OK:              okCount,
		Maybe:           maybeCount,
		NG:              ngCount,
	}
}

// asRecord narrows a decoded JSON value to a plain key/value record.
func asRecord(v any) (map[string]any, bool) {
	rec, ok := v.(map[string]any)
	return rec, ok
}

func stringField(rec map[string]any, key string) (string, bool) {
	s, ok := rec[key].(string)
	return s, ok
}

// intField accepts any numeric JSON value; encoding/json decodes numbers
// into float64 when unmarshaling into any.
func intField(rec map[string]any, key string) (int, bool) {
	f, ok := rec[key].(float64)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// countField is intField restricted to non-negative values (tallies).
func countField(rec map[string]any, key string) (int, bool) {
	n, ok := intField(rec, key)
	if !ok || n < 0 {
		return 0, false
	}
	return n, true
}
