package respond

import (
	"github.com/katsuo-ito/slotsync/internal/model"
)

// AvailabilityState maps candidateSlotId to the respondent's current answer.
// Updates are copy-on-write: a state value handed out is never mutated, so
// concurrent readers always observe a consistent snapshot.
type AvailabilityState map[int]model.Availability

// NewAvailabilityState builds the state for a freshly fetched event. Every
// slot starts at MAYBE, the explicit "undecided" default. The key set is
// exactly the event's slot IDs; it is rebuilt, never merged, when the event
// changes.
func NewAvailabilityState(slots []model.CandidateSlot) AvailabilityState {
	state := make(AvailabilityState, len(slots))
	for _, slot := range slots {
		state[slot.CandidateSlotID] = model.AvailabilityMaybe
	}
	return state
}

// With returns a new state equal to the receiver except for the one key.
// Unknown slot IDs are accepted and stored; they have no visible effect
// until a matching slot exists.
func (s AvailabilityState) With(slotID int, value model.Availability) AvailabilityState {
	next := make(AvailabilityState, len(s)+1)
	for id, v := range s {
		next[id] = v
	}
	next[slotID] = value
	return next
}

// Get returns the answer for a slot, defaulting to MAYBE when absent.
func (s AvailabilityState) Get(slotID int) model.Availability {
	if v, ok := s[slotID]; ok {
		return v
	}
	return model.AvailabilityMaybe
}
