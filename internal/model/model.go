// Package model defines the domain types exchanged with the scheduling service.
package model

// Availability is a respondent's answer for a single candidate slot.
type Availability string

const (
	AvailabilityOK    Availability = "OK"
	AvailabilityMaybe Availability = "MAYBE"
	AvailabilityNG    Availability = "NG"
)

// ParseAvailability converts a wire/form value into an Availability.
// Returns false for anything outside the three known values.
func ParseAvailability(s string) (Availability, bool) {
	switch Availability(s) {
	case AvailabilityOK, AvailabilityMaybe, AvailabilityNG:
		return Availability(s), true
	}
	return "", false
}

// CandidateSlot is one proposed time interval for an event.
type CandidateSlot struct {
	CandidateSlotID int    `json:"candidateSlotId"`
	StartAt         string `json:"startAt"`
	EndAt           string `json:"endAt"`
}

// EventDetail is the full description of an event as fetched from the
// service. It is immutable once fetched and replaced wholesale on refetch.
type EventDetail struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Candidates  []CandidateSlot `json:"candidates"`
}

// CandidateResult carries server-computed tallies for one slot.
type CandidateResult struct {
	CandidateSlotID int    `json:"candidateSlotId"`
	StartAt         string `json:"startAt"`
	EndAt           string `json:"endAt"`
	OK              int    `json:"ok"`
	Maybe           int    `json:"maybe"`
	NG              int    `json:"ng"`
}

// ResultsSnapshot is the aggregated view of all responses for an event.
type ResultsSnapshot struct {
	PublicID        string            `json:"publicId"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	RespondentCount int               `json:"respondentCount"`
	Candidates      []CandidateResult `json:"candidates"`
}

// ResponseItem pairs a candidate slot with the respondent's answer.
type ResponseItem struct {
	CandidateSlotID int          `json:"candidateSlotId"`
	Availability    Availability `json:"availability"`
}

// SubmitRequest is the body of a response submission.
type SubmitRequest struct {
	RespondentName string         `json:"respondentName"`
	Items          []ResponseItem `json:"items"`
}

// SubmitResponse is the body returned by a successful submission. EditURL
// may be empty when the server issued no capability link.
type SubmitResponse struct {
	EditURL string `json:"editUrl"`
}
