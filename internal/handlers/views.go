package handlers

import (
	"github.com/katsuo-ito/slotsync/internal/linkify"
	"github.com/katsuo-ito/slotsync/internal/model"
	"github.com/katsuo-ito/slotsync/internal/respond"
	"github.com/katsuo-ito/slotsync/internal/results"
)

// AvailabilityOption is one selectable answer for a slot
type AvailabilityOption struct {
	Value    string
	Label    string
	Selected bool
}

// SlotRow is one candidate slot with its current selection
type SlotRow struct {
	Slot    model.CandidateSlot
	Options []AvailabilityOption
}

// RespondView is the data passed to the respond template
type RespondView struct {
	PublicID   string
	EditKey    string
	Loading    bool
	Event      *model.EventDetail
	Rows       []SlotRow
	Name       string
	Error      string
	ErrStatus  int
	Submitted  bool
	EditURL    string
	NoEditLink bool
	Notice     string
}

var availabilityLabels = []struct {
	value model.Availability
	label string
}{
	{model.AvailabilityOK, "OK"},
	{model.AvailabilityMaybe, "Maybe"},
	{model.AvailabilityNG, "NG"},
}

// buildRespondView projects a session snapshot into template data
func buildRespondView(snap respond.Snapshot, editKey, name string) *RespondView {
	view := &RespondView{
		PublicID: snap.PublicID,
		EditKey:  editKey,
		Loading:  snap.FetchPhase == respond.Fetching,
		Event:    snap.Event,
		Name:     name,
		Notice:   snap.Notice,
	}
	if snap.FetchErr != nil {
		view.Error = snap.FetchErr.Error()
		view.ErrStatus = snap.FetchErr.Status
	}
	if snap.SubmitErr != nil {
		view.Error = snap.SubmitErr.Error()
		view.ErrStatus = snap.SubmitErr.Status
	}
	if snap.SubmitPhase == respond.Submitted {
		view.Submitted = true
		view.EditURL = snap.EditURL
		view.NoEditLink = snap.EditURL == ""
	}
	if snap.Event != nil {
		view.Rows = make([]SlotRow, 0, len(snap.Event.Candidates))
		for _, slot := range snap.Event.Candidates {
			selected := snap.State.Get(slot.CandidateSlotID)
			row := SlotRow{Slot: slot}
			for _, opt := range availabilityLabels {
				row.Options = append(row.Options, AvailabilityOption{
					Value:    string(opt.value),
					Label:    opt.label,
					Selected: selected == opt.value,
				})
			}
			view.Rows = append(view.Rows, row)
		}
	}
	return view
}

// ResultsView is the data passed to the results template
type ResultsView struct {
	PublicID  string
	Snapshot  *model.ResultsSnapshot
	Rows      []results.Row
	Error     string
	ErrStatus int
}

// Cell is one rendered table cell, split into linkified fragments
type Cell struct {
	Fragments []linkify.Fragment
}

// AdminView is the data passed to the organizer inspection template
type AdminView struct {
	PublicID   string
	ServiceURL string
	KeyError   string
	Error      string
	ErrStatus  int
	HasData    bool
	Columns    []string
	Rows       [][]Cell
	JSON       []linkify.Fragment
}
