// Package respond holds one respondent's in-progress answers and drives the
// fetch/submit workflow against the scheduling service.
package respond

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/katsuo-ito/slotsync/internal/errors"
	"github.com/katsuo-ito/slotsync/internal/logger"
	"github.com/katsuo-ito/slotsync/internal/model"
	"github.com/katsuo-ito/slotsync/pkg/schedule"
)

// FetchPhase is the state of the event-fetch machine.
type FetchPhase int

const (
	FetchIdle FetchPhase = iota
	Fetching
	FetchReady
	FetchFailed
)

// SubmitPhase is the state of the submission machine, independent of the
// fetch machine.
type SubmitPhase int

const (
	SubmitIdle SubmitPhase = iota
	Submitting
	Submitted
	SubmitFailed
)

// noticeTTL is how long a transient user notice stays visible.
const noticeTTL = 3 * time.Second

// Session owns the state tree for one event page: the fetched EventDetail,
// the respondent's availability answers, and the outcome of the latest
// submission. Only the most recently issued fetch or submit may mutate
// state; superseded operations are cancelled and their late results
// discarded. Nothing started by a session outlives Close.
type Session struct {
	log      logger.Logger
	client   schedule.Client
	publicID string

	mu sync.Mutex

	fetchPhase FetchPhase
	event      *model.EventDetail
	state      AvailabilityState
	fetchErr   *apperrors.Error

	submitPhase SubmitPhase
	editURL     string
	submitErr   *apperrors.Error

	latestFetch  string
	latestSubmit string
	cancelFetch  context.CancelFunc
	cancelSubmit context.CancelFunc

	notice      string
	noticeTimer *time.Timer
	closed      bool
}

// NewSession creates a session for one event page.
func NewSession(log logger.Logger, client schedule.Client, publicID string) *Session {
	return &Session{
		log:      log,
		client:   client,
		publicID: publicID,
	}
}

// PublicID returns the event's public identifier.
func (s *Session) PublicID() string {
	return s.publicID
}

// Snapshot is a consistent read of the session's visible state.
type Snapshot struct {
	PublicID    string
	FetchPhase  FetchPhase
	Event       *model.EventDetail
	State       AvailabilityState
	FetchErr    *apperrors.Error
	SubmitPhase SubmitPhase
	EditURL     string
	SubmitErr   *apperrors.Error
	Notice      string
}

// Snapshot returns the session's current visible state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		PublicID:    s.publicID,
		FetchPhase:  s.fetchPhase,
		Event:       s.event,
		State:       s.state,
		FetchErr:    s.fetchErr,
		SubmitPhase: s.submitPhase,
		EditURL:     s.editURL,
		SubmitErr:   s.submitErr,
		Notice:      s.notice,
	}
}

// Fetch loads the event, superseding any fetch still in flight. A stale
// result arriving after a newer fetch began is discarded without touching
// state; a cancelled fetch is withdrawn, not failed.
func (s *Session) Fetch(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if s.cancelFetch != nil {
		s.cancelFetch()
	}
	token := uuid.NewString()
	fetchCtx, cancel := context.WithCancel(ctx)
	s.latestFetch = token
	s.cancelFetch = cancel
	s.fetchPhase = Fetching
	s.fetchErr = nil
	s.event = nil
	s.state = nil
	s.mu.Unlock()

	event, err := s.client.FetchEvent(fetchCtx, s.publicID)

	s.mu.Lock()
	defer s.mu.Unlock()
	// The closed check covers clients that return a result without honoring
	// the cancelled context.
	if s.closed || s.latestFetch != token {
		s.log.Debug("stale fetch discarded", "publicId", s.publicID, "request", token)
		return nil
	}
	if err != nil {
		if apperrors.IsCanceled(err) {
			s.log.Debug("fetch withdrawn", "publicId", s.publicID, "request", token)
			return nil
		}
		s.fetchPhase = FetchFailed
		s.fetchErr = coerce(err)
		s.log.Warn("fetch failed", "publicId", s.publicID, "error", err)
		return s.fetchErr
	}
	s.fetchPhase = FetchReady
	s.event = event
	s.state = NewAvailabilityState(event.Candidates)
	s.log.Info("event fetched", "publicId", s.publicID, "slots", len(event.Candidates))
	return nil
}

// SetAvailability records the respondent's answer for one slot.
func (s *Session) SetAvailability(slotID int, value model.Availability) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.With(slotID, value)
}

// Submit sends the current answers under the given respondent name. A blank
// name (whitespace-only counts as blank) or a missing event blocks the
// operation before any network call. Re-submission repeats the whole cycle
// and overwrites the previous outcome.
func (s *Session) Submit(ctx context.Context, respondentName string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	name := strings.TrimSpace(respondentName)
	if name == "" {
		s.mu.Unlock()
		return apperrors.Input("respondent name is required")
	}
	if s.event == nil {
		s.mu.Unlock()
		return apperrors.Input("no event loaded")
	}

	items := make([]model.ResponseItem, 0, len(s.event.Candidates))
	for _, slot := range s.event.Candidates {
		items = append(items, model.ResponseItem{
			CandidateSlotID: slot.CandidateSlotID,
			Availability:    s.state.Get(slot.CandidateSlotID),
		})
	}
	req := model.SubmitRequest{RespondentName: name, Items: items}

	if s.cancelSubmit != nil {
		s.cancelSubmit()
	}
	token := uuid.NewString()
	submitCtx, cancel := context.WithCancel(ctx)
	s.latestSubmit = token
	s.cancelSubmit = cancel
	s.submitPhase = Submitting
	s.submitErr = nil
	s.editURL = ""
	s.mu.Unlock()

	editURL, err := s.client.SubmitResponse(submitCtx, s.publicID, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.latestSubmit != token {
		s.log.Debug("stale submit discarded", "publicId", s.publicID, "request", token)
		return nil
	}
	if err != nil {
		if apperrors.IsCanceled(err) {
			s.log.Debug("submit withdrawn", "publicId", s.publicID, "request", token)
			return nil
		}
		s.submitPhase = SubmitFailed
		s.submitErr = coerce(err)
		s.log.Warn("submit failed", "publicId", s.publicID, "error", err)
		return s.submitErr
	}
	s.submitPhase = Submitted
	s.editURL = editURL
	s.setNoticeLocked("Response submitted.")
	s.log.Info("response submitted", "publicId", s.publicID, "hasEditUrl", editURL != "")
	return nil
}

// Notice returns the current transient notice, if any.
func (s *Session) Notice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

// SetNotice shows a transient notice that auto-dismisses after a short
// interval. Setting a new notice replaces the old one and restarts the
// timer.
func (s *Session) SetNotice(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.setNoticeLocked(msg)
}

func (s *Session) setNoticeLocked(msg string) {
	if s.noticeTimer != nil {
		s.noticeTimer.Stop()
	}
	s.notice = msg
	s.noticeTimer = time.AfterFunc(noticeTTL, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.notice == msg {
			s.notice = ""
		}
	})
}

// Close cancels any in-flight operation and stops the notice timer. A
// cancelled operation makes no state transition. The session must not be
// used after Close.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.cancelFetch != nil {
		s.cancelFetch()
	}
	if s.cancelSubmit != nil {
		s.cancelSubmit()
	}
	if s.noticeTimer != nil {
		s.noticeTimer.Stop()
	}
}

// coerce maps any error into an application error, treating unknown errors
// as transport failures (no status available).
func coerce(err error) *apperrors.Error {
	if appErr, ok := err.(*apperrors.Error); ok {
		return appErr
	}
	return apperrors.Transport(err)
}
