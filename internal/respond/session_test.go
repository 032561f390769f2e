package respond_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/katsuo-ito/slotsync/internal/errors"
	"github.com/katsuo-ito/slotsync/internal/model"
	"github.com/katsuo-ito/slotsync/internal/respond"
	"github.com/katsuo-ito/slotsync/internal/testutil"
	"github.com/katsuo-ito/slotsync/pkg/schedule"
)

func newTestSession(t *testing.T, opts ...schedule.MockOption) (*respond.Session, *schedule.MockClient) {
	t.Helper()
	mock := schedule.NewMockClient(opts...)
	session := respond.NewSession(testutil.NewTestLogger(), mock, "evt-1")
	t.Cleanup(session.Close)
	return session, mock
}

func TestFetch_Success(t *testing.T) {
	event := testutil.NewTestEvent(2)
	session, _ := newTestSession(t, schedule.WithEvent(event))

	if err := session.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	snap := session.Snapshot()
	if snap.FetchPhase != respond.FetchReady {
		t.Errorf("expected FetchReady, got %v", snap.FetchPhase)
	}
	if snap.Event != event {
		t.Error("expected fetched event in snapshot")
	}
	if len(snap.State) != 2 {
		t.Fatalf("expected 2 state entries, got %d", len(snap.State))
	}
	for id, v := range snap.State {
		if v != model.AvailabilityMaybe {
			t.Errorf("slot %d: expected MAYBE default, got %s", id, v)
		}
	}
}

func TestFetch_Failure(t *testing.T) {
	session, _ := newTestSession(t, schedule.WithFetchError(apperrors.Status(404, "Not Found")))

	err := session.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}

	snap := session.Snapshot()
	if snap.FetchPhase != respond.FetchFailed {
		t.Errorf("expected FetchFailed, got %v", snap.FetchPhase)
	}
	if snap.FetchErr == nil || snap.FetchErr.Status != 404 {
		t.Errorf("expected 404 fetch error, got %+v", snap.FetchErr)
	}
	if snap.Event != nil {
		t.Error("expected no event after failed fetch")
	}
}

func TestFetch_RebuildsStateWholesale(t *testing.T) {
	session, mock := newTestSession(t, schedule.WithEvent(testutil.NewTestEvent(2)))

	if err := session.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	session.SetAvailability(1, model.AvailabilityOK)

	// A new event with a different slot set replaces the state entirely.
	mock.SetEvent(&model.EventDetail{
		Title:      "Replanned",
		Candidates: []model.CandidateSlot{{CandidateSlotID: 7, StartAt: "a", EndAt: "b"}},
	})
	if err := session.Fetch(context.Background()); err != nil {
		t.Fatalf("second Fetch failed: %v", err)
	}

	snap := session.Snapshot()
	if len(snap.State) != 1 {
		t.Fatalf("expected state rebuilt with 1 entry, got %d", len(snap.State))
	}
	if got := snap.State.Get(7); got != model.AvailabilityMaybe {
		t.Errorf("expected fresh MAYBE for slot 7, got %s", got)
	}
}

func TestFetch_SupersededResultIsDiscarded(t *testing.T) {
	eventA := testutil.NewTestEvent(1)
	eventA.Title = "First"

	var calls int32
	release := make(chan struct{})
	session, mock := newTestSession(t,
		schedule.WithEvent(eventA),
		schedule.WithFetchHook(func(ctx context.Context, publicID string) {
			if atomic.AddInt32(&calls, 1) == 1 {
				select {
				case <-release:
				case <-ctx.Done():
				}
			}
		}),
	)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- session.Fetch(context.Background())
	}()

	// Wait for the first fetch to be in flight.
	deadline := time.After(2 * time.Second)
	for atomic.LoadInt32(&calls) == 0 {
		select {
		case <-deadline:
			t.Fatal("first fetch never started")
		case <-time.After(time.Millisecond):
		}
	}

	eventB := testutil.NewTestEvent(1)
	eventB.Title = "Second"
	mock.SetEvent(eventB)

	if err := session.Fetch(context.Background()); err != nil {
		t.Fatalf("superseding fetch failed: %v", err)
	}

	close(release)
	if err := <-firstDone; err != nil {
		t.Errorf("superseded fetch should be silent, got %v", err)
	}

	snap := session.Snapshot()
	if snap.Event == nil || snap.Event.Title != "Second" {
		t.Fatalf("expected the newest fetch to win, got %+v", snap.Event)
	}
	if snap.FetchPhase != respond.FetchReady {
		t.Errorf("expected FetchReady, got %v", snap.FetchPhase)
	}
}

func TestSubmit_EmptyNameMakesNoNetworkCall(t *testing.T) {
	session, mock := newTestSession(t, schedule.WithEvent(testutil.NewTestEvent(1)))
	if err := session.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	for _, name := range []string{"", "   ", "\t\n"} {
		err := session.Submit(context.Background(), name)
		if err == nil {
			t.Fatalf("expected input error for name %q", name)
		}
		if apperrors.KindOf(err) != apperrors.ErrInput {
			t.Errorf("expected input error kind, got %v", apperrors.KindOf(err))
		}
	}

	if calls := mock.SubmitCalls(); len(calls) != 0 {
		t.Errorf("expected no network calls, got %d", len(calls))
	}
	if snap := session.Snapshot(); snap.SubmitPhase != respond.SubmitIdle {
		t.Errorf("expected submit state to remain idle, got %v", snap.SubmitPhase)
	}
}

func TestSubmit_WithoutEventMakesNoNetworkCall(t *testing.T) {
	session, mock := newTestSession(t)

	err := session.Submit(context.Background(), "Hana")
	if err == nil || apperrors.KindOf(err) != apperrors.ErrInput {
		t.Fatalf("expected input error, got %v", err)
	}
	if calls := mock.SubmitCalls(); len(calls) != 0 {
		t.Errorf("expected no network calls, got %d", len(calls))
	}
}

func TestSubmit_SendsEverySlotWithCurrentAnswers(t *testing.T) {
	session, mock := newTestSession(t,
		schedule.WithEvent(testutil.NewTestEvent(3)),
		schedule.WithEditURL("/e/evt-1/edit/k-123"),
	)
	if err := session.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	session.SetAvailability(1, model.AvailabilityOK)
	session.SetAvailability(3, model.AvailabilityNG)

	if err := session.Submit(context.Background(), "  Hana  "); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	calls := mock.SubmitCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 submit call, got %d", len(calls))
	}
	req := calls[0]
	if req.RespondentName != "Hana" {
		t.Errorf("expected trimmed name, got %q", req.RespondentName)
	}
	if len(req.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(req.Items))
	}
	want := map[int]model.Availability{
		1: model.AvailabilityOK,
		2: model.AvailabilityMaybe,
		3: model.AvailabilityNG,
	}
	for _, item := range req.Items {
		if item.Availability != want[item.CandidateSlotID] {
			t.Errorf("slot %d: expected %s, got %s", item.CandidateSlotID, want[item.CandidateSlotID], item.Availability)
		}
	}

	snap := session.Snapshot()
	if snap.SubmitPhase != respond.Submitted {
		t.Errorf("expected Submitted, got %v", snap.SubmitPhase)
	}
	if snap.EditURL != "/e/evt-1/edit/k-123" {
		t.Errorf("unexpected edit URL %q", snap.EditURL)
	}
	if snap.Notice == "" {
		t.Error("expected a submit notice")
	}
}

func TestSubmit_EmptyEditURLIsValidOutcome(t *testing.T) {
	session, _ := newTestSession(t, schedule.WithEvent(testutil.NewTestEvent(1)))
	if err := session.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if err := session.Submit(context.Background(), "Hana"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	snap := session.Snapshot()
	if snap.SubmitPhase != respond.Submitted {
		t.Errorf("expected Submitted even without a link, got %v", snap.SubmitPhase)
	}
	if snap.EditURL != "" {
		t.Errorf("expected empty edit URL, got %q", snap.EditURL)
	}
	if snap.SubmitErr != nil {
		t.Errorf("no-link outcome must not be an error: %+v", snap.SubmitErr)
	}
}

func TestSubmit_FailureSurfacesStatusAndMessage(t *testing.T) {
	session, _ := newTestSession(t,
		schedule.WithEvent(testutil.NewTestEvent(1)),
		schedule.WithSubmitError(apperrors.Status(409, "already responded")),
	)
	if err := session.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if err := session.Submit(context.Background(), "Hana"); err == nil {
		t.Fatal("expected submit error")
	}

	snap := session.Snapshot()
	if snap.SubmitPhase != respond.SubmitFailed {
		t.Errorf("expected SubmitFailed, got %v", snap.SubmitPhase)
	}
	if snap.SubmitErr == nil || snap.SubmitErr.Status != 409 || snap.SubmitErr.Message != "already responded" {
		t.Errorf("unexpected submit error %+v", snap.SubmitErr)
	}
}

func TestSubmit_RetryOverwritesPreviousOutcome(t *testing.T) {
	session, mock := newTestSession(t,
		schedule.WithEvent(testutil.NewTestEvent(1)),
		schedule.WithSubmitError(apperrors.Status(500, "boom")),
	)
	if err := session.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if err := session.Submit(context.Background(), "Hana"); err == nil {
		t.Fatal("expected first submit to fail")
	}

	// The next attempt repeats the whole cycle and replaces the outcome.
	mockReset(mock)
	if err := session.Submit(context.Background(), "Hana"); err != nil {
		t.Fatalf("second submit failed: %v", err)
	}

	snap := session.Snapshot()
	if snap.SubmitPhase != respond.Submitted {
		t.Errorf("expected Submitted, got %v", snap.SubmitPhase)
	}
	if snap.SubmitErr != nil {
		t.Errorf("expected previous error cleared, got %+v", snap.SubmitErr)
	}
}

// mockReset clears the configured submit error.
func mockReset(mock *schedule.MockClient) {
	schedule.WithSubmitError(nil)(mock)
}

func TestClose_WithdrawsInFlightFetch(t *testing.T) {
	var calls int32
	session, _ := newTestSession(t,
		schedule.WithEvent(testutil.NewTestEvent(1)),
		schedule.WithFetchHook(func(ctx context.Context, publicID string) {
			atomic.AddInt32(&calls, 1)
			<-ctx.Done()
		}),
	)

	done := make(chan error, 1)
	go func() {
		done <- session.Fetch(context.Background())
	}()

	deadline := time.After(2 * time.Second)
	for atomic.LoadInt32(&calls) == 0 {
		select {
		case <-deadline:
			t.Fatal("fetch never started")
		case <-time.After(time.Millisecond):
		}
	}

	session.Close()

	if err := <-done; err != nil {
		t.Errorf("withdrawn fetch should be silent, got %v", err)
	}
	snap := session.Snapshot()
	if snap.FetchPhase != respond.Fetching {
		t.Errorf("withdrawn operation must not transition state, got %v", snap.FetchPhase)
	}
	if snap.FetchErr != nil {
		t.Errorf("withdrawn operation must not surface an error, got %+v", snap.FetchErr)
	}
}

// stubbornClient returns a successful fetch without honoring context
// cancellation, standing in for a transport that cannot be interrupted.
type stubbornClient struct {
	*schedule.MockClient
	started chan struct{}
	release chan struct{}
	event   *model.EventDetail
}

func (c *stubbornClient) FetchEvent(ctx context.Context, publicID string) (*model.EventDetail, error) {
	close(c.started)
	<-c.release
	return c.event, nil
}

func TestClose_BlocksLateResultFromUninterruptibleClient(t *testing.T) {
	client := &stubbornClient{
		MockClient: schedule.NewMockClient(),
		started:    make(chan struct{}),
		release:    make(chan struct{}),
		event:      testutil.NewTestEvent(1),
	}
	session := respond.NewSession(testutil.NewTestLogger(), client, "evt-1")

	done := make(chan error, 1)
	go func() {
		done <- session.Fetch(context.Background())
	}()
	<-client.started

	session.Close()
	close(client.release)

	if err := <-done; err != nil {
		t.Errorf("late result after close should be silent, got %v", err)
	}
	snap := session.Snapshot()
	if snap.Event != nil {
		t.Error("late result must not reach a closed session")
	}
	if snap.FetchPhase == respond.FetchReady {
		t.Errorf("late result must not transition state, got %v", snap.FetchPhase)
	}
}

func TestSetNotice_ReplacementRestartsDismissal(t *testing.T) {
	session, _ := newTestSession(t, schedule.WithEvent(testutil.NewTestEvent(1)))

	session.SetNotice("first")
	session.SetNotice("second")

	if got := session.Notice(); got != "second" {
		t.Errorf("expected replacement notice, got %q", got)
	}
}

func TestRegistry_OneSessionPerEvent(t *testing.T) {
	mock := schedule.NewMockClient(schedule.WithEvent(testutil.NewTestEvent(1)))
	registry := respond.NewRegistry(testutil.NewTestLogger(), mock)
	t.Cleanup(registry.CloseAll)

	a := registry.Get("evt-a")
	if registry.Get("evt-a") != a {
		t.Error("expected the same session for the same public ID")
	}
	if registry.Get("evt-b") == a {
		t.Error("expected distinct sessions for distinct public IDs")
	}

	registry.Drop("evt-a")
	if registry.Get("evt-a") == a {
		t.Error("expected a fresh session after Drop")
	}
}
