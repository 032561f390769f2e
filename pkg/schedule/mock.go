package schedule

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/katsuo-ito/slotsync/internal/model"
)

// MockClient is a mock scheduling service client for testing
type MockClient struct {
	mu sync.Mutex

	event          *model.EventDetail
	events         map[string]*model.EventDetail
	fetchErr       error
	fetchHook      func(ctx context.Context, publicID string)
	editURL        string
	submitErr      error
	results        *model.ResultsSnapshot
	resultsErr     error
	adminResponses json.RawMessage
	adminErr       error

	fetchCalls  []string
	submitCalls []model.SubmitRequest
	adminKeys   []string
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithEvent sets the event returned by FetchEvent for any public ID
func WithEvent(event *model.EventDetail) MockOption {
	return func(m *MockClient) {
		m.event = event
	}
}

// WithEventFor sets the event returned by FetchEvent for one public ID
func WithEventFor(publicID string, event *model.EventDetail) MockOption {
	return func(m *MockClient) {
		if m.events == nil {
			m.events = make(map[string]*model.EventDetail)
		}
		m.events[publicID] = event
	}
}

// WithFetchError sets an error to return from FetchEvent
func WithFetchError(err error) MockOption {
	return func(m *MockClient) {
		m.fetchErr = err
	}
}

// WithFetchHook installs a hook called inside FetchEvent before the result
// is produced. Tests use it to block a fetch until superseded.
func WithFetchHook(hook func(ctx context.Context, publicID string)) MockOption {
	return func(m *MockClient) {
		m.fetchHook = hook
	}
}

// WithEditURL sets the capability link returned by SubmitResponse
func WithEditURL(editURL string) MockOption {
	return func(m *MockClient) {
		m.editURL = editURL
	}
}

// WithSubmitError sets an error to return from SubmitResponse
func WithSubmitError(err error) MockOption {
	return func(m *MockClient) {
		m.submitErr = err
	}
}

// WithResults sets the snapshot returned by FetchResults
func WithResults(results *model.ResultsSnapshot) MockOption {
	return func(m *MockClient) {
		m.results = results
	}
}

// WithResultsError sets an error to return from FetchResults
func WithResultsError(err error) MockOption {
	return func(m *MockClient) {
		m.resultsErr = err
	}
}

// WithAdminResponses sets the raw payload returned by FetchAdminResponses
func WithAdminResponses(raw json.RawMessage) MockOption {
	return func(m *MockClient) {
		m.adminResponses = raw
	}
}

// WithAdminError sets an error to return from FetchAdminResponses
func WithAdminError(err error) MockOption {
	return func(m *MockClient) {
		m.adminErr = err
	}
}

// NewMockClient creates a mock client with the given options
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetEvent replaces the event returned by FetchEvent. Tests use it to give
// a superseding fetch a different result than the one it interrupted.
func (m *MockClient) SetEvent(event *model.EventDetail) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.event = event
}

// FetchEvent returns the configured event or error
func (m *MockClient) FetchEvent(ctx context.Context, publicID string) (*model.EventDetail, error) {
	m.mu.Lock()
	m.fetchCalls = append(m.fetchCalls, publicID)
	hook := m.fetchHook
	m.mu.Unlock()

	if hook != nil {
		hook(ctx, publicID)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	if event, ok := m.events[publicID]; ok {
		return event, nil
	}
	return m.event, nil
}

// SubmitResponse records the request and returns the configured outcome
func (m *MockClient) SubmitResponse(ctx context.Context, publicID string, req model.SubmitRequest) (string, error) {
	m.mu.Lock()
	m.submitCalls = append(m.submitCalls, req)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitErr != nil {
		return "", m.submitErr
	}
	return m.editURL, nil
}

// FetchResults returns the configured snapshot or error
func (m *MockClient) FetchResults(ctx context.Context, publicID string) (*model.ResultsSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resultsErr != nil {
		return nil, m.resultsErr
	}
	return m.results, nil
}

// FetchAdminResponses records the admin key and returns the configured payload
func (m *MockClient) FetchAdminResponses(ctx context.Context, publicID, adminKey string) (json.RawMessage, error) {
	m.mu.Lock()
	m.adminKeys = append(m.adminKeys, adminKey)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.adminErr != nil {
		return nil, m.adminErr
	}
	return m.adminResponses, nil
}

// BaseURL returns a fixed mock base URL
func (m *MockClient) BaseURL() string {
	return "http://mock.local"
}

// FetchCalls returns the public IDs passed to FetchEvent so far
func (m *MockClient) FetchCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.fetchCalls...)
}

// SubmitCalls returns the requests passed to SubmitResponse so far
func (m *MockClient) SubmitCalls() []model.SubmitRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.SubmitRequest(nil), m.submitCalls...)
}

// AdminKeys returns the keys passed to FetchAdminResponses so far
func (m *MockClient) AdminKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.adminKeys...)
}

// Ensure MockClient implements Client
var _ Client = (*MockClient)(nil)
