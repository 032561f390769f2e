// Package schedule provides a client for the remote slot-scheduling service.
package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/katsuo-ito/slotsync/internal/errors"
	"github.com/katsuo-ito/slotsync/internal/logger"
	"github.com/katsuo-ito/slotsync/internal/model"
	"github.com/katsuo-ito/slotsync/internal/payload"
)

// Client defines the interface for scheduling service operations
type Client interface {
	// FetchEvent retrieves the event identified by its public ID
	FetchEvent(ctx context.Context, publicID string) (*model.EventDetail, error)
	// SubmitResponse sends one respondent's answers and returns the
	// capability edit URL, which may be empty when the server issued none
	SubmitResponse(ctx context.Context, publicID string, req model.SubmitRequest) (string, error)
	// FetchResults retrieves the aggregated tallies for an event
	FetchResults(ctx context.Context, publicID string) (*model.ResultsSnapshot, error)
	// FetchAdminResponses retrieves the raw submissions for organizer
	// inspection; the payload shape is not contractually fixed
	FetchAdminResponses(ctx context.Context, publicID, adminKey string) (json.RawMessage, error)
	// BaseURL returns the configured service base URL
	BaseURL() string
}

// HTTPClient is a real HTTP client for the scheduling service
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPClient creates a new scheduling service client
func NewHTTPClient(baseURL string, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// NewHTTPClientWithHTTPClient creates a client with a custom http.Client
func NewHTTPClientWithHTTPClient(baseURL string, httpClient *http.Client, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        log,
	}
}

// BaseURL returns the configured service base URL
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// eventPath builds a service path from the raw public ID. The ID is
// percent-encoded here and nowhere else, so a value is never double-encoded
// no matter how many requests reuse it.
func eventPath(publicID, suffix string) string {
	return "/api/events/" + url.PathEscape(publicID) + suffix
}

// do executes a request and returns the response body. A network-level
// failure maps to a transport error with the underlying error kept
// reachable; a non-2xx status maps to a status error whose message comes
// from the body's {message} field when present, else the status text.
func (c *HTTPClient) do(ctx context.Context, method, path string, body []byte, header http.Header) ([]byte, error) {
	reqURL := c.baseURL + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	c.log.Debug("schedule request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Transport(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Transport(err)
	}

	c.log.Debug("schedule response", "status", resp.StatusCode, "body", string(respBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.Status(resp.StatusCode, errorMessage(resp.StatusCode, respBody))
	}
	return respBody, nil
}

// errorMessage extracts a human-readable message from an error body,
// falling back to the transport status phrase.
func errorMessage(status int, body []byte) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return http.StatusText(status)
}

// FetchEvent retrieves the event identified by its public ID
func (c *HTTPClient) FetchEvent(ctx context.Context, publicID string) (*model.EventDetail, error) {
	body, err := c.do(ctx, http.MethodGet, eventPath(publicID, ""), nil, nil)
	if err != nil {
		return nil, err
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrValidation, "event payload is not valid JSON")
	}
	event := payload.ValidateEvent(raw)
	if event == nil {
		return nil, apperrors.Validation("event payload has an unexpected shape")
	}
	return event, nil
}

// SubmitResponse sends one respondent's answers for an event
func (c *HTTPClient) SubmitResponse(ctx context.Context, publicID string, req model.SubmitRequest) (string, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return "", apperrors.Internal(err)
	}

	body, err := c.do(ctx, http.MethodPost, eventPath(publicID, "/responses"), reqBody, nil)
	if err != nil {
		return "", err
	}

	// An absent or empty editUrl is a valid outcome, distinct from failure:
	// the server simply issued no capability link.
	var resp model.SubmitResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrValidation, "submit response is not valid JSON")
	}
	return resp.EditURL, nil
}

// FetchResults retrieves the aggregated tallies for an event
func (c *HTTPClient) FetchResults(ctx context.Context, publicID string) (*model.ResultsSnapshot, error) {
	body, err := c.do(ctx, http.MethodGet, eventPath(publicID, "/results"), nil, nil)
	if err != nil {
		return nil, err
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrValidation, "results payload is not valid JSON")
	}
	snapshot := payload.ValidateResults(raw)
	if snapshot == nil {
		return nil, apperrors.Validation("results payload has an unexpected shape")
	}
	return snapshot, nil
}

// FetchAdminResponses retrieves the raw submissions for organizer inspection
func (c *HTTPClient) FetchAdminResponses(ctx context.Context, publicID, adminKey string) (json.RawMessage, error) {
	header := http.Header{}
	header.Set("X-Admin-Key", adminKey)

	body, err := c.do(ctx, http.MethodGet, eventPath(publicID, "/admin/responses"), nil, header)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, apperrors.Validation("admin payload is not valid JSON")
	}
	return json.RawMessage(body), nil
}

// Ensure HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)
