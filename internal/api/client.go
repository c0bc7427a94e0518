// Package api is the HTTP client for the Salus coverage backend. It
// preserves the backend's wire shapes exactly: JSON bodies everywhere except
// the multipart document upload, snake_case field names, and an optional
// passkey_id on every call (absence means anonymous/demo mode and is never
// an error).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/salus-health/salus/internal/errors"
	"github.com/salus-health/salus/internal/session"
)

const defaultTimeout = 60 * time.Second

// Client talks to the Salus backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a backend client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetUser looks up the stored profile for a passkey credential.
// Returns errors.ErrProfileNotFound when the backend knows the user but has
// no profile yet, or doesn't know the user at all.
func (c *Client) GetUser(ctx context.Context, passkeyID string) (*session.UserProfile, error) {
	endpoint := "/api/user"
	q := url.Values{}
	q.Set("passkey_id", passkeyID)

	var resp userResponse
	if err := c.get(ctx, endpoint, q, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil || resp.User.Profile == nil {
		return nil, errors.ErrProfileNotFound
	}
	return resp.User.Profile, nil
}

// SaveUser stores the profile for a passkey credential.
func (c *Client) SaveUser(ctx context.Context, passkeyID string, profile *session.UserProfile) error {
	body := saveUserRequest{
		PasskeyID: passkeyID,
		Profile:   profile,
	}
	return c.post(ctx, "/api/user", body, nil)
}

// Upload sends a bill document for extraction. The passkey id is optional.
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader, passkeyID string) (*session.BillData, error) {
	endpoint := "/api/upload"

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, errors.NewAPIError("create multipart body", err).WithEndpoint(endpoint)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, errors.NewAPIError("read document", err).WithEndpoint(endpoint)
	}
	if passkeyID != "" {
		if err := w.WriteField("passkey_id", passkeyID); err != nil {
			return nil, errors.NewAPIError("create multipart body", err).WithEndpoint(endpoint)
		}
	}
	if err := w.Close(); err != nil {
		return nil, errors.NewAPIError("create multipart body", err).WithEndpoint(endpoint)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return nil, errors.NewAPIError("create request", err).WithEndpoint(endpoint)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var resp uploadResponse
	if err := c.send(req, endpoint, &resp); err != nil {
		return nil, err
	}
	if resp.BillData == nil {
		return nil, errors.NewAPIError("response missing bill_data", nil).WithEndpoint(endpoint)
	}
	return resp.BillData, nil
}

// Chat exchanges one conversational turn with the reasoning service.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.post(ctx, "/api/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Analyze runs the full coordination-of-benefits pipeline for the session.
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) (*session.AnalysisResult, error) {
	var resp analyzeResponse
	if err := c.post(ctx, "/api/analyze", req, &resp); err != nil {
		return nil, err
	}

	result := &session.AnalysisResult{
		BillTotal:         resp.BillTotal,
		PrivateCoverage:   resp.PrivateCoverage,
		PublicCoverage:    resp.PublicCoverage,
		FinalCost:         resp.FinalCost,
		Logs:              resp.Logs,
		Summary:           resp.Summary,
		InsurancePlan:     resp.InsurancePlan,
		GovernmentProgram: resp.GovernmentProgram,
	}
	if result.Summary == "" {
		result.Summary = fmt.Sprintf("After coordinating benefits, you pay: $%.2f", result.FinalCost)
	}
	return result, nil
}

// Bills fetches the user's claim history.
func (c *Client) Bills(ctx context.Context, passkeyID string) ([]session.BillRecord, error) {
	q := url.Values{}
	q.Set("passkey_id", passkeyID)

	var resp billsResponse
	if err := c.get(ctx, "/api/bills", q, &resp); err != nil {
		return nil, err
	}
	return resp.Bills, nil
}

// Status reports the backend's view of the current upload session.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get(ctx, "/api/status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// get performs a GET request and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.NewAPIError("create request", err).WithEndpoint(endpoint)
	}
	return c.send(req, endpoint, out)
}

// post marshals body as JSON, performs a POST request and decodes the
// response into out. A nil out discards the response body.
func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	reqBytes, err := json.Marshal(body)
	if err != nil {
		return errors.NewAPIError("marshal request", err).WithEndpoint(endpoint)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(reqBytes))
	if err != nil {
		return errors.NewAPIError("create request", err).WithEndpoint(endpoint)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.send(req, endpoint, out)
}

// send executes the request and decodes the JSON response into out.
func (c *Client) send(req *http.Request, endpoint string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewAPIError("send request", err).WithEndpoint(endpoint)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewAPIError("read response", err).WithEndpoint(endpoint)
	}

	if resp.StatusCode != http.StatusOK {
		return errors.NewAPIError(fmt.Sprintf("unexpected status: %s", string(body)), nil).
			WithEndpoint(endpoint).
			WithStatus(resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.NewAPIError("unmarshal response", err).WithEndpoint(endpoint)
	}
	return nil
}
