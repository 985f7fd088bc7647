// Package api is the HTTP client for the Cariya wallet backend. It owns
// request construction, auth headers and error decoding; it performs no
// retries; screens surface failures with a manual retry affordance.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tobiusaolo/Cariya-wallet/logger"
	"github.com/tobiusaolo/Cariya-wallet/models"
)

const (
	defaultTimeout     = 15 * time.Second
	defaultMaxBodySize = 1 << 20 // 1MiB
)

// TokenSource supplies the bearer token for authenticated calls. The session
// manager satisfies this.
type TokenSource interface {
	Token() string
}

// APIError is a non-2xx response from the server. Detail carries the
// server-provided message when one was present.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: server returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api: server returned %d", e.StatusCode)
}

// UserMessage is the string a screen should show. Falls back to a generic
// message when the server gave no detail.
func (e *APIError) UserMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	return "Request failed. Please try again."
}

// Config configures the wallet API client.
type Config struct {
	// BaseURL of the wallet backend, e.g. http://localhost:8000.
	BaseURL string
	// HTTPClient overrides the default client (used by tests).
	HTTPClient *http.Client
	// Timeout applies when HTTPClient is nil.
	Timeout time.Duration
	// Tokens supplies the bearer token; nil means unauthenticated calls only.
	Tokens TokenSource
	// MaxBodyBytes caps response bodies. Zero means the 1MiB default.
	MaxBodyBytes int64
}

// Client talks to the wallet backend.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	tokens       TokenSource
	maxBodyBytes int64
}

// New validates the config and builds a client.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("api: BaseURL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("api: BaseURL must be a valid URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("api: BaseURL scheme must be http or https")
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodySize
	}

	return &Client{
		baseURL:      baseURL,
		httpClient:   client,
		tokens:       cfg.Tokens,
		maxBodyBytes: maxBody,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encoding request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		return fmt.Errorf("api: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Detail: decodeDetail(raw)}
		logger.Get().Warn("api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("api: decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// decodeDetail pulls the conventional {"detail": "..."} message out of an
// error body, tolerating other shapes.
func decodeDetail(raw []byte) string {
	var payload struct {
		Detail string `json:"detail"`
		Errmsg string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	if payload.Detail != "" {
		return payload.Detail
	}
	return payload.Errmsg
}

// Login authenticates with a normalized mobile number and password.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a new user and returns the generated identifier.
func (c *Client) Register(ctx context.Context, form models.Registration) (*models.RegisterResponse, error) {
	var out models.RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/register", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUser fetches the account snapshot for one user.
func (c *Client) GetUser(ctx context.Context, userID string) (*models.AccountSnapshot, error) {
	var out models.AccountSnapshot
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile edits a user's profile fields.
func (c *Client) UpdateProfile(ctx context.Context, userID string, form models.Registration) error {
	return c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(userID), form, nil)
}

// GetSavings fetches the savings overview.
func (c *Client) GetSavings(ctx context.Context, userID string) (*models.SavingsOverview, error) {
	var out models.SavingsOverview
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/savings", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetStatements fetches the mini statements list.
func (c *Client) GetStatements(ctx context.Context, userID string) ([]models.Statement, error) {
	var out []models.Statement
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/savings/statements", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddSavings records a savings installment.
func (c *Client) AddSavings(ctx context.Context, userID string, entry models.SavingsEntry) error {
	return c.do(ctx, http.MethodPost, "/users/"+url.PathEscape(userID)+"/savings", entry, nil)
}

// GetCompliance fetches the "achieved/total" compliance score.
func (c *Client) GetCompliance(ctx context.Context, userID string) (*models.ComplianceResponse, error) {
	var out models.ComplianceResponse
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/compliance", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddActivity logs a monthly activity.
func (c *Client) AddActivity(ctx context.Context, userID string, activity models.MonthlyActivity) (*models.ActivityResponse, error) {
	var out models.ActivityResponse
	if err := c.do(ctx, http.MethodPost, "/users/"+url.PathEscape(userID)+"/activities", activity, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DonorView fetches all users' savings summaries for donor discovery.
func (c *Client) DonorView(ctx context.Context) (*models.DonorView, error) {
	var out models.DonorView
	if err := c.do(ctx, http.MethodGet, "/donor-view", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
