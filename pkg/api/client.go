package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tougpt/pkg/logging"
)

const (
	DefaultBaseURL = "http://127.0.0.1:8000"
	DefaultTimeout = 30 * time.Second

	askPath    = "/api/ask"
	healthPath = "/api/health"

	// APIKeyHeader carries the user's key alongside the body field.
	APIKeyHeader = "X-API-Key"

	maxPreviewLen = 200
)

// Client talks to the Q&A service
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
	Logger     *slog.Logger
}

// NewClient creates a client for the service at baseURL.
// Deadlines come from the caller's context, so the HTTP client has none of its own.
func NewClient(baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
		UserAgent:  "tougpt-cli/1.0",
	}
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Ask sends a question. On a non-2xx status with a parseable body it returns the
// parsed response together with a *StatusError.
func (c *Client) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	log := c.logger()

	jsonData, err := json.Marshal(req)
	if err != nil {
		return AskResponse{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.BaseURL + askPath
	log.Debug("api_ask_start",
		"url", url,
		"api_key", logging.MaskSecret(req.APIKey),
		"question_len", len(req.Question))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return AskResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.UserAgent)
	}
	if req.APIKey != "" {
		httpReq.Header.Set(APIKeyHeader, req.APIKey)
	}

	start := time.Now()
	body, status, err := c.do(ctx, httpReq)
	if err != nil {
		log.Warn("api_ask_failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return AskResponse{}, err
	}

	var resp AskResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		log.Warn("api_ask_malformed",
			"status_code", status,
			"response_preview", preview(body),
			"error", err)
		return AskResponse{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if status < 200 || status > 299 {
		log.Warn("api_ask_status",
			"status_code", status,
			"response_preview", preview(body))
		return resp, &StatusError{Code: status, Answer: resp.Answer}
	}

	log.Debug("api_ask_done",
		"status_code", status,
		"cached", resp.Cached,
		"processing_time", resp.ProcessingTime,
		"duration_ms", time.Since(start).Milliseconds())
	return resp, nil
}

// Health queries the service health endpoint.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+healthPath, nil)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("failed to create request: %w", err)
	}
	if c.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.UserAgent)
	}

	body, status, err := c.do(ctx, httpReq)
	if err != nil {
		return HealthStatus{}, err
	}

	var health HealthStatus
	if err := json.Unmarshal(body, &health); err != nil {
		return HealthStatus{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if status < 200 || status > 299 {
		return health, &StatusError{Code: status, Answer: health.Status}
	}
	return health, nil
}

// do executes the request and classifies transport failures.
func (c *Client) do(ctx context.Context, httpReq *http.Request) ([]byte, int, error) {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, classifyTransportError(ctx, err)
	}
	return body, resp.StatusCode, nil
}

func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > maxPreviewLen {
		return s[:maxPreviewLen] + "..."
	}
	return s
}
