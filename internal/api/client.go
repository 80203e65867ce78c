package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client talks to the LMS backend's REST API. All state lives server-side;
// this client is a thin, defensive wrapper over the documented contracts.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	transcribeURL string
	logger        *slog.Logger
}

// ClientConfig holds the endpoints the client targets. TranscribeBaseURL
// falls back to BaseURL when empty (single-backend deployments).
type ClientConfig struct {
	BaseURL           string
	TranscribeBaseURL string
	Timeout           time.Duration
	Logger            *slog.Logger
}

func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transcribeURL := cfg.TranscribeBaseURL
	if transcribeURL == "" {
		transcribeURL = cfg.BaseURL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient:    &http.Client{Timeout: timeout},
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		transcribeURL: strings.TrimRight(transcribeURL, "/"),
		logger:        logger,
	}
}

// doJSON issues a request with an optional JSON body and returns the raw
// response. The caller owns status-code interpretation.
func (c *Client) doJSON(ctx context.Context, method, url string, body interface{}) (*http.Response, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp, respBody, nil
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}
