package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/diogo/planassist/internal/config"
	apierrors "github.com/diogo/planassist/internal/errors"
	"github.com/diogo/planassist/internal/logger"
	"github.com/diogo/planassist/internal/models"
)

// ChatClientInterface is the single call the conversation controller needs.
type ChatClientInterface interface {
	Chat(ctx context.Context, message string, history []models.HistoryEntry) (*models.ChatResponse, error)
}

// HTTPDoer is satisfied by *http.Client and test doubles.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the chat backend at a fixed base URL
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	userAgent  string
	log        *logger.LogEntry
}

// Ensure Client implements ChatClientInterface
var _ ChatClientInterface = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithLogger sets the log entry used for request diagnostics
func WithLogger(entry *logger.LogEntry) ClientOption {
	return func(c *Client) {
		c.log = entry
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a client for baseURL (e.g. "http://localhost:8000").
// The default HTTP client has no timeout: a hung backend keeps the call open
// until it settles or ctx is done.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	normalized, err := config.NormalizeAPIURL(baseURL)
	if err != nil {
		return nil, err
	}

	client := &Client{
		baseURL:    normalized,
		httpClient: &http.Client{},
		userAgent:  "planassist",
		log:        logger.Named("api"),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// BaseURL returns the normalized backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ChatURL returns the full URL of the chat endpoint
func (c *Client) ChatURL() string {
	return c.baseURL + models.EndpointChat
}

// Chat posts one message and returns the decoded reply.
// Transport failures, non-2xx statuses and malformed bodies all match
// errors.ErrRequestFailed.
func (c *Client) Chat(ctx context.Context, message string, history []models.HistoryEntry) (*models.ChatResponse, error) {
	payload, err := json.Marshal(models.NewChatRequest(message, history))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ChatURL(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set(HeaderContentType, ContentTypeJSON)
	req.Header.Set(HeaderAccept, ContentTypeJSON)
	req.Header.Set(HeaderRequestID, requestID)
	if c.userAgent != "" {
		req.Header.Set(HeaderUserAgent, c.userAgent)
	}

	log := c.log.WithFields(logger.Fields{
		"request_id": requestID,
		"endpoint":   models.EndpointChat,
	})
	log.WithField("bytes", len(payload)).Debugf("POST %s", c.ChatURL())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewNetworkError(models.EndpointChat, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes))
	if err != nil {
		return nil, apierrors.NewNetworkError(models.EndpointChat, fmt.Errorf("failed to read response: %w", err))
	}

	log.WithFields(logger.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start).Round(time.Millisecond),
	}).Debug("response received")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, apierrors.NewAPIError(resp.StatusCode, models.EndpointChat, http.StatusText(resp.StatusCode)).
			WithBody(truncate(string(body), MaxErrorBodyBytes))
	}

	return models.ParseChatResponse(body)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "... (truncated)"
}
