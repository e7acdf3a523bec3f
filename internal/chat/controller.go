// Package chat owns the in-memory conversation and the single in-flight
// request guard for one chat session.
package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/diogo/planassist/internal/api"
	apierrors "github.com/diogo/planassist/internal/errors"
	"github.com/diogo/planassist/internal/logger"
	"github.com/diogo/planassist/internal/models"
)

// ApologyText is appended in place of a reply whenever a request fails.
const ApologyText = models.ApologyText

// Controller holds the conversation and the pending flag.
// The conversation is append-only and at most one request is in flight.
type Controller struct {
	client api.ChatClientInterface
	log    *logger.LogEntry

	mu       sync.Mutex
	messages []models.Message
	pending  bool
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the log entry used to record failed requests
func WithLogger(entry *logger.LogEntry) Option {
	return func(c *Controller) {
		c.log = entry
	}
}

// NewController creates a controller with an empty conversation
func NewController(client api.ChatClientInterface, opts ...Option) *Controller {
	c := &Controller{
		client:   client,
		log:      logger.Named("chat"),
		messages: []models.Message{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Begin starts a turn. It returns ok=false without touching state when the
// trimmed input is empty or a request is already pending. Otherwise it
// appends the user message, marks the controller pending and returns the
// trimmed prompt to send.
func (c *Controller) Begin(input string) (string, bool) {
	prompt := strings.TrimSpace(input)
	if prompt == "" {
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending {
		return "", false
	}

	c.messages = append(c.messages, models.UserMessage(prompt))
	c.pending = true
	return prompt, true
}

// Send performs the network call for a prompt returned by Begin.
// History is always sent empty. It does not mutate the conversation.
func (c *Controller) Send(ctx context.Context, prompt string) (*models.ChatResponse, error) {
	if c.client == nil {
		return nil, fmt.Errorf("%w: no chat client configured", apierrors.ErrRequestFailed)
	}
	return c.client.Chat(ctx, prompt, []models.HistoryEntry{})
}

// Complete finishes the turn started by Begin: it appends the reply, or the
// apology when err is set, and clears the pending flag.
func (c *Controller) Complete(resp *models.ChatResponse, err error) {
	if err == nil && resp == nil {
		err = fmt.Errorf("%w: empty response", apierrors.ErrInvalidResponse)
	}

	var reply models.Message
	if err != nil {
		c.logFailure(err)
		reply = models.AssistantMessage(ApologyText, nil)
	} else {
		reply = resp.Message()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, reply)
	c.pending = false
}

// Submit runs a whole turn synchronously. It reports whether the input was
// accepted. The pending flag is released on every exit path, including a
// panicking client.
func (c *Controller) Submit(ctx context.Context, input string) (accepted bool) {
	prompt, ok := c.Begin(input)
	if !ok {
		return false
	}
	accepted = true

	completed := false
	defer func() {
		if completed {
			return
		}
		if r := recover(); r != nil {
			c.Complete(nil, fmt.Errorf("%w: chat client panicked: %v", apierrors.ErrRequestFailed, r))
			return
		}
		c.Complete(nil, fmt.Errorf("%w: turn aborted", apierrors.ErrRequestFailed))
	}()

	resp, err := c.Send(ctx, prompt)
	completed = true
	c.Complete(resp, err)
	return accepted
}

// Messages returns a copy of the conversation, oldest first
func (c *Controller) Messages() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages in the conversation
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// Pending reports whether a request is in flight
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// LastAssistant returns the most recent assistant message, if any
func (c *Controller) LastAssistant() (models.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := len(c.messages) - 1; i >= 0; i-- {
		if !c.messages[i].IsFromUser {
			return c.messages[i], true
		}
	}
	return models.Message{}, false
}

func (c *Controller) logFailure(err error) {
	fields := logger.Fields{"error": err.Error()}
	if status := apierrors.GetHTTPStatus(err); status > 0 {
		fields["status"] = status
	}
	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		fields["endpoint"] = endpoint
	}
	if body := apierrors.GetResponseBody(err); body != "" {
		fields["body"] = body
	}
	c.log.WithFields(fields).Error("chat request failed")
}
