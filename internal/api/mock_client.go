package api

import (
	"context"
	"sync"

	"github.com/diogo/planassist/internal/models"
)

// MockChatClient is a mock implementation of ChatClientInterface for testing
type MockChatClient struct {
	// Mock return values
	Response *models.ChatResponse
	Err      error

	// Entered, when non-nil, receives a value as each call starts.
	Entered chan struct{}
	// Release, when non-nil, blocks each call until it yields or is closed.
	Release chan struct{}

	mu          sync.Mutex
	calls       int
	lastMessage string
	lastHistory []models.HistoryEntry
}

// Ensure MockChatClient implements ChatClientInterface
var _ ChatClientInterface = (*MockChatClient)(nil)

func (m *MockChatClient) Chat(ctx context.Context, message string, history []models.HistoryEntry) (*models.ChatResponse, error) {
	m.mu.Lock()
	m.calls++
	m.lastMessage = message
	m.lastHistory = history
	m.mu.Unlock()

	if m.Entered != nil {
		m.Entered <- struct{}{}
	}
	if m.Release != nil {
		select {
		case <-m.Release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return m.Response, m.Err
}

// Calls returns how many times Chat was invoked
func (m *MockChatClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastMessage returns the message of the latest call
func (m *MockChatClient) LastMessage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastMessage
}

// LastHistory returns the history of the latest call
func (m *MockChatClient) LastHistory() []models.HistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastHistory
}
