package models

import (
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/planassist/internal/errors"
)

// JSON paths of the chat response body
const (
	PathResponse = "response"
	PathSources  = "sources"
)

// HistoryEntry is one prior turn in the chat_history field.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body posted to the chat endpoint.
type ChatRequest struct {
	Message     string         `json:"message"`
	ChatHistory []HistoryEntry `json:"chat_history"`
}

// NewChatRequest builds a request with an empty (never null) history.
func NewChatRequest(message string, history []HistoryEntry) ChatRequest {
	if history == nil {
		history = []HistoryEntry{}
	}
	return ChatRequest{Message: message, ChatHistory: history}
}

// ChatResponse is the decoded body of a successful chat call.
type ChatResponse struct {
	Response string
	Sources  []string
}

// Message converts the response into an assistant message.
func (r *ChatResponse) Message() Message {
	return AssistantMessage(r.Response, r.Sources)
}

// ParseChatResponse decodes a chat response body.
// "response" must be a string; "sources" may be missing or null, in which
// case Sources stays nil.
func ParseChatResponse(body []byte) (*ChatResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("body is not valid JSON", "")
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return nil, apierrors.NewParseError("body is not a JSON object", "")
	}

	response := parsed.Get(PathResponse)
	if !response.Exists() {
		return nil, apierrors.NewParseError("missing field", PathResponse)
	}
	if response.Type != gjson.String {
		return nil, apierrors.NewParseError("expected a string", PathResponse)
	}

	out := &ChatResponse{Response: response.String()}

	sources := parsed.Get(PathSources)
	if !sources.Exists() || sources.Type == gjson.Null {
		return out, nil
	}
	if !sources.IsArray() {
		return nil, apierrors.NewParseError("expected an array", PathSources)
	}

	items := sources.Array()
	out.Sources = make([]string, 0, len(items))
	for _, item := range items {
		out.Sources = append(out.Sources, item.String())
	}

	return out, nil
}
