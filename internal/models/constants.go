// Package models contains data types and constants for the plan assistant chat API.
package models

// EndpointChat is the path of the chat endpoint, relative to API_URL.
const EndpointChat = "/chat"

// Roles used when a message is logged or rendered with a label
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ApologyText is the fixed assistant reply shown when a chat request fails.
const ApologyText = "Sorry, there was an error processing your request."
