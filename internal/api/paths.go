// Package api provides the HTTP client for the plan assistant chat backend.
package api

// Request headers sent with every chat call.
const (
	HeaderContentType = "Content-Type"
	HeaderAccept      = "Accept"
	HeaderRequestID   = "X-Request-ID"
	HeaderUserAgent   = "User-Agent"

	ContentTypeJSON = "application/json"
)

// Limits on what is read back from the backend.
const (
	// MaxResponseBytes caps the decoded response body.
	MaxResponseBytes = 10 << 20
	// MaxErrorBodyBytes caps the body kept on an APIError for diagnostics.
	MaxErrorBodyBytes = 1024
)
