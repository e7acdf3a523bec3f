package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError(t *testing.T) {
	err := NewAPIError(500, "/chat", "Internal Server Error")

	if err == nil {
		t.Fatal("Expected non-nil error")
	}

	expected := "API error [500] at /chat: Internal Server Error"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	noStatus := NewAPIError(0, "/chat", "boom")
	if noStatus.Error() != "API error at /chat: boom" {
		t.Errorf("Error() = %s", noStatus.Error())
	}

	if !errors.Is(err, ErrRequestFailed) {
		t.Error("Expected APIError to match ErrRequestFailed")
	}
	if errors.Is(err, ErrInvalidResponse) {
		t.Error("APIError should not match ErrInvalidResponse")
	}
}

func TestAPIError_WithBody(t *testing.T) {
	err := NewAPIError(422, "/chat", "Unprocessable Entity").WithBody(`{"detail":"bad"}`)

	if err.Body != `{"detail":"bad"}` {
		t.Errorf("Body = %q", err.Body)
	}
	if GetResponseBody(err) != `{"detail":"bad"}` {
		t.Errorf("GetResponseBody() = %q", GetResponseBody(err))
	}
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError("/chat", cause)

	expected := "network error at /chat: connection refused"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if !errors.Is(err, cause) {
		t.Error("Expected NetworkError to unwrap to its cause")
	}
	if !errors.Is(err, ErrRequestFailed) {
		t.Error("Expected NetworkError to match ErrRequestFailed")
	}

	bare := NewNetworkError("/chat", nil)
	if bare.Error() != "network error at /chat" {
		t.Errorf("Error() = %s", bare.Error())
	}
}

func TestParseError(t *testing.T) {
	err := NewParseError("missing field", "response")

	expected := `parse error at "response": missing field`
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if NewParseError("not json", "").Error() != "parse error: not json" {
		t.Error("unexpected message for ParseError without path")
	}

	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("Expected ParseError to match ErrInvalidResponse")
	}
	if !errors.Is(err, ErrRequestFailed) {
		t.Error("Expected ParseError to match ErrRequestFailed")
	}
}

func TestHelpers_ThroughWrapping(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantStatus   int
		wantEndpoint string
		wantNetwork  bool
		wantParse    bool
		wantFailed   bool
	}{
		{
			name:         "api error",
			err:          fmt.Errorf("chat: %w", NewAPIError(503, "/chat", "Service Unavailable")),
			wantStatus:   503,
			wantEndpoint: "/chat",
			wantFailed:   true,
		},
		{
			name:         "network error",
			err:          fmt.Errorf("chat: %w", NewNetworkError("/chat", errors.New("eof"))),
			wantEndpoint: "/chat",
			wantNetwork:  true,
			wantFailed:   true,
		},
		{
			name:       "parse error",
			err:        fmt.Errorf("chat: %w", NewParseError("bad", "")),
			wantParse:  true,
			wantFailed: true,
		},
		{
			name: "plain error",
			err:  errors.New("other"),
		},
		{
			name: "nil",
			err:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetHTTPStatus(tt.err); got != tt.wantStatus {
				t.Errorf("GetHTTPStatus() = %d, want %d", got, tt.wantStatus)
			}
			if got := GetEndpoint(tt.err); got != tt.wantEndpoint {
				t.Errorf("GetEndpoint() = %q, want %q", got, tt.wantEndpoint)
			}
			if got := IsNetworkError(tt.err); got != tt.wantNetwork {
				t.Errorf("IsNetworkError() = %v, want %v", got, tt.wantNetwork)
			}
			if got := IsParseError(tt.err); got != tt.wantParse {
				t.Errorf("IsParseError() = %v, want %v", got, tt.wantParse)
			}
			if got := IsRequestFailed(tt.err); got != tt.wantFailed {
				t.Errorf("IsRequestFailed() = %v, want %v", got, tt.wantFailed)
			}
		})
	}
}
