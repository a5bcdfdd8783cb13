package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrUnauthorized marks a 401. It is handled globally by the session
// layer and never shown as a page error.
var ErrUnauthorized = errors.New("unauthorized")

// Error is any other non-2xx response, carrying the server's message
// payload when one was present.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server error (status %d)", e.StatusCode)
}

// ServerMessage extracts the backend's message from err, or "" when the
// failure carries none (network error, malformed payload).
func ServerMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var payload struct {
		Message string `json:"message"`
	}
	// Ignore decode failures; not every error body is JSON.
	_ = json.Unmarshal(body, &payload)

	return &Error{StatusCode: resp.StatusCode, Message: payload.Message}
}
