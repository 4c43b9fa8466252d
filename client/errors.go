package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// HTTPError carries a non-2xx response. The transport never retries these.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "<nil>"
	}
	summary := messageFromBody(e.Body)
	if summary == "" {
		summary = strings.TrimSpace(string(e.Body))
	}
	if summary != "" {
		return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, summary)
	}
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
}

func (e *HTTPError) Status() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func IsNotFoundError(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusNotFound
	}
	return false
}

// messageFromBody extracts a human-readable message field from a JSON error
// payload.
func messageFromBody(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	message, _ := payload["message"].(string)
	return strings.TrimSpace(message)
}
