package storeclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrUnreachable = errors.New("store.error.unreachable")
	ErrRejected    = errors.New("store.error.rejected")
	ErrNotFound    = errors.New("store.error.not_found")
	ErrMalformed   = errors.New("store.error.malformed_response")
)

const errorBodyLimit = 2048

// StoreError is a non-2xx answer from the incident store.
type StoreError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
}

func (e *StoreError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("store %s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("store %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
}

func (e *StoreError) Is(target error) bool {
	switch target {
	case ErrRejected:
		return true
	case ErrNotFound:
		return e.StatusCode == 404
	}
	return false
}

func newStoreError(method, path string, status int, body io.Reader) *StoreError {
	raw, _ := io.ReadAll(io.LimitReader(body, errorBodyLimit))
	return &StoreError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Detail:     extractDetail(raw),
	}
}

// extractDetail pulls the message out of a {"detail": ...} error body and falls back
// to the trimmed raw text.
func extractDetail(raw []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && len(payload.Detail) > 0 {
		var text string
		if err := json.Unmarshal(payload.Detail, &text); err == nil {
			return text
		}
		return string(payload.Detail)
	}
	return strings.TrimSpace(string(raw))
}
