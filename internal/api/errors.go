package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failed call.
type Kind int

const (
	KindNetwork   Kind = iota // transport failure, status 0
	KindTimeout               // per-request timeout, status 408
	KindHTTP                  // non-2xx response
	KindMalformed             // 2xx body that could not be decoded
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindHTTP:
		return "http"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Error is returned by every Client call that fails.
type Error struct {
	Kind    Kind
	Status  int
	URL     string
	Message string
	Body    any // parsed JSON, or the raw text when the body was not JSON
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.URL)
}

func (e *Error) Unwrap() error { return e.Err }

// StatusOf returns the status carried by err, or -1 when err is not an *Error.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return -1
}

func IsTimeout(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindTimeout
}

func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// IsActiveWorkoutConflict reports whether starting a workout failed because
// one is already running. Callers should send the user to the active session.
func IsActiveWorkoutConflict(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindHTTP {
		return false
	}
	if apiErr.Status == http.StatusConflict {
		return true
	}
	msg := strings.ToLower(apiErr.Message)
	return strings.Contains(msg, "treino ativo") || strings.Contains(msg, "active workout")
}

// resolveMessage picks the user-facing message out of an error body.
func resolveMessage(body any, status int) string {
	if m, ok := body.(map[string]any); ok {
		switch v := m["message"].(type) {
		case string:
			if v != "" {
				return v
			}
		case []any:
			parts := make([]string, 0, len(v))
			for _, p := range v {
				parts = append(parts, fmt.Sprint(p))
			}
			if len(parts) > 0 {
				return strings.Join(parts, ", ")
			}
		}
		if v, ok := m["error"].(string); ok && v != "" {
			return v
		}
	}
	if s, ok := body.(string); ok && s != "" {
		return s
	}
	return fmt.Sprintf("HTTP %d", status)
}
