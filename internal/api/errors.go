package api

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Error is a non-2xx answer from the backend.
type Error struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *Error) Error() string {
	return e.Message
}

// errorBody covers the FastAPI `detail` shape and the plain `error` shape.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
	Error  string          `json:"error"`
}

// backendMessage extracts the human readable failure from body. When the
// body carries nothing usable, fallback is used; an empty fallback means the
// raw body is shown.
func backendMessage(body []byte, fallback string) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if len(eb.Detail) > 0 && string(eb.Detail) != "null" {
			var s string
			if err := json.Unmarshal(eb.Detail, &s); err == nil {
				if s != "" {
					return s
				}
			} else {
				var compact bytes.Buffer
				if json.Compact(&compact, eb.Detail) == nil {
					return compact.String()
				}
				return string(eb.Detail)
			}
		}
		if eb.Error != "" {
			return eb.Error
		}
	}
	if fallback != "" {
		return fallback
	}
	if raw := strings.TrimSpace(string(body)); raw != "" {
		return raw
	}
	return "request failed"
}

func newError(status int, body []byte, fallback, requestID string) *Error {
	return &Error{
		StatusCode: status,
		Message:    backendMessage(body, fallback),
		RequestID:  requestID,
	}
}
