package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnsuccessful is returned when the gateway answers 2xx with success=false.
var ErrUnsuccessful = errors.New("gateway reported an unsuccessful response")

// APIError is a non-2xx answer from the Backend Gateway.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError extracts a human message from the gateway error body. The JSON
// "message" field wins, then a string "error" field, then a status-derived text.
func NewAPIError(status int, body []byte) *APIError {
	return &APIError{
		StatusCode: status,
		Message:    extractMessage(status, body),
		Body:       body,
	}
}

func extractMessage(status int, body []byte) string {
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if strings.TrimSpace(payload.Message) != "" {
			return payload.Message
		}
		var errText string
		if len(payload.Error) > 0 && json.Unmarshal(payload.Error, &errText) == nil && errText != "" {
			return errText
		}
	}
	return fmt.Sprintf("Backend returned %d", status)
}

// StatusCode returns the upstream status carried by err, or 0 when err is not
// an *APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
