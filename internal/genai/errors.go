package genai

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrEmptyPrompt is returned before any upstream call is attempted.
	ErrEmptyPrompt = errors.New("genai: prompt is empty")

	// ErrRateLimited marks provider quota exhaustion so handlers can map it
	// to a distinct client-facing status.
	ErrRateLimited = errors.New("genai: rate limited by provider")
)

// APIError is the provider's structured error envelope.
type APIError struct {
	HTTPStatus int
	Code       int    `json:"code,omitempty"`
	Status     string `json:"status,omitempty"`
	Message    string `json:"message,omitempty"`
}

func (e *APIError) Error() string {
	if e.Status != "" && e.Message != "" {
		return fmt.Sprintf("gemini api error (%d, %s): %s", e.HTTPStatus, e.Status, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("gemini api error (%d): %s", e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("gemini api error (%d): %s", e.HTTPStatus, http.StatusText(e.HTTPStatus))
}

type errorEnvelope struct {
	Error *APIError `json:"error,omitempty"`
}

func decodeAPIError(body []byte) *APIError {
	if len(body) == 0 {
		return nil
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}
	if envelope.Error == nil {
		return nil
	}

	envelope.Error.Message = strings.TrimSpace(envelope.Error.Message)
	return envelope.Error
}

func buildAPIError(statusCode int, body []byte) error {
	apiErr := decodeAPIError(body)
	if apiErr == nil {
		snippet := strings.TrimSpace(string(body))
		if snippet == "" {
			snippet = http.StatusText(statusCode)
		}
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		apiErr = &APIError{Message: snippet}
	}
	apiErr.HTTPStatus = statusCode

	if isRateLimit(statusCode, apiErr) {
		return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Error())
	}

	return apiErr
}

// isRateLimit recognises the provider's quota signal: a 429, the
// RESOURCE_EXHAUSTED status, or quota wording in the message body.
func isRateLimit(statusCode int, apiErr *APIError) bool {
	if statusCode == http.StatusTooManyRequests {
		return true
	}
	if apiErr == nil {
		return false
	}
	if strings.EqualFold(apiErr.Status, "RESOURCE_EXHAUSTED") {
		return true
	}
	return strings.Contains(strings.ToLower(apiErr.Message), "quota")
}
