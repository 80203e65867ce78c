package api

import (
	"errors"
	"fmt"
)

var (
	ErrAssignmentNotFound    = errors.New("assignment not found")
	ErrResponseNotFound      = errors.New("response not found")
	ErrTranscriptionFailed   = errors.New("transcription failed")
	ErrSubmissionRejected    = errors.New("submission rejected by backend")
	ErrResponseIDUnavailable = errors.New("backend did not return a response identifier")
)

// APIError carries the backend's status code and whatever human-readable
// message could be recovered from its (loosely shaped) error body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// NewAPIError builds an APIError from a non-2xx response body.
func NewAPIError(statusCode int, body []byte) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Message:    ExtractErrorMessage(body),
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	if errors.Is(err, ErrAssignmentNotFound) || errors.Is(err, ErrResponseNotFound) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}

// UserMessage extracts the message a learner should see for a failed call:
// the backend-provided text when present, a generic fallback otherwise.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
