package session

import (
	"errors"
	"fmt"

	"github.com/GokalpAyar/amplify-lms-client/internal/api"
)

var (
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrNotReady           = errors.New("session is not ready to start")
	ErrNotStarted         = errors.New("session is not in progress")
	ErrAlreadySubmitted   = errors.New("session already submitted")
	ErrIdentityRequired   = errors.New("student name and J-number are required")
	ErrNotSubmitted       = errors.New("rating requires a submitted session")
	ErrQuestionNotRatable = errors.New("question is not ratable")
	ErrRatingInFlight     = errors.New("a rating save is already in progress for this question")

	// ErrRatingUnavailable wraps the backend condition that disables
	// rating capture, so callers can classify either way.
	ErrRatingUnavailable = fmt.Errorf("rating unavailable: %w", api.ErrResponseIDUnavailable)
)
