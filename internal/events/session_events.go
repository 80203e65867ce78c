package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

// EventType represents different types of taking-session events
type EventType string

const (
	// Session lifecycle events
	EventSessionStarted   EventType = "session.started"
	EventSessionSubmitted EventType = "session.submitted"
	EventSessionExpired   EventType = "session.expired"

	// Progress events
	EventQuestionAdvanced EventType = "session.question_advanced"
	EventRatingSaved      EventType = "session.rating_saved"

	// Transcription events
	EventTranscriptionCompleted EventType = "transcription.completed"
	EventTranscriptionFailed    EventType = "transcription.failed"
)

// SessionEvent is the base event structure for all taking-session events
type SessionEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewSessionEvent builds a session event with the standard envelope fields set.
func NewSessionEvent(eventType EventType, data interface{}) *SessionEvent {
	return &SessionEvent{
		ID:        watermill.NewUUID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "amplify-lms-client",
		Version:   "1.0",
		Data:      data,
	}
}

// Session lifecycle event payloads

type SessionStartedEvent struct {
	AssignmentID    string    `json:"assignment_id"`
	AssignmentTitle string    `json:"assignment_title"`
	StudentName     string    `json:"student_name"`
	JNumber         string    `json:"j_number"`
	StartedAt       time.Time `json:"started_at"`
	TimeLimit       int       `json:"time_limit"` // seconds
	QuestionCount   int       `json:"question_count"`
	DraftRestored   bool      `json:"draft_restored"`
}

type SessionSubmittedEvent struct {
	AssignmentID string    `json:"assignment_id"`
	ResponseID   string    `json:"response_id,omitempty"`
	StudentName  string    `json:"student_name"`
	JNumber      string    `json:"j_number"`
	SubmittedAt  time.Time `json:"submitted_at"`
	AnswerCount  int       `json:"answer_count"`
	AutoSubmit   bool      `json:"auto_submit"`
}

type SessionExpiredEvent struct {
	AssignmentID string    `json:"assignment_id"`
	ExpiredAt    time.Time `json:"expired_at"`
	QuestionIdx  int       `json:"question_idx"`
}

type QuestionAdvancedEvent struct {
	AssignmentID string `json:"assignment_id"`
	QuestionID   string `json:"question_id"`
	QuestionIdx  int    `json:"question_idx"`
	ByTimer      bool   `json:"by_timer"`
}

type RatingSavedEvent struct {
	ResponseID string `json:"response_id"`
	QuestionID string `json:"question_id"`
	Rating     int    `json:"rating"`
	HasComment bool   `json:"has_comment"`
}

type TranscriptionEvent struct {
	AssignmentID string `json:"assignment_id"`
	QuestionID   string `json:"question_id"`
	CharCount    int    `json:"char_count,omitempty"`
	Error        string `json:"error,omitempty"`
}
