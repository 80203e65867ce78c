package models

import "time"

// Submission is the payload posted to the backend when a taking-session
// completes. Field names follow the backend's wire contract.
type Submission struct {
	AssignmentID string            `json:"assignment_id" validate:"required"`
	StudentName  string            `json:"studentName" validate:"required"`
	JNumber      string            `json:"jNumber" validate:"required"`
	Answers      map[string]string `json:"answers"`
	Transcripts  map[string]string `json:"transcripts"`
}

// Response is the server-persisted record of one submission, as returned
// by the review endpoints. The backend is loose about optional fields, so
// most of them are pointers.
type Response struct {
	ID              string                     `json:"id"`
	AssignmentID    string                     `json:"assignment_id"`
	StudentName     string                     `json:"studentName"`
	JNumber         string                     `json:"jNumber"`
	Answers         map[string]string          `json:"answers"`
	Transcripts     map[string]string          `json:"transcripts"`
	SubmittedAt     *time.Time                 `json:"submittedAt,omitempty"`
	Grade           *float64                   `json:"grade,omitempty"`
	AccuracyRatings map[string]AccuracyRating  `json:"accuracyRatings,omitempty"`
}

// AccuracyRating is a student-supplied quality score for one oral
// question's transcript.
type AccuracyRating struct {
	QuestionID string `json:"questionId" validate:"required"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment,omitempty"`
}

// ClampRating normalizes an arbitrary numeric rating into the 1..5 star
// scale: round half away from zero, then clamp.
func ClampRating(v float64) int {
	r := int(v + 0.5)
	if v < 0 {
		r = int(v - 0.5)
	}
	if r < 1 {
		return 1
	}
	if r > 5 {
		return 5
	}
	return r
}
