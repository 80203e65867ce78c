package models

import "time"

type QuestionType string

const (
	QuestionShort    QuestionType = "short"
	QuestionMultiple QuestionType = "multiple"
	QuestionOral     QuestionType = "oral"
)

// DefaultAssignmentTimeLimit is applied when an assignment carries no
// time limit of its own (seconds).
const DefaultAssignmentTimeLimit = 1800

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

type Media struct {
	URL  string    `json:"url" validate:"required,url"`
	Type MediaType `json:"type" validate:"omitempty,oneof=image video"`
}

type Question struct {
	ID        string       `json:"id" validate:"required"`
	Type      QuestionType `json:"type" validate:"required,question_type"`
	Text      string       `json:"text" validate:"required"`
	Media     *Media       `json:"media,omitempty"`
	Options   []string     `json:"options,omitempty"`
	CorrectIx *int         `json:"correctIx,omitempty"`
	Required  bool         `json:"required,omitempty"`
	Points    *int         `json:"points,omitempty" validate:"omitempty,min=0"`
	TimeLimit *int         `json:"timeLimit,omitempty" validate:"omitempty,min=1"` // seconds
}

// Timed reports whether the question runs its own countdown.
func (q *Question) Timed() bool {
	return q.TimeLimit != nil && *q.TimeLimit > 0
}

type Assignment struct {
	ID                  string     `json:"id" validate:"required"`
	Title               string     `json:"title" validate:"required,min=1,max=200"`
	Description         string     `json:"description,omitempty" validate:"omitempty,max=1000"`
	DueDate             *time.Time `json:"dueDate,omitempty"`
	AssignmentTimeLimit int        `json:"assignmentTimeLimit,omitempty" validate:"omitempty,min=1"` // seconds
	Questions           []Question `json:"questions" validate:"required,min=1,dive"`
}

// EffectiveTimeLimit returns the assignment-level limit in seconds,
// defaulting when the authoring flow left it unset.
func (a *Assignment) EffectiveTimeLimit() int {
	if a.AssignmentTimeLimit > 0 {
		return a.AssignmentTimeLimit
	}
	return DefaultAssignmentTimeLimit
}

// OralQuestions returns the subset of questions eligible for
// post-submission accuracy rating, in question order.
func (a *Assignment) OralQuestions() []Question {
	var oral []Question
	for _, q := range a.Questions {
		if q.Type == QuestionOral {
			oral = append(oral, q)
		}
	}
	return oral
}
