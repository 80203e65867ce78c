// Package session drives one assignment-taking attempt from load through
// submission and post-submission accuracy rating. The session owns the
// local draft, both countdown timers, and the in-memory submission; the
// backend owns everything else.
package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/GokalpAyar/amplify-lms-client/internal/api"
	"github.com/GokalpAyar/amplify-lms-client/internal/draft"
	"github.com/GokalpAyar/amplify-lms-client/internal/events"
	"github.com/GokalpAyar/amplify-lms-client/internal/models"
	"github.com/GokalpAyar/amplify-lms-client/internal/timer"
)

// State is the taking-session's lifecycle position.
type State int

const (
	StateLoading State = iota
	StateNotFound
	StateReady
	StateInProgress
	StateSubmitting
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateNotFound:
		return "not_found"
	case StateReady:
		return "ready"
	case StateInProgress:
		return "in_progress"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	default:
		return "loading"
	}
}

// RatingStatus tracks one oral question's accuracy-rating save.
type RatingStatus string

const (
	RatingIdle   RatingStatus = "idle"
	RatingSaving RatingStatus = "saving"
	RatingSaved  RatingStatus = "saved"
	RatingError  RatingStatus = "error"
)

// Backend is the slice of the REST client the session consumes.
// *api.Client satisfies it.
type Backend interface {
	GetAssignment(ctx context.Context, id string) (*models.Assignment, error)
	SubmitResponse(ctx context.Context, submission *models.Submission) (*api.SubmitResult, error)
	SaveAccuracyRating(ctx context.Context, responseID string, rating *models.AccuracyRating) error
}

// Registry is the offline assignment fallback consulted after a failed
// fetch. *cache.Registry satisfies it.
type Registry interface {
	Get(ctx context.Context, assignmentID string) (*models.Assignment, error)
}

// Config wires a session's collaborators. Backend and Drafts are
// required; Registry and Publisher are optional.
type Config struct {
	Backend   Backend
	Drafts    draft.Store
	Registry  Registry
	Publisher events.EventPublisher
	Logger    *slog.Logger

	// TickInterval shrinks timer granularity in tests; defaults to one
	// second.
	TickInterval time.Duration
}

// Session is one assignment-taking attempt. All exported methods are
// safe for concurrent use; timer expiries arrive on their own goroutines
// and share the same guarded transitions as user actions.
type Session struct {
	cfg          Config
	assignmentID string

	mu           sync.Mutex
	state        State
	assignment   *models.Assignment
	current      models.Draft
	currentIdx   int
	responseID   string
	autoSubmit   bool
	lastError    string
	ratingStatus map[string]RatingStatus

	assignmentTimer *timer.Countdown
	questionTimer   *timer.Countdown
}

func New(assignmentID string, cfg Config) *Session {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}

	return &Session{
		cfg:          cfg,
		assignmentID: assignmentID,
		state:        StateLoading,
		current:      models.EmptyDraft(),
		ratingStatus: make(map[string]RatingStatus),
	}
}

// Load fetches the assignment, falling back to the cached registry when
// the backend cannot serve it, and restores any prior draft. On success
// the session is Ready; when neither source has the assignment the
// session is NotFound and ErrAssignmentNotFound is returned.
func (s *Session) Load(ctx context.Context) error {
	assignment, err := s.cfg.Backend.GetAssignment(ctx, s.assignmentID)
	if err != nil {
		s.cfg.Logger.Warn("Assignment fetch failed, trying local registry",
			"assignment_id", s.assignmentID,
			"error", err)
		assignment = s.loadFromRegistry(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if assignment == nil {
		s.state = StateNotFound
		return ErrAssignmentNotFound
	}

	assignment.AssignmentTimeLimit = assignment.EffectiveTimeLimit()
	s.assignment = assignment
	s.state = StateReady

	s.restoreDraftLocked(ctx)

	s.cfg.Logger.Info("Assignment loaded",
		"assignment_id", s.assignmentID,
		"title", assignment.Title,
		"questions", len(assignment.Questions),
		"time_limit", assignment.AssignmentTimeLimit)

	return nil
}

func (s *Session) loadFromRegistry(ctx context.Context) *models.Assignment {
	if s.cfg.Registry == nil {
		return nil
	}
	assignment, err := s.cfg.Registry.Get(ctx, s.assignmentID)
	if err != nil {
		s.cfg.Logger.Warn("Registry lookup failed", "assignment_id", s.assignmentID, "error", err)
		return nil
	}
	return assignment
}

func (s *Session) restoreDraftLocked(ctx context.Context) {
	restored, err := s.cfg.Drafts.Load(ctx, s.assignmentID)
	if err != nil {
		s.cfg.Logger.Warn("Draft restore failed", "assignment_id", s.assignmentID, "error", err)
		return
	}
	if !restored.IsEmpty() {
		s.cfg.Logger.Info("Draft restored",
			"assignment_id", s.assignmentID,
			"answers", len(restored.Answers))
	}
	s.current = restored
}

// SetIdentity records the learner's display name and J-number and
// persists the draft.
func (s *Session) SetIdentity(ctx context.Context, studentName, jNumber string) {
	s.mu.Lock()
	s.current.StudentName = studentName
	s.current.JNumber = jNumber
	s.mu.Unlock()

	s.persistDraft(ctx)
}

// Start moves Ready -> InProgress: validates identity, arms the
// assignment-level timer exactly once, and arms the first question's
// timer when it has a limit.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()

	if s.state != StateReady {
		s.mu.Unlock()
		return ErrNotReady
	}
	if strings.TrimSpace(s.current.StudentName) == "" || strings.TrimSpace(s.current.JNumber) == "" {
		s.lastError = "Please enter your name and J-number before starting."
		s.mu.Unlock()
		return ErrIdentityRequired
	}

	s.state = StateInProgress
	s.currentIdx = 0
	s.lastError = ""
	restored := !s.current.IsEmpty()

	s.assignmentTimer = timer.Start(s.assignment.EffectiveTimeLimit(), timer.Options{
		Interval: s.cfg.TickInterval,
		OnExpire: s.handleAssignmentExpiry,
	})
	s.armQuestionTimerLocked()

	assignment := s.assignment
	startedEvent := &events.SessionStartedEvent{
		AssignmentID:    s.assignmentID,
		AssignmentTitle: assignment.Title,
		StudentName:     s.current.StudentName,
		JNumber:         s.current.JNumber,
		StartedAt:       time.Now(),
		TimeLimit:       assignment.EffectiveTimeLimit(),
		QuestionCount:   len(assignment.Questions),
		DraftRestored:   restored,
	}
	s.mu.Unlock()

	s.publish(events.EventSessionStarted, startedEvent)

	s.cfg.Logger.Info("Taking session started",
		"assignment_id", s.assignmentID,
		"student", startedEvent.StudentName)

	return nil
}

// SetAnswer records an answer for one question and persists the draft.
func (s *Session) SetAnswer(ctx context.Context, questionID, value string) {
	s.mu.Lock()
	s.current.Answers[questionID] = value
	s.mu.Unlock()

	s.persistDraft(ctx)
}

// SetTranscript records a successful transcription for an oral question.
// The transcript is the answer for oral questions, so it mirrors into
// the answers map.
func (s *Session) SetTranscript(ctx context.Context, questionID, text string) {
	s.mu.Lock()
	s.current.Transcripts[questionID] = text
	s.current.Answers[questionID] = text
	s.mu.Unlock()

	s.persistDraft(ctx)
}

// SetTranscriptError records a placeholder in place of a transcript
// after a failed upload, without polluting the answers map.
func (s *Session) SetTranscriptError(ctx context.Context, questionID, placeholder string) {
	s.mu.Lock()
	s.current.Transcripts[questionID] = placeholder
	s.mu.Unlock()

	s.persistDraft(ctx)
}

// Next advances to the next question, or submits when the current
// question is the last one.
func (s *Session) Next(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateInProgress {
		s.mu.Unlock()
		return ErrNotStarted
	}

	if s.currentIdx < len(s.assignment.Questions)-1 {
		s.advanceLocked(false)
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	return s.Submit(ctx)
}

// advanceLocked commits the new question index and only then re-arms the
// question timer, so an old countdown can never fire against the new
// question's state.
func (s *Session) advanceLocked(byTimer bool) {
	s.currentIdx++
	s.armQuestionTimerLocked()

	q := s.assignment.Questions[s.currentIdx]
	event := &events.QuestionAdvancedEvent{
		AssignmentID: s.assignmentID,
		QuestionID:   q.ID,
		QuestionIdx:  s.currentIdx,
		ByTimer:      byTimer,
	}
	go s.publish(events.EventQuestionAdvanced, event)
}

func (s *Session) armQuestionTimerLocked() {
	if s.questionTimer != nil {
		s.questionTimer.Stop()
		s.questionTimer = nil
	}

	q := s.assignment.Questions[s.currentIdx]
	if !q.Timed() {
		return
	}

	idx := s.currentIdx
	s.questionTimer = timer.Start(*q.TimeLimit, timer.Options{
		Interval: s.cfg.TickInterval,
		OnExpire: func() { s.handleQuestionExpiry(idx) },
	})
}

// handleQuestionExpiry auto-advances (or submits, on the last question)
// when a per-question countdown runs out. A pending submission
// suppresses the transition entirely.
func (s *Session) handleQuestionExpiry(idx int) {
	s.mu.Lock()
	if s.state != StateInProgress || s.currentIdx != idx {
		s.mu.Unlock()
		return
	}

	if s.currentIdx < len(s.assignment.Questions)-1 {
		s.advanceLocked(true)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.cfg.Logger.Info("Question time expired on last question, auto-submitting",
		"assignment_id", s.assignmentID)
	_ = s.submit(context.Background(), true)
}

// handleAssignmentExpiry auto-submits when the assignment-level
// countdown runs out, unless a submission is already in flight.
func (s *Session) handleAssignmentExpiry() {
	s.mu.Lock()
	if s.state != StateInProgress {
		s.mu.Unlock()
		return
	}
	idx := s.currentIdx
	s.mu.Unlock()

	s.publish(events.EventSessionExpired, &events.SessionExpiredEvent{
		AssignmentID: s.assignmentID,
		ExpiredAt:    time.Now(),
		QuestionIdx:  idx,
	})

	s.cfg.Logger.Info("Assignment time expired, auto-submitting",
		"assignment_id", s.assignmentID)
	_ = s.submit(context.Background(), true)
}

// Submit is the single guarded submission entry point shared by manual
// submits and both timer expiries: at most one POST is ever in flight,
// and a submitted session never submits again.
func (s *Session) Submit(ctx context.Context) error {
	return s.submit(ctx, false)
}

func (s *Session) submit(ctx context.Context, auto bool) error {
	s.mu.Lock()

	switch s.state {
	case StateSubmitting:
		s.mu.Unlock()
		return nil
	case StateSubmitted:
		s.mu.Unlock()
		return ErrAlreadySubmitted
	case StateInProgress:
		// proceed
	default:
		s.mu.Unlock()
		return ErrNotStarted
	}

	name := strings.TrimSpace(s.current.StudentName)
	jNumber := strings.TrimSpace(s.current.JNumber)
	if name == "" || jNumber == "" {
		s.lastError = "Please enter your name and J-number before submitting."
		s.mu.Unlock()
		return ErrIdentityRequired
	}

	s.state = StateSubmitting
	s.lastError = ""
	s.autoSubmit = auto
	submission := &models.Submission{
		AssignmentID: s.assignmentID,
		StudentName:  name,
		JNumber:      jNumber,
		Answers:      copyMap(s.current.Answers),
		Transcripts:  copyMap(s.current.Transcripts),
	}
	s.mu.Unlock()

	result, err := s.cfg.Backend.SubmitResponse(ctx, submission)
	if err != nil {
		// The draft survives a failed submission; the learner retries
		// with everything intact.
		s.mu.Lock()
		s.state = StateInProgress
		s.lastError = api.UserMessage(err, "Error submitting your responses. Please try again.")
		s.mu.Unlock()

		s.cfg.Logger.Error("Submission failed",
			"assignment_id", s.assignmentID,
			"error", err)
		return err
	}

	if err := s.cfg.Drafts.Clear(ctx, s.assignmentID); err != nil {
		s.cfg.Logger.Warn("Failed to clear draft after submission",
			"assignment_id", s.assignmentID,
			"error", err)
	}

	s.mu.Lock()
	s.state = StateSubmitted
	s.responseID = result.ResponseID
	s.stopTimersLocked()
	for _, q := range s.assignment.OralQuestions() {
		s.ratingStatus[q.ID] = RatingIdle
	}
	submittedEvent := &events.SessionSubmittedEvent{
		AssignmentID: s.assignmentID,
		ResponseID:   s.responseID,
		StudentName:  name,
		JNumber:      jNumber,
		SubmittedAt:  time.Now(),
		AnswerCount:  len(submission.Answers),
		AutoSubmit:   auto,
	}
	s.mu.Unlock()

	s.publish(events.EventSessionSubmitted, submittedEvent)

	s.cfg.Logger.Info("Submission accepted",
		"assignment_id", s.assignmentID,
		"response_id", result.ResponseID,
		"auto", auto)

	return nil
}

// RateAccuracy saves a 1-5 star accuracy rating (with optional comment)
// for one oral question of the submitted response. The raw value is
// clamped to the star scale; saves for one question are serialized.
func (s *Session) RateAccuracy(ctx context.Context, questionID string, value float64, comment string) error {
	s.mu.Lock()

	if s.state != StateSubmitted {
		s.mu.Unlock()
		return ErrNotSubmitted
	}
	if s.responseID == "" {
		s.mu.Unlock()
		return ErrRatingUnavailable
	}
	status, ratable := s.ratingStatus[questionID]
	if !ratable {
		s.mu.Unlock()
		return ErrQuestionNotRatable
	}
	if status == RatingSaving {
		s.mu.Unlock()
		return ErrRatingInFlight
	}

	s.ratingStatus[questionID] = RatingSaving
	responseID := s.responseID
	s.mu.Unlock()

	rating := &models.AccuracyRating{
		QuestionID: questionID,
		Rating:     models.ClampRating(value),
		Comment:    comment,
	}

	err := s.cfg.Backend.SaveAccuracyRating(ctx, responseID, rating)

	s.mu.Lock()
	if err != nil {
		s.ratingStatus[questionID] = RatingError
	} else {
		s.ratingStatus[questionID] = RatingSaved
	}
	s.mu.Unlock()

	if err != nil {
		s.cfg.Logger.Error("Accuracy rating save failed",
			"response_id", responseID,
			"question_id", questionID,
			"error", err)
		return err
	}

	s.publish(events.EventRatingSaved, &events.RatingSavedEvent{
		ResponseID: responseID,
		QuestionID: questionID,
		Rating:     rating.Rating,
		HasComment: comment != "",
	})

	return nil
}

// Close tears the session down: both countdowns stop so no orphaned
// callback can fire against dead state. An in-flight submission is left
// to complete in the background.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimersLocked()
}

func (s *Session) stopTimersLocked() {
	if s.assignmentTimer != nil {
		s.assignmentTimer.Stop()
		s.assignmentTimer = nil
	}
	if s.questionTimer != nil {
		s.questionTimer.Stop()
		s.questionTimer = nil
	}
}
