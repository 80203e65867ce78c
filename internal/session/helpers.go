package session

import (
	"context"
	"fmt"

	"github.com/GokalpAyar/amplify-lms-client/internal/events"
	"github.com/GokalpAyar/amplify-lms-client/internal/models"
	"github.com/GokalpAyar/amplify-lms-client/internal/recording"
	"github.com/GokalpAyar/amplify-lms-client/internal/timer"
)

// State reports the session's lifecycle position.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Assignment returns the loaded assignment, or nil before Load succeeds.
func (s *Session) Assignment() *models.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assignment
}

// CurrentIndex reports the zero-based index of the question being taken.
func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentIdx
}

// CurrentQuestion returns the question being taken, or nil outside an
// active session.
func (s *Session) CurrentQuestion() *models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.assignment == nil || s.currentIdx >= len(s.assignment.Questions) {
		return nil
	}
	return &s.assignment.Questions[s.currentIdx]
}

// Answer returns the recorded answer for a question.
func (s *Session) Answer(questionID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Answers[questionID]
}

// Transcript returns the recorded transcript (or error placeholder) for
// a question.
func (s *Session) Transcript(questionID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Transcripts[questionID]
}

// AssignmentRemaining reports seconds left on the assignment-level
// countdown, formatted M:SS via timer.FormatSeconds by callers.
func (s *Session) AssignmentRemaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.assignmentTimer == nil {
		return 0
	}
	return s.assignmentTimer.Remaining()
}

// QuestionRemaining reports seconds left on the current question's
// countdown; -1 means the question is untimed.
func (s *Session) QuestionRemaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.questionTimer == nil {
		return -1
	}
	return s.questionTimer.Remaining()
}

// RemainingDisplay formats the assignment countdown for presentation.
func (s *Session) RemainingDisplay() string {
	return timer.FormatSeconds(s.AssignmentRemaining())
}

// ResponseID returns the backend-assigned response identifier, empty
// until submission succeeds or when the backend never reported one.
func (s *Session) ResponseID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.responseID
}

// LastError returns the most recent user-facing error message, empty
// when the last operation succeeded.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// AutoSubmitted reports whether the accepted submission was triggered by
// a timer rather than the learner.
func (s *Session) AutoSubmitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateSubmitted && s.autoSubmit
}

// RatingStatus reports the save status for one oral question's accuracy
// rating. Questions that cannot be rated report RatingIdle and false.
func (s *Session) RatingStatus(questionID string) (RatingStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status, ok := s.ratingStatus[questionID]
	if !ok {
		return RatingIdle, false
	}
	return status, true
}

// TranscriptSink adapts the session into a recording.Recorder OnResult
// callback for one oral question: successful transcripts become the
// question's answer, failures leave a placeholder in the transcripts
// only.
func (s *Session) TranscriptSink(questionID string) func(recording.Result) {
	return func(result recording.Result) {
		ctx := context.Background()
		if result.Err != nil {
			s.cfg.Logger.Warn("Transcription failed for question",
				"assignment_id", s.assignmentID,
				"question_id", questionID,
				"error", result.Err)
			s.SetTranscriptError(ctx, questionID, fmt.Sprintf("[transcription failed: %v]", result.Err))
			s.publish(events.EventTranscriptionFailed, &events.TranscriptionEvent{
				AssignmentID: s.assignmentID,
				QuestionID:   questionID,
				Error:        result.Err.Error(),
			})
			return
		}
		s.SetTranscript(ctx, questionID, result.Transcript)
		s.publish(events.EventTranscriptionCompleted, &events.TranscriptionEvent{
			AssignmentID: s.assignmentID,
			QuestionID:   questionID,
			CharCount:    len(result.Transcript),
		})
	}
}

// persistDraft writes the current draft through the store. Persistence
// failures never interrupt the taking flow.
func (s *Session) persistDraft(ctx context.Context) {
	s.mu.Lock()
	snapshot := models.Draft{
		StudentName: s.current.StudentName,
		JNumber:     s.current.JNumber,
		Answers:     copyMap(s.current.Answers),
		Transcripts: copyMap(s.current.Transcripts),
	}
	s.mu.Unlock()

	if err := s.cfg.Drafts.Save(ctx, s.assignmentID, snapshot); err != nil {
		s.cfg.Logger.Warn("Draft save failed",
			"assignment_id", s.assignmentID,
			"error", err)
	}
}

// publish sends a session event when a publisher is configured. Event
// delivery is observational; failures are logged, never surfaced.
func (s *Session) publish(eventType events.EventType, payload interface{}) {
	if s.cfg.Publisher == nil {
		return
	}
	event := events.NewSessionEvent(eventType, payload)
	if err := s.cfg.Publisher.PublishSessionEvent(context.Background(), event); err != nil {
		s.cfg.Logger.Warn("Failed to publish session event",
			"event_type", eventType,
			"error", err)
	}
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
