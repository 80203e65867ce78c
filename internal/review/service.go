// Package review implements the instructor-facing side of the client:
// listing submitted responses joined with their assignments, grading
// them, and summarizing grading progress per assignment.
package review

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/GokalpAyar/amplify-lms-client/internal/models"
)

// Backend is the slice of the REST client the review flow consumes.
// *api.Client satisfies it.
type Backend interface {
	ListAssignments(ctx context.Context) ([]models.Assignment, error)
	ListResponses(ctx context.Context) ([]models.Response, error)
	GradeResponse(ctx context.Context, responseID string, grade float64) error
}

// Submission is one response joined with its assignment for display.
// AssignmentTitle falls back to the raw assignment id when the
// assignment no longer exists.
type Submission struct {
	models.Response
	AssignmentTitle string
	QuestionCount   int
}

// Summary is the grading progress for one assignment.
type Summary struct {
	AssignmentID    string
	AssignmentTitle string
	Total           int
	Graded          int
	Ungraded        int
	AverageGrade    float64
}

type Service interface {
	ListSubmissions(ctx context.Context) ([]Submission, error)
	Grade(ctx context.Context, responseID string, grade float64) error
	Summaries(ctx context.Context) ([]Summary, error)
}

type reviewService struct {
	backend Backend
	logger  *slog.Logger
}

func NewService(backend Backend, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &reviewService{
		backend: backend,
		logger:  logger,
	}
}

// ListSubmissions returns all submitted responses joined with their
// assignments, newest first.
func (s *reviewService) ListSubmissions(ctx context.Context) ([]Submission, error) {
	responses, err := s.backend.ListResponses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}

	assignments, err := s.assignmentsByID(ctx)
	if err != nil {
		return nil, err
	}

	submissions := make([]Submission, 0, len(responses))
	for _, r := range responses {
		sub := Submission{
			Response:        r,
			AssignmentTitle: r.AssignmentID,
		}
		if a, ok := assignments[r.AssignmentID]; ok {
			sub.AssignmentTitle = a.Title
			sub.QuestionCount = len(a.Questions)
		}
		submissions = append(submissions, sub)
	}

	sort.SliceStable(submissions, func(i, j int) bool {
		ti, tj := submissions[i].SubmittedAt, submissions[j].SubmittedAt
		if ti == nil || tj == nil {
			return tj == nil && ti != nil
		}
		return ti.After(*tj)
	})

	s.logger.Info("Listed submissions", "count", len(submissions))
	return submissions, nil
}

// Grade records a 0-100 grade for one response.
func (s *reviewService) Grade(ctx context.Context, responseID string, grade float64) error {
	if responseID == "" {
		return ErrResponseIDRequired
	}
	if grade < 0 || grade > 100 {
		return fmt.Errorf("%w: %.1f", ErrGradeOutOfRange, grade)
	}

	if err := s.backend.GradeResponse(ctx, responseID, grade); err != nil {
		s.logger.Error("Failed to grade response", "response_id", responseID, "error", err)
		return fmt.Errorf("failed to grade response %s: %w", responseID, err)
	}

	s.logger.Info("Response graded", "response_id", responseID, "grade", grade)
	return nil
}

// Summaries aggregates grading progress per assignment, ordered by
// assignment title. Assignments with no submissions yet are included
// with zero counts.
func (s *reviewService) Summaries(ctx context.Context) ([]Summary, error) {
	assignments, err := s.assignmentsByID(ctx)
	if err != nil {
		return nil, err
	}

	responses, err := s.backend.ListResponses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}

	byAssignment := make(map[string]*Summary, len(assignments))
	for id, a := range assignments {
		byAssignment[id] = &Summary{AssignmentID: id, AssignmentTitle: a.Title}
	}

	gradeTotals := make(map[string]float64)
	for _, r := range responses {
		summary, ok := byAssignment[r.AssignmentID]
		if !ok {
			summary = &Summary{AssignmentID: r.AssignmentID, AssignmentTitle: r.AssignmentID}
			byAssignment[r.AssignmentID] = summary
		}
		summary.Total++
		if r.Grade != nil {
			summary.Graded++
			gradeTotals[r.AssignmentID] += *r.Grade
		} else {
			summary.Ungraded++
		}
	}

	out := make([]Summary, 0, len(byAssignment))
	for id, summary := range byAssignment {
		if summary.Graded > 0 {
			summary.AverageGrade = gradeTotals[id] / float64(summary.Graded)
		}
		out = append(out, *summary)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AssignmentTitle == out[j].AssignmentTitle {
			return out[i].AssignmentID < out[j].AssignmentID
		}
		return out[i].AssignmentTitle < out[j].AssignmentTitle
	})

	return out, nil
}

func (s *reviewService) assignmentsByID(ctx context.Context) (map[string]models.Assignment, error) {
	assignments, err := s.backend.ListAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	byID := make(map[string]models.Assignment, len(assignments))
	for _, a := range assignments {
		byID[a.ID] = a
	}
	return byID, nil
}
