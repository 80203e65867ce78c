package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/GokalpAyar/amplify-lms-client/internal/models"
)

// GetAssignment fetches one assignment by id. The assignment-level time
// limit is defaulted here so every caller sees a usable value.
func (c *Client) GetAssignment(ctx context.Context, id string) (*models.Assignment, error) {
	resp, body, err := c.doJSON(ctx, http.MethodGet, c.url("/assignments/"+id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignment %s: %w", id, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrAssignmentNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, NewAPIError(resp.StatusCode, body)
	}

	var assignment models.Assignment
	if err := json.Unmarshal(body, &assignment); err != nil {
		return nil, fmt.Errorf("failed to decode assignment %s: %w", id, err)
	}
	if assignment.ID == "" {
		assignment.ID = id
	}
	assignment.AssignmentTimeLimit = assignment.EffectiveTimeLimit()

	return &assignment, nil
}

// ListAssignments fetches all assignments (review flow).
func (c *Client) ListAssignments(ctx context.Context) ([]models.Assignment, error) {
	resp, body, err := c.doJSON(ctx, http.MethodGet, c.url("/assignments/"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, NewAPIError(resp.StatusCode, body)
	}

	var assignments []models.Assignment
	if err := json.Unmarshal(body, &assignments); err != nil {
		return nil, fmt.Errorf("failed to decode assignment list: %w", err)
	}

	return assignments, nil
}

// CreateAssignment pushes a newly authored assignment to the backend.
func (c *Client) CreateAssignment(ctx context.Context, assignment *models.Assignment) error {
	resp, body, err := c.doJSON(ctx, http.MethodPost, c.url("/assignments/"), assignment)
	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return NewAPIError(resp.StatusCode, body)
	}

	c.logger.Info("Assignment created", "assignment_id", assignment.ID, "title", assignment.Title)
	return nil
}
