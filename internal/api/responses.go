package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/GokalpAyar/amplify-lms-client/internal/models"
)

// SubmitResult is the normalized outcome of a successful submission POST.
// ResponseID is empty when the backend returned neither a body field nor
// a Location header; rating capture is disabled in that case.
type SubmitResult struct {
	ResponseID string
}

// SubmitResponse posts a finalized submission. The backend's 2xx body may
// be JSON, empty, or junk; all of those count as success, and the response
// identifier is recovered on a best-effort basis.
func (c *Client) SubmitResponse(ctx context.Context, submission *models.Submission) (*SubmitResult, error) {
	c.logger.Info("Submitting response",
		"assignment_id", submission.AssignmentID,
		"answers_count", len(submission.Answers))

	resp, body, err := c.doJSON(ctx, http.MethodPost, c.url("/responses/"), submission)
	if err != nil {
		return nil, fmt.Errorf("failed to submit response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %w", ErrSubmissionRejected, NewAPIError(resp.StatusCode, body))
	}

	result := &SubmitResult{ResponseID: ExtractResponseID(body, resp.Header)}
	if result.ResponseID == "" {
		c.logger.Warn("Submission accepted but no response identifier returned",
			"assignment_id", submission.AssignmentID)
	}

	return result, nil
}

// ListResponses fetches all submitted responses (review flow).
func (c *Client) ListResponses(ctx context.Context) ([]models.Response, error) {
	resp, body, err := c.doJSON(ctx, http.MethodGet, c.url("/responses/"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, NewAPIError(resp.StatusCode, body)
	}

	var responses []models.Response
	if err := json.Unmarshal(body, &responses); err != nil {
		return nil, fmt.Errorf("failed to decode response list: %w", err)
	}

	return responses, nil
}

// GradeResponse records an instructor's grade for one response. The backend
// takes the grade as a query parameter on this endpoint.
func (c *Client) GradeResponse(ctx context.Context, responseID string, grade float64) error {
	url := c.url("/responses/" + responseID + "/grade?grade=" + strconv.FormatFloat(grade, 'f', -1, 64))

	resp, body, err := c.doJSON(ctx, http.MethodPut, url, nil)
	if err != nil {
		return fmt.Errorf("failed to grade response %s: %w", responseID, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrResponseNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return NewAPIError(resp.StatusCode, body)
	}

	c.logger.Info("Response graded", "response_id", responseID, "grade", grade)
	return nil
}

// SaveAccuracyRating records a student's post-submission accuracy rating
// for one oral question of a response.
func (c *Client) SaveAccuracyRating(ctx context.Context, responseID string, rating *models.AccuracyRating) error {
	resp, body, err := c.doJSON(ctx, http.MethodPut, c.url("/responses/"+responseID+"/accuracy-rating"), rating)
	if err != nil {
		return fmt.Errorf("failed to save accuracy rating: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrResponseNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return NewAPIError(resp.StatusCode, body)
	}

	c.logger.Info("Accuracy rating saved",
		"response_id", responseID,
		"question_id", rating.QuestionID,
		"rating", rating.Rating)

	return nil
}
