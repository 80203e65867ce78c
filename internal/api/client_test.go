package api_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GokalpAyar/amplify-lms-client/internal/api"
	"github.com/GokalpAyar/amplify-lms-client/internal/backendtest"
	"github.com/GokalpAyar/amplify-lms-client/internal/models"
)

func newTestClient(t *testing.T) (*api.Client, *backendtest.Server) {
	t.Helper()
	backend := backendtest.New()
	t.Cleanup(backend.Close)

	client := api.NewClient(api.ClientConfig{
		BaseURL: backend.URL(),
		Logger:  slog.New(slog.NewTextHandler(os.Stdout, nil)),
	})
	return client, backend
}

func TestClient_GetAssignment(t *testing.T) {
	client, backend := newTestClient(t)
	ctx := context.Background()

	backend.AddAssignment(models.Assignment{
		ID:    "a1",
		Title: "Cell Biology",
		Questions: []models.Question{
			{ID: "q1", Type: models.QuestionShort, Text: "Define osmosis."},
		},
	})

	t.Run("fetch applies default time limit", func(t *testing.T) {
		a, err := client.GetAssignment(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, "Cell Biology", a.Title)
		assert.Equal(t, models.DefaultAssignmentTimeLimit, a.AssignmentTimeLimit)
	})

	t.Run("missing assignment", func(t *testing.T) {
		_, err := client.GetAssignment(ctx, "nope")
		assert.ErrorIs(t, err, api.ErrAssignmentNotFound)
		assert.True(t, api.IsNotFound(err))
	})
}

func TestClient_SubmitResponse(t *testing.T) {
	ctx := context.Background()

	submission := &models.Submission{
		AssignmentID: "a1",
		StudentName:  "Ada",
		JNumber:      "J123",
		Answers:      map[string]string{"q1": "mitochondria"},
		Transcripts:  map[string]string{},
	}

	t.Run("identifier from body", func(t *testing.T) {
		client, backend := newTestClient(t)
		result, err := client.SubmitResponse(ctx, submission)
		require.NoError(t, err)
		assert.Equal(t, "r1", result.ResponseID)
		assert.Equal(t, 1, backend.SubmitCount())
	})

	t.Run("identifier under alternate field name", func(t *testing.T) {
		client, backend := newTestClient(t)
		backend.SubmitRawBody = `{"response_id": "abc-123"}`
		result, err := client.SubmitResponse(ctx, submission)
		require.NoError(t, err)
		assert.Equal(t, "abc-123", result.ResponseID)
	})

	t.Run("identifier from location header", func(t *testing.T) {
		client, backend := newTestClient(t)
		backend.SubmitLocationID = true
		result, err := client.SubmitResponse(ctx, submission)
		require.NoError(t, err)
		assert.Equal(t, "r1", result.ResponseID)
	})

	t.Run("empty body still succeeds without identifier", func(t *testing.T) {
		client, backend := newTestClient(t)
		backend.SubmitOmitID = true
		result, err := client.SubmitResponse(ctx, submission)
		require.NoError(t, err)
		assert.Equal(t, "", result.ResponseID)
	})

	t.Run("rejection surfaces backend detail", func(t *testing.T) {
		client, backend := newTestClient(t)
		backend.SubmitStatus = 422
		_, err := client.SubmitResponse(ctx, submission)
		require.Error(t, err)
		assert.ErrorIs(t, err, api.ErrSubmissionRejected)
		assert.Equal(t, "submission failed", api.UserMessage(err, "generic"))
	})
}

func TestClient_GradeAndRate(t *testing.T) {
	client, backend := newTestClient(t)
	ctx := context.Background()

	_, err := client.SubmitResponse(ctx, &models.Submission{
		AssignmentID: "a1", StudentName: "Ada", JNumber: "J123",
	})
	require.NoError(t, err)

	t.Run("grade response", func(t *testing.T) {
		require.NoError(t, client.GradeResponse(ctx, "r1", 87.5))
		grade, ok := backend.Grade("r1")
		require.True(t, ok)
		assert.Equal(t, 87.5, grade)
	})

	t.Run("save accuracy rating", func(t *testing.T) {
		rating := &models.AccuracyRating{QuestionID: "q2", Rating: 4, Comment: "pretty close"}
		require.NoError(t, client.SaveAccuracyRating(ctx, "r1", rating))

		saved := backend.Ratings("r1")
		require.Len(t, saved, 1)
		assert.Equal(t, 4, saved[0].Rating)
	})

	t.Run("list responses includes grade", func(t *testing.T) {
		responses, err := client.ListResponses(ctx)
		require.NoError(t, err)
		require.Len(t, responses, 1)
		require.NotNil(t, responses[0].Grade)
		assert.Equal(t, 87.5, *responses[0].Grade)
	})
}

func TestClient_Transcribe(t *testing.T) {
	ctx := context.Background()
	audio := []byte("fake-webm-bytes")

	t.Run("success", func(t *testing.T) {
		client, backend := newTestClient(t)
		backend.TranscribeText = "the cell is the basic unit"
		text, err := client.Transcribe(ctx, "recording.webm", audio, "assignment")
		require.NoError(t, err)
		assert.Equal(t, "the cell is the basic unit", text)
	})

	t.Run("alternate response field", func(t *testing.T) {
		client, backend := newTestClient(t)
		backend.TranscribeText = "hello"
		backend.TranscribeField = "text"
		text, err := client.Transcribe(ctx, "recording.webm", audio, "assignment")
		require.NoError(t, err)
		assert.Equal(t, "hello", text)
	})

	t.Run("server failure maps to sentinel", func(t *testing.T) {
		client, backend := newTestClient(t)
		backend.TranscribeStatus = 500
		_, err := client.Transcribe(ctx, "recording.webm", audio, "assignment")
		assert.ErrorIs(t, err, api.ErrTranscriptionFailed)
	})

	t.Run("unreachable backend maps to sentinel", func(t *testing.T) {
		client := api.NewClient(api.ClientConfig{BaseURL: "http://127.0.0.1:1"})
		_, err := client.Transcribe(ctx, "recording.webm", audio, "assignment")
		assert.ErrorIs(t, err, api.ErrTranscriptionFailed)
	})
}
