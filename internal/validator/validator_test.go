package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/GokalpAyar/amplify-lms-client/internal/errors"
	"github.com/GokalpAyar/amplify-lms-client/internal/models"
)

func intPtr(v int) *int { return &v }

func TestValidator_Assignment(t *testing.T) {
	v := New()

	t.Run("valid assignment passes", func(t *testing.T) {
		a := &models.Assignment{
			ID:    "a1",
			Title: "Cell Biology Quiz",
			Questions: []models.Question{
				{ID: "q1", Type: models.QuestionShort, Text: "Define osmosis."},
				{ID: "q2", Type: models.QuestionMultiple, Text: "Pick one.", Options: []string{"A", "B"}},
				{ID: "q3", Type: models.QuestionOral, Text: "Explain aloud.", TimeLimit: intPtr(30)},
			},
		}
		assert.NoError(t, v.Validate(a))
	})

	t.Run("blank question text rejected", func(t *testing.T) {
		a := &models.Assignment{
			ID:    "a1",
			Title: "Quiz",
			Questions: []models.Question{
				{ID: "q1", Type: models.QuestionShort, Text: "   "},
			},
		}
		err := v.Validate(a)
		require.Error(t, err)
		var ve apperrors.ValidationErrors
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "questions[q1].text", ve[0].Field)
	})

	t.Run("multiple choice needs two non-empty options", func(t *testing.T) {
		a := &models.Assignment{
			ID:    "a1",
			Title: "Quiz",
			Questions: []models.Question{
				{ID: "q1", Type: models.QuestionMultiple, Text: "Pick.", Options: []string{"A", " "}},
			},
		}
		err := v.Validate(a)
		require.Error(t, err)
	})

	t.Run("duplicate question ids rejected", func(t *testing.T) {
		a := &models.Assignment{
			ID:    "a1",
			Title: "Quiz",
			Questions: []models.Question{
				{ID: "q1", Type: models.QuestionShort, Text: "One."},
				{ID: "q1", Type: models.QuestionShort, Text: "Two."},
			},
		}
		err := v.Validate(a)
		require.Error(t, err)
	})

	t.Run("correct index out of range rejected", func(t *testing.T) {
		a := &models.Assignment{
			ID:    "a1",
			Title: "Quiz",
			Questions: []models.Question{
				{ID: "q1", Type: models.QuestionMultiple, Text: "Pick.", Options: []string{"A", "B"}, CorrectIx: intPtr(4)},
			},
		}
		err := v.Validate(a)
		require.Error(t, err)
	})
}

func TestValidator_Submission(t *testing.T) {
	v := New()

	t.Run("identity fields required", func(t *testing.T) {
		sub := &models.Submission{AssignmentID: "a1"}
		err := v.Validate(sub)
		require.Error(t, err)
	})

	t.Run("complete submission passes", func(t *testing.T) {
		sub := &models.Submission{
			AssignmentID: "a1",
			StudentName:  "Ada",
			JNumber:      "J123",
			Answers:      map[string]string{"q1": "mitochondria"},
			Transcripts:  map[string]string{},
		}
		assert.NoError(t, v.Validate(sub))
	})
}

func TestValidator_AccuracyRating(t *testing.T) {
	v := New()

	err := v.Validate(&models.AccuracyRating{QuestionID: "q2", Rating: 6})
	require.Error(t, err)

	assert.NoError(t, v.Validate(&models.AccuracyRating{QuestionID: "q2", Rating: 5}))
}
