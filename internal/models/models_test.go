package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampRating(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{-3, 1},
		{0, 1},
		{2.6, 3},
		{5, 5},
		{9, 5},
		{1, 1},
		{4.4, 4},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ClampRating(tc.in), "ClampRating(%v)", tc.in)
	}
}

func TestAssignment_EffectiveTimeLimit(t *testing.T) {
	a := &Assignment{ID: "a1"}
	assert.Equal(t, DefaultAssignmentTimeLimit, a.EffectiveTimeLimit())

	a.AssignmentTimeLimit = 600
	assert.Equal(t, 600, a.EffectiveTimeLimit())
}

func TestAssignment_OralQuestions(t *testing.T) {
	a := &Assignment{
		Questions: []Question{
			{ID: "q1", Type: QuestionShort},
			{ID: "q2", Type: QuestionOral},
			{ID: "q3", Type: QuestionMultiple},
			{ID: "q4", Type: QuestionOral},
		},
	}

	oral := a.OralQuestions()
	assert.Len(t, oral, 2)
	assert.Equal(t, "q2", oral[0].ID)
	assert.Equal(t, "q4", oral[1].ID)
}

func TestQuestion_Timed(t *testing.T) {
	limit := 30
	assert.True(t, (&Question{TimeLimit: &limit}).Timed())
	assert.False(t, (&Question{}).Timed())

	zero := 0
	assert.False(t, (&Question{TimeLimit: &zero}).Timed())
}
