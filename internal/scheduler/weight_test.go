package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/rizkia-dev/study-planner-api/pkg/errors"
)

func TestSubjectWeightBase(t *testing.T) {
	w, err := SubjectWeight(Subject{ID: "math", Priority: 3}, monday)
	require.NoError(t, err)
	assert.Equal(t, 6.0, w)
}

func TestSubjectWeightDifficultyMultiplies(t *testing.T) {
	w, err := SubjectWeight(Subject{ID: "math", Priority: 3, Difficulty: 4}, monday)
	require.NoError(t, err)
	assert.Equal(t, 24.0, w)
}

func TestSubjectWeightUnsetDifficultyLeavesBase(t *testing.T) {
	w, err := SubjectWeight(Subject{ID: "math", Priority: 5}, monday)
	require.NoError(t, err)
	assert.Equal(t, 10.0, w)
}

func TestSubjectWeightExamBoostTiers(t *testing.T) {
	cases := []struct {
		name     string
		daysOut  int
		expected float64
	}{
		{"under a week", 3, 20.0},
		{"under two weeks", 10, 15.0},
		{"under a month", 20, 12.0},
		{"far away", 45, 10.0},
		{"already past", -2, 10.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			exam := monday.AddDate(0, 0, tc.daysOut)
			w, err := SubjectWeight(Subject{ID: "math", Priority: 5, ExamDate: &exam}, monday)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, w)
		})
	}
}

func TestSubjectWeightExamSoonAtLeastDoubles(t *testing.T) {
	exam := monday.AddDate(0, 0, 3)
	withExam, err := SubjectWeight(Subject{ID: "a", Priority: 4, Difficulty: 2, ExamDate: &exam}, monday)
	require.NoError(t, err)
	without, err := SubjectWeight(Subject{ID: "b", Priority: 4, Difficulty: 2}, monday)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, withExam, 2*without)
}

func TestSubjectWeightRejectsInvalidPriority(t *testing.T) {
	for _, priority := range []int{0, -1, 6} {
		_, err := SubjectWeight(Subject{ID: "bad", Priority: priority}, monday)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrInvalidSubject.Code, appErrors.FromError(err).Code)
	}
}
