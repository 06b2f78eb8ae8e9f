package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/rizkia-dev/study-planner-api/pkg/errors"
)

func weekPrefs() Preferences {
	return Preferences{
		StudyHoursPerWeek:   10,
		Morning:             true,
		Afternoon:           true,
		SessionLength:       60,
		BreakDuration:       15,
		MaxConsecutiveHours: 2,
		WeekendStudy:        true,
	}
}

func weekInput(subjects []Subject) GenerateInput {
	return GenerateInput{
		StartDate:   monday,
		EndDate:     monday.AddDate(0, 0, 6),
		Subjects:    subjects,
		Preferences: weekPrefs(),
	}
}

func hoursBySubject(sessions []ProposedSession) map[string]int {
	totals := make(map[string]int)
	for _, s := range sessions {
		totals[s.SubjectID] += int(s.EndTime.Sub(s.StartTime).Hours())
	}
	return totals
}

func TestGenerateFavorsHighPrioritySubjects(t *testing.T) {
	subjects := []Subject{
		{ID: "math", Name: "Math", Priority: 5, Workload: 4},
		{ID: "sci", Name: "Science", Priority: 3, Workload: 3},
		{ID: "hist", Name: "History", Priority: 4, Workload: 3},
	}

	result, err := Generate(weekInput(subjects))
	require.NoError(t, err)
	require.NotEmpty(t, result.Sessions)

	totals := hoursBySubject(result.Sessions)
	assert.Equal(t, 4, totals["math"])
	assert.GreaterOrEqual(t, totals["math"], totals["sci"])
	assert.GreaterOrEqual(t, totals["math"], totals["hist"])
}

func TestGenerateNoEligibleHours(t *testing.T) {
	in := weekInput([]Subject{{ID: "math", Priority: 3, Workload: 4}})
	in.Preferences.Morning = false
	in.Preferences.Afternoon = false
	in.Preferences.Evening = false
	in.Preferences.Night = false

	result, err := Generate(in)

	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNoEligibleHours))
}

func TestGenerateAvoidsBookedSlots(t *testing.T) {
	in := weekInput([]Subject{{ID: "math", Priority: 5, Workload: 20}})
	in.Booked = []BookedSlot{
		{StartTime: atHour(monday, 8), EndTime: atHour(monday, 10)},
	}

	result, err := Generate(in)
	require.NoError(t, err)

	for _, s := range result.Sessions {
		if !civilDate(s.StartTime).Equal(monday) {
			continue
		}
		for h := s.StartTime.Hour(); h < s.EndTime.Hour(); h++ {
			assert.NotContains(t, []int{8, 9}, h, "session collides with a booked slot")
		}
	}
}

func TestGenerateSessionsStayInsideResolvedWindows(t *testing.T) {
	in := weekInput([]Subject{{ID: "math", Priority: 4, Workload: 10}})

	result, err := Generate(in)
	require.NoError(t, err)
	require.NotEmpty(t, result.Sessions)

	for _, s := range result.Sessions {
		allowed := ResolveHours(s.StartTime, in.Preferences)
		for h := s.StartTime.Hour(); h < s.EndTime.Hour(); h++ {
			assert.Contains(t, allowed, h)
		}
	}
}

func TestGenerateSessionsChronological(t *testing.T) {
	in := weekInput([]Subject{
		{ID: "math", Priority: 4, Workload: 5},
		{ID: "bio", Priority: 4, Workload: 5},
	})

	result, err := Generate(in)
	require.NoError(t, err)
	require.NotEmpty(t, result.Sessions)

	for i := 1; i < len(result.Sessions); i++ {
		assert.False(t, result.Sessions[i].StartTime.Before(result.Sessions[i-1].EndTime),
			"sessions out of order at index %d", i)
	}
}

func TestGenerateWarnsOnOverCommittedWorkload(t *testing.T) {
	in := weekInput([]Subject{
		{ID: "math", Priority: 5, Workload: 8},
		{ID: "bio", Priority: 4, Workload: 8},
	})

	result, err := Generate(in)
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "exceeds the study budget")
}

func TestGenerateRejectsInvalidSubjectButContinues(t *testing.T) {
	in := weekInput([]Subject{
		{ID: "bad", Priority: 0, Workload: 4},
		{ID: "math", Priority: 4, Workload: 6},
	})

	result, err := Generate(in)
	require.NoError(t, err)

	assert.Equal(t, []string{"bad"}, result.RejectedSubjects)
	totals := hoursBySubject(result.Sessions)
	assert.Positive(t, totals["math"])
	assert.Zero(t, totals["bad"])
}

func TestGenerateEmptyInputs(t *testing.T) {
	result, err := Generate(GenerateInput{
		StartDate:   monday,
		EndDate:     monday.AddDate(0, 0, -1),
		Subjects:    []Subject{{ID: "math", Priority: 3, Workload: 4}},
		Preferences: weekPrefs(),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Sessions)

	result, err = Generate(weekInput(nil))
	require.NoError(t, err)
	assert.Empty(t, result.Sessions)
}

func TestGenerateDeterministic(t *testing.T) {
	subjects := []Subject{
		{ID: "math", Priority: 5, Workload: 4},
		{ID: "bio", Priority: 5, Workload: 4},
	}

	first, err := Generate(weekInput(subjects))
	require.NoError(t, err)
	second, err := Generate(weekInput(subjects))
	require.NoError(t, err)

	assert.Equal(t, first.Sessions, second.Sessions)
}

func TestGenerateSkipsWeekendWhenDisabled(t *testing.T) {
	in := weekInput([]Subject{{ID: "math", Priority: 5, Workload: 20}})
	in.Preferences.WeekendStudy = false
	in.Preferences.StudyHoursPerWeek = 40

	result, err := Generate(in)
	require.NoError(t, err)
	require.NotEmpty(t, result.Sessions)

	for _, s := range result.Sessions {
		wd := s.StartTime.Weekday()
		assert.NotEqual(t, time.Saturday, wd)
		assert.NotEqual(t, time.Sunday, wd)
	}
}
