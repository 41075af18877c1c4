package focus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyHubAPI/internal/apperr"
)

func TestDayBounds(t *testing.T) {
	label, start, end, err := DayBounds("2025-03-09", now)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-09", label)
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 9, 23, 59, 59, 999999000, time.UTC), end)

	label, start, _, err = DayBounds("", now)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", label)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), start)

	_, _, _, err = DayBounds("March 9", now)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize("2025-03-10", nil)
	assert.Equal(t, "2025-03-10", s.Date)
	assert.Equal(t, 0.0, s.TotalElapsedSec)
	assert.Nil(t, s.ActiveTimer)
	assert.Equal(t, 0.0, s.DailyPlantGrowth)
}

func TestSummarize(t *testing.T) {
	sessions := []*Session{
		{Status: StatusCompleted, ElapsedSec: 600, PlantGrowth: 1.0, DurationMin: 10},
		{Status: StatusCompleted, ElapsedSec: 570, PlantGrowth: 0.66, DurationMin: 10},
		{Status: StatusCanceled, ElapsedSec: 30, DurationMin: 10},
		{Status: StatusPaused, ElapsedSec: 100, DurationMin: 10},
		{Status: StatusRunning, ElapsedSec: 200, DurationMin: 10, UpdatedAt: now},
		{Status: StatusRunning, ElapsedSec: 60, DurationMin: 5, UpdatedAt: now.Add(time.Minute)},
	}

	s := Summarize("2025-03-10", sessions)
	assert.Equal(t, 1560.0, s.TotalElapsedSec)
	assert.InDelta(t, 0.83, s.DailyPlantGrowth, 0.0001, "only completed sessions count")
	require.NotNil(t, s.ActiveTimer)
	assert.Equal(t, 240, *s.ActiveTimer, "most recently updated running session wins")
}

func TestSummarize_FallsBackToStartedAt(t *testing.T) {
	earlier := now.Add(-time.Hour)
	sessions := []*Session{
		{Status: StatusRunning, ElapsedSec: 0, DurationMin: 1, StartedAt: &now},
		{Status: StatusRunning, ElapsedSec: 0, DurationMin: 2, StartedAt: &earlier},
	}
	s := Summarize("2025-03-10", sessions)
	require.NotNil(t, s.ActiveTimer)
	assert.Equal(t, 60, *s.ActiveTimer)
}

func TestSummarize_TieGoesToLaterSession(t *testing.T) {
	sessions := []*Session{
		{ID: 1, Status: StatusRunning, ElapsedSec: 0, DurationMin: 10, UpdatedAt: now},
		{ID: 2, Status: StatusRunning, ElapsedSec: 0, DurationMin: 3, UpdatedAt: now},
	}
	s := Summarize("2025-03-10", sessions)
	require.NotNil(t, s.ActiveTimer)
	assert.Equal(t, 180, *s.ActiveTimer)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, ActiveStatus{Active: false}, StatusOf(nil))
	assert.False(t, StatusOf([]*Session{{Status: StatusPaused}}).Active)

	st := StatusOf([]*Session{
		{Status: StatusCompleted, DurationMin: 10},
		{Status: StatusRunning, DurationMin: 10, ElapsedSec: 599.7},
	})
	assert.True(t, st.Active)
	require.NotNil(t, st.Remaining)
	assert.Equal(t, 0, *st.Remaining)
}
