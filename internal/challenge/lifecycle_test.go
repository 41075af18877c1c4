package challenge

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyHubAPI/internal/apperr"
)

var today = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

func day(s string) *time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func newChallenge(t *testing.T, tasks ...string) *Challenge {
	t.Helper()
	c, err := New(NewParams{
		Title:           "Read every day",
		CreatorName:     "alice",
		CreatorID:       1,
		StartDate:       day("2025-03-01"),
		EndDate:         day("2025-03-31"),
		MaxParticipants: 3,
		TaskTitles:      tasks,
	})
	require.NoError(t, err)
	return c
}

func assertMembershipMatchesProgress(t *testing.T, c *Challenge) {
	t.Helper()
	require.Len(t, c.Progress, len(c.Participants))
	for _, id := range c.Participants {
		_, ok := c.Progress[id]
		assert.True(t, ok, "participant %d has no progress row", id)
	}
}

func TestNew(t *testing.T) {
	c := newChallenge(t, "  chapter 1 ", "", "   ", "chapter 2")

	assert.Equal(t, []int64{1}, c.Participants)
	require.Len(t, c.Tasks, 2)
	assert.Equal(t, "chapter 1", c.Tasks[0].Title)
	assert.Equal(t, "chapter 2", c.Tasks[1].Title)
	assert.Equal(t, []bool{false, false}, c.Progress[1])
	assert.Equal(t, 0.0, c.GroupProgress)
	assertMembershipMatchesProgress(t, c)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		params NewParams
	}{
		{"blank title", NewParams{Title: "  ", CreatorID: 1}},
		{"missing creator", NewParams{Title: "x"}},
		{"negative capacity", NewParams{Title: "x", CreatorID: 1, MaxParticipants: -1}},
		{"end before start", NewParams{Title: "x", CreatorID: 1, StartDate: day("2025-03-10"), EndDate: day("2025-03-09")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.params)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestNew_DefaultCapacity(t *testing.T) {
	c, err := New(NewParams{Title: "x", CreatorID: 7})
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxParticipants, c.MaxParticipants)
	assert.Empty(t, c.Tasks)
	assert.Equal(t, []bool{}, c.Progress[7])
}

func TestStatus(t *testing.T) {
	c := newChallenge(t)

	assert.Equal(t, StatusUpcoming, c.Status(time.Date(2025, 2, 28, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, StatusActive, c.Status(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, StatusActive, c.Status(time.Date(2025, 3, 31, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, StatusEnded, c.Status(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))

	open := &Challenge{}
	assert.Equal(t, StatusActive, open.Status(today))
	assert.False(t, open.HasEnded(today))
}

func TestJoin(t *testing.T) {
	c := newChallenge(t, "a", "b")

	require.NoError(t, c.Join(2, today))
	assert.Equal(t, []int64{1, 2}, c.Participants)
	assert.Equal(t, []bool{false, false}, c.Progress[2])
	assertMembershipMatchesProgress(t, c)

	err := c.Join(2, today)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, []int64{1, 2}, c.Participants)
}

func TestJoin_Full(t *testing.T) {
	c := newChallenge(t, "a")
	require.NoError(t, c.Join(2, today))
	require.NoError(t, c.Join(3, today))

	before := append([]int64(nil), c.Participants...)
	err := c.Join(4, today)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, before, c.Participants)
	_, ok := c.Progress[4]
	assert.False(t, ok)
	assertMembershipMatchesProgress(t, c)
}

func TestJoin_Ended(t *testing.T) {
	c := newChallenge(t, "a")
	err := c.Join(2, time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, []int64{1}, c.Participants)
}

func TestLeave(t *testing.T) {
	c := newChallenge(t, "a", "b")
	require.NoError(t, c.Join(2, today))
	require.NoError(t, c.Join(3, today))
	_, err := c.ToggleTask(2, 0, today)
	require.NoError(t, err)
	_, err = c.ToggleTask(3, 0, today)
	require.NoError(t, err)
	_, err = c.ToggleTask(3, 1, today)
	require.NoError(t, err)

	require.NoError(t, c.Leave(3))
	assert.Equal(t, []int64{1, 2}, c.Participants)
	assertMembershipMatchesProgress(t, c)
	// remaining rows: 0% and 50%
	assert.InDelta(t, 25.0, c.GroupProgress, 0.0001)
}

func TestLeave_NotJoined(t *testing.T) {
	c := newChallenge(t, "a")
	err := c.Leave(42)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, []int64{1}, c.Participants)
}

func TestAdoptParticipants(t *testing.T) {
	c := newChallenge(t, "a", "b")
	_, err := c.ToggleTask(1, 0, today)
	require.NoError(t, err)

	added := c.AdoptParticipants(DecodeParticipants(`["7", 1, 7, 8, 9]`))

	assert.Equal(t, []int64{7, 8}, added, "creator skipped, stops at capacity")
	assert.Equal(t, []int64{1, 7, 8}, c.Participants)
	assert.Equal(t, []bool{false, false}, c.Progress[7])
	assert.Len(t, c.Progress, 3)
	assert.Equal(t, 16.67, c.GroupProgress)

	assert.Empty(t, c.AdoptParticipants(DecodeParticipants(`not json`)))
}

func TestToggleTask(t *testing.T) {
	c := newChallenge(t, "a", "b", "c", "d")
	require.NoError(t, c.Join(2, today))

	pct, err := c.ToggleTask(1, 0, today)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, pct, 0.0001)
	assert.InDelta(t, 12.5, c.GroupProgress, 0.0001)

	pct, err = c.ToggleTask(1, 0, today)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pct)
	assert.Equal(t, []bool{false, false, false, false}, c.Progress[1])
	assert.Equal(t, 0.0, c.GroupProgress)
}

func TestToggleTask_Errors(t *testing.T) {
	c := newChallenge(t, "a")

	_, err := c.ToggleTask(9, 0, today)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = c.ToggleTask(1, 1, today)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = c.ToggleTask(1, -1, today)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = c.ToggleTask(1, 0, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestToggleTask_RepairsRow(t *testing.T) {
	c := newChallenge(t, "a", "b")
	c.Progress[1] = []bool{true}

	pct, err := c.ToggleTask(1, 1, today)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true}, c.Progress[1])
	assert.InDelta(t, 50.0, pct, 0.0001)

	delete(c.Progress, 1)
	_, err = c.ToggleTask(1, 0, today)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, c.Progress[1])
}

func TestTaskDoneDerivation(t *testing.T) {
	c := newChallenge(t, "a", "b")
	require.NoError(t, c.Join(2, today))

	_, err := c.ToggleTask(1, 0, today)
	require.NoError(t, err)
	assert.False(t, c.Tasks[0].Done)

	_, err = c.ToggleTask(2, 0, today)
	require.NoError(t, err)
	assert.True(t, c.Tasks[0].Done)
	assert.False(t, c.Tasks[1].Done)

	require.NoError(t, c.Join(3, today))
	assert.False(t, c.Tasks[0].Done)
}

func TestTaskIndex(t *testing.T) {
	c := newChallenge(t, "a", "b")
	c.Tasks[0].ID = 10
	c.Tasks[1].ID = 11

	idx, ok := c.TaskIndex(11)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = c.TaskIndex(99)
	assert.False(t, ok)
}

func TestUpdate(t *testing.T) {
	c := newChallenge(t, "a", "b")
	require.NoError(t, c.Join(2, today))
	_, err := c.ToggleTask(2, 0, today)
	require.NoError(t, err)

	err = c.Update(UpdateParams{
		Title:           " Renamed ",
		Description:     "new",
		Level:           "hard",
		StartDate:       day("2025-03-01"),
		EndDate:         day("2025-04-30"),
		MaxParticipants: 5,
	}, today)
	require.NoError(t, err)

	assert.Equal(t, "Renamed", c.Title)
	assert.Equal(t, 5, c.MaxParticipants)
	assert.Equal(t, []bool{true, false}, c.Progress[2], "scalar edits keep progress")
}

func TestUpdate_ReplaceTasksResetsProgress(t *testing.T) {
	c := newChallenge(t, "a", "b")
	require.NoError(t, c.Join(2, today))
	_, err := c.ToggleTask(1, 0, today)
	require.NoError(t, err)
	_, err = c.ToggleTask(2, 1, today)
	require.NoError(t, err)
	require.NotZero(t, c.GroupProgress)

	err = c.Update(UpdateParams{
		Title:        c.Title,
		EndDate:      c.EndDate,
		ReplaceTasks: true,
		TaskTitles:   []string{"x", "y", "z"},
	}, today)
	require.NoError(t, err)

	require.Len(t, c.Tasks, 3)
	for _, id := range c.Participants {
		assert.Equal(t, []bool{false, false, false}, c.Progress[id])
	}
	assert.Equal(t, 0.0, c.GroupProgress)
	assertMembershipMatchesProgress(t, c)
}

func TestUpdate_Errors(t *testing.T) {
	c := newChallenge(t, "a")
	require.NoError(t, c.Join(2, today))
	require.NoError(t, c.Join(3, today))

	err := c.Update(UpdateParams{Title: "x", MaxParticipants: 2}, today)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, 3, c.MaxParticipants)

	err = c.Update(UpdateParams{Title: ""}, today)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	err = c.Update(UpdateParams{Title: "x"}, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, "Read every day", c.Title)
}

func TestCheckDelete(t *testing.T) {
	c := newChallenge(t)

	assert.ErrorIs(t, c.CheckDelete(2, today), apperr.ErrForbidden)
	assert.NoError(t, c.CheckDelete(1, today))
	assert.ErrorIs(t, c.CheckDelete(1, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)), apperr.ErrConflict)
}

func TestLeaderboard(t *testing.T) {
	c := newChallenge(t, "a", "b")
	c.MaxParticipants = 5
	for _, id := range []int64{2, 3, 4} {
		require.NoError(t, c.Join(id, today))
	}
	_, err := c.ToggleTask(3, 0, today)
	require.NoError(t, err)
	_, err = c.ToggleTask(3, 1, today)
	require.NoError(t, err)
	_, err = c.ToggleTask(2, 0, today)
	require.NoError(t, err)
	c.Progress[4] = []bool{true}

	board := c.Leaderboard(map[int64]string{1: "alice", 2: "bob", 3: "carol", 4: "dave"})
	require.Len(t, board, 4)

	assert.Equal(t, int64(3), board[0].ID)
	assert.Equal(t, 100.0, board[0].Progress)
	assert.Equal(t, int64(2), board[1].ID)
	assert.Equal(t, 50.0, board[1].Progress)
	// ties keep join order
	assert.Equal(t, int64(1), board[2].ID)
	assert.Equal(t, int64(4), board[3].ID)
	assert.Equal(t, 0.0, board[3].Progress, "mis-sized row scores zero")
	assert.Equal(t, "dave", board[3].Name)

	for i, e := range board {
		assert.Equal(t, i+1, e.Rank)
	}
}

func TestComments(t *testing.T) {
	c := newChallenge(t)

	content, err := c.CheckComment(1, "  nice  ")
	require.NoError(t, err)
	assert.Equal(t, "nice", content)

	_, err = c.CheckComment(1, "   ")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = c.CheckComment(2, "hi")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	comment := &Comment{UserID: 2}
	_, err = CheckCommentEdit(comment, 1, "edit")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = CheckCommentEdit(comment, 2, " ")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	assert.NoError(t, c.CheckCommentDelete(comment, 2))
	assert.NoError(t, c.CheckCommentDelete(comment, 1), "creator can moderate")
	assert.ErrorIs(t, c.CheckCommentDelete(comment, 3), apperr.ErrForbidden)
}

func TestErrorsCarryKinds(t *testing.T) {
	c := newChallenge(t)
	err := c.Leave(5)

	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "user has not joined this challenge", appErr.Message)
}
