package challenge

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyHubAPI/internal/apperr"
)

func TestFormat_Anonymous(t *testing.T) {
	c := newChallenge(t, "a", "b")
	c.ID = 5

	v := Format(c, nil, today)

	assert.Equal(t, int64(5), v.ID)
	assert.Equal(t, StatusActive, v.Status)
	assert.False(t, v.IsCreator)
	assert.False(t, v.IsJoined)
	assert.Nil(t, v.UserProgress)
	assert.Equal(t, 1, v.ParticipantsCount)
	require.NotNil(t, v.StartDate)
	assert.Equal(t, "2025-03-01", *v.StartDate)
	assert.Equal(t, "2025-03-31", *v.EndDate)
	assert.Equal(t, []bool{false, false}, v.Progress["1"])
}

func TestFormat_Viewer(t *testing.T) {
	c := newChallenge(t, "a", "b")
	require.NoError(t, c.Join(2, today))
	_, err := c.ToggleTask(2, 1, today)
	require.NoError(t, err)

	creator := int64(1)
	v := Format(c, &creator, today)
	assert.True(t, v.IsCreator)
	assert.True(t, v.IsJoined)
	require.NotNil(t, v.UserProgress)
	assert.Equal(t, 0.0, *v.UserProgress)

	member := int64(2)
	v = Format(c, &member, today)
	assert.False(t, v.IsCreator)
	assert.True(t, v.IsJoined)
	assert.Equal(t, 50.0, *v.UserProgress)

	stranger := int64(9)
	v = Format(c, &stranger, today)
	assert.False(t, v.IsJoined)
	assert.Nil(t, v.UserProgress)
}

func TestFormat_DoesNotAlias(t *testing.T) {
	c := newChallenge(t, "a")
	v := Format(c, nil, today)

	v.Participants[0] = 99
	v.Progress["1"][0] = true
	v.Tasks[0].Title = "changed"

	assert.Equal(t, []int64{1}, c.Participants)
	assert.Equal(t, []bool{false}, c.Progress[1])
	assert.Equal(t, "a", c.Tasks[0].Title)
}

func TestFormat_JSONShape(t *testing.T) {
	c := &Challenge{ID: 1, Title: "x", CreatorID: 1, MaxParticipants: 10, Progress: map[int64][]bool{}}
	data, err := json.Marshal(Format(c, nil, today))
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Nil(t, out["start_date"])
	assert.Equal(t, "Active", out["status"])
	assert.Contains(t, out, "is_joined")
	assert.Contains(t, out, "group_progress")
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("start_date", "")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseDate("start_date", "2025-01-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), *d)

	_, err = ParseDate("end_date", "02/01/2025")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "end_date")
}
