package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyHubAPI/internal/apperr"
	"studyHubAPI/internal/goal"
	"studyHubAPI/internal/testutil"
)

func TestGoalService(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	svc := NewGoalService(pool)
	ctx := context.Background()
	owner := testutil.CreateUser(t, pool, "owner")

	later, err := svc.CreateGoal(ctx, &goal.CreateGoalRequest{Title: "later", Date: "2025-03-11", UserID: owner})
	require.NoError(t, err)
	earlier, err := svc.CreateGoal(ctx, &goal.CreateGoalRequest{Title: "earlier", Date: "2025-03-10", Color: "#abc", UserID: owner})
	require.NoError(t, err)

	goals, err := svc.ListGoals(ctx, owner)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, earlier.ID, goals[0].ID)
	assert.Equal(t, later.ID, goals[1].ID)
	assert.Nil(t, goals[1].Color)

	toggled, err := svc.ToggleGoal(ctx, later.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	toggled, err = svc.ToggleGoal(ctx, later.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)

	_, err = svc.ToggleGoal(ctx, -1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.CreateGoal(ctx, &goal.CreateGoalRequest{Title: "x", Date: "2025-03-10", UserID: 1 << 40})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
