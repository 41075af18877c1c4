package goal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyHubAPI/internal/apperr"
)

func TestNew(t *testing.T) {
	g, err := New(CreateGoalRequest{Title: " Revise ", Date: "2025-03-10", Color: "#ffb", UserID: 4})
	require.NoError(t, err)
	assert.Equal(t, "Revise", g.Title)
	assert.False(t, g.Completed)
	require.NotNil(t, g.Color)
	assert.Equal(t, "#ffb", *g.Color)

	g, err = New(CreateGoalRequest{Title: "x", Date: "2025-03-10", UserID: 4})
	require.NoError(t, err)
	assert.Nil(t, g.Color)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  CreateGoalRequest
	}{
		{"blank title", CreateGoalRequest{Title: " ", Date: "2025-03-10", UserID: 1}},
		{"bad date", CreateGoalRequest{Title: "x", Date: "10/03/2025", UserID: 1}},
		{"missing user", CreateGoalRequest{Title: "x", Date: "2025-03-10"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.req)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}
