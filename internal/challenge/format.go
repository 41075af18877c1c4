package challenge

import (
	"strconv"
	"strings"
	"time"

	"studyHubAPI/internal/apperr"
)

const DateLayout = "2006-01-02"

// View is the API shape of a challenge as seen by one (possibly anonymous) viewer.
type View struct {
	ID                int64             `json:"id"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	Level             string            `json:"level"`
	CreatorName       string            `json:"creator_name"`
	CreatorID         int64             `json:"creator_id"`
	StartDate         *string           `json:"start_date"`
	EndDate           *string           `json:"end_date"`
	MaxParticipants   int               `json:"max_participants"`
	Participants      []int64           `json:"participants"`
	ParticipantsCount int               `json:"participants_count"`
	Tasks             []Task            `json:"tasks"`
	Progress          map[string][]bool `json:"progress"`
	GroupProgress     float64           `json:"group_progress"`
	Status            string            `json:"status"`
	IsCreator         bool              `json:"is_creator"`
	IsJoined          bool              `json:"is_joined"`
	UserProgress      *float64          `json:"user_progress"`
	CreatedAt         time.Time         `json:"created_at"`
}

// Format projects c for viewerID. It never mutates c.
func Format(c *Challenge, viewerID *int64, today time.Time) View {
	participants := make([]int64, len(c.Participants))
	copy(participants, c.Participants)

	tasks := make([]Task, len(c.Tasks))
	copy(tasks, c.Tasks)

	progress := make(map[string][]bool, len(c.Progress))
	for id, row := range c.Progress {
		cp := make([]bool, len(row))
		copy(cp, row)
		progress[strconv.FormatInt(id, 10)] = cp
	}

	v := View{
		ID:                c.ID,
		Title:             c.Title,
		Description:       c.Description,
		Level:             c.Level,
		CreatorName:       c.CreatorName,
		CreatorID:         c.CreatorID,
		StartDate:         formatDate(c.StartDate),
		EndDate:           formatDate(c.EndDate),
		MaxParticipants:   c.MaxParticipants,
		Participants:      participants,
		ParticipantsCount: len(participants),
		Tasks:             tasks,
		Progress:          progress,
		GroupProgress:     c.GroupProgress,
		Status:            c.Status(today),
		CreatedAt:         c.CreatedAt,
	}

	if viewerID != nil {
		v.IsCreator = *viewerID == c.CreatorID
		v.IsJoined = c.IsParticipant(*viewerID)
		if v.IsJoined {
			pct := LeaderboardPercentage(c.Progress[*viewerID], len(c.Tasks))
			v.UserProgress = &pct
		}
	}
	return v
}

// ParseDate reads an optional YYYY-MM-DD value. Blank input means no date.
func ParseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, apperr.Newf(apperr.ErrValidation, "%s must be a date in YYYY-MM-DD format", field)
	}
	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(DateLayout)
	return &s
}
