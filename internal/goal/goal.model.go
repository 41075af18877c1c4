package goal

import (
	"strings"
	"time"

	"studyHubAPI/internal/apperr"
)

const DateLayout = "2006-01-02"

type Goal struct {
	ID        int64   `json:"id" db:"id"`
	Title     string  `json:"title" db:"title"`
	Completed bool    `json:"completed" db:"completed"`
	Date      string  `json:"date" db:"date"`
	Color     *string `json:"color" db:"color"`
	UserID    int64   `json:"user_id" db:"user_id"`
}

// New validates a create request and returns the goal to insert.
func New(req CreateGoalRequest) (*Goal, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	if req.UserID <= 0 {
		return nil, apperr.Validation("user_id is required")
	}
	date := strings.TrimSpace(req.Date)
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, apperr.Validation("date must be in YYYY-MM-DD format")
	}

	var color *string
	if c := strings.TrimSpace(req.Color); c != "" {
		color = &c
	}
	return &Goal{
		Title:     title,
		Completed: req.Completed,
		Date:      date,
		Color:     color,
		UserID:    req.UserID,
	}, nil
}
