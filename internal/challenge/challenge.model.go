package challenge

import (
	"time"
)

const DefaultMaxParticipants = 10

const (
	StatusUpcoming = "Upcoming"
	StatusActive   = "Active"
	StatusEnded    = "Ended"
)

type Task struct {
	ID    int64  `json:"id" db:"id"`
	Title string `json:"title" db:"title"`
	Done  bool   `json:"done" db:"done"`
}

// Challenge is a shared, time-boxed checklist. Participants and the keys of Progress
// always hold the same set of user ids; GroupProgress caches the aggregate of Progress.
type Challenge struct {
	ID              int64            `json:"id" db:"id"`
	Title           string           `json:"title" db:"title"`
	Description     string           `json:"description" db:"description"`
	Level           string           `json:"level" db:"level"`
	CreatorName     string           `json:"creator_name" db:"creator_name"`
	CreatorID       int64            `json:"creator_id" db:"creator_id"`
	StartDate       *time.Time       `json:"start_date" db:"start_date"`
	EndDate         *time.Time       `json:"end_date" db:"end_date"`
	MaxParticipants int              `json:"max_participants" db:"max_participants"`
	Participants    []int64          `json:"participants"`
	Tasks           []Task           `json:"tasks"`
	Progress        map[int64][]bool `json:"progress"`
	GroupProgress   float64          `json:"group_progress" db:"group_progress"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
}

type Comment struct {
	ID          int64     `json:"id" db:"id"`
	ChallengeID int64     `json:"challenge_id" db:"challenge_id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	UserName    string    `json:"user_name" db:"user_name"`
	Content     string    `json:"content" db:"content"`
	Timestamp   time.Time `json:"timestamp" db:"timestamp"`
}

type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Progress float64 `json:"progress"`
}

// NewParams are the already-parsed inputs of New.
type NewParams struct {
	Title           string
	Description     string
	Level           string
	CreatorName     string
	CreatorID       int64
	StartDate       *time.Time
	EndDate         *time.Time
	MaxParticipants int
	TaskTitles      []string
}

// UpdateParams replace the challenge's scalar fields. TaskTitles is only applied when
// ReplaceTasks is set.
type UpdateParams struct {
	Title           string
	Description     string
	Level           string
	StartDate       *time.Time
	EndDate         *time.Time
	MaxParticipants int
	ReplaceTasks    bool
	TaskTitles      []string
}
