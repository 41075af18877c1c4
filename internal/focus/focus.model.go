package focus

import "time"

type Status string

const (
	StatusCreated   Status = "created"
	StatusRunning   Status = "running"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

const (
	MinDurationMin = 1
	MaxDurationMin = 600
)

// Session is one focus timer. ElapsedSec is reported by the client and clamped to
// the planned duration; PlantGrowth is fixed once the session completes.
type Session struct {
	ID          int64      `json:"id" db:"id"`
	UserID      *int64     `json:"user_id" db:"user_id"`
	Title       string     `json:"title" db:"title"`
	DurationMin int        `json:"duration_min" db:"duration_min"`
	ElapsedSec  float64    `json:"elapsed_sec" db:"elapsed_sec"`
	PausesCount int        `json:"pauses_count" db:"pauses_count"`
	DidPause    bool       `json:"did_pause" db:"did_pause"`
	Status      Status     `json:"status" db:"status"`
	StartedAt   *time.Time `json:"started_at" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	PlantGrowth float64    `json:"plant_growth" db:"plant_growth"`
}

type Summary struct {
	Date             string  `json:"date"`
	TotalElapsedSec  float64 `json:"total_elapsed_sec"`
	ActiveTimer      *int    `json:"active_timer"`
	DailyPlantGrowth float64 `json:"daily_plant_growth"`
}

type ActiveStatus struct {
	Active    bool `json:"active"`
	Remaining *int `json:"remaining,omitempty"`
}
