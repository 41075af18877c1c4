package focus

type CreateSessionRequest struct {
	Title       string `json:"title" validate:"required"`
	DurationMin int    `json:"duration_min" validate:"required,min=1,max=600"`
	UserID      *int64 `json:"user_id,omitempty"`
}

// TickRequest carries the client's stopwatch reading on pause and complete. Out of range
// values are clamped, not rejected.
type TickRequest struct {
	ElapsedSec float64 `json:"elapsed_sec"`
}
