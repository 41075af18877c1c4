package goal

type CreateGoalRequest struct {
	Title     string `json:"title" validate:"required"`
	Completed bool   `json:"completed"`
	Date      string `json:"date" validate:"required"`
	Color     string `json:"color,omitempty"`
	UserID    int64  `json:"user_id" validate:"required,gt=0"`
}
