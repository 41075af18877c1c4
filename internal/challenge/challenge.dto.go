package challenge

import (
	"bytes"
	"encoding/json"
	"errors"
)

// TaskInput accepts either a bare title or an object with a title, which is how
// clients have sent task lists over time. Other object fields are ignored; a task's
// done flag is always derived from participant progress.
type TaskInput struct {
	Title string `json:"title"`
}

func (t *TaskInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &t.Title)
	}
	if len(data) > 0 && data[0] == '{' {
		type plain TaskInput
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*t = TaskInput(p)
		return nil
	}
	return errors.New("task must be a string or an object with a title")
}

func Titles(tasks []TaskInput) []string {
	titles := make([]string, len(tasks))
	for i, t := range tasks {
		titles[i] = t.Title
	}
	return titles
}

type CreateChallengeRequest struct {
	Title           string      `json:"title" validate:"required"`
	Description     string      `json:"description"`
	Level           string      `json:"level"`
	CreatorName     string      `json:"creator_name"`
	CreatorID       int64       `json:"creator_id" validate:"required,gt=0"`
	StartDate       string      `json:"start_date"`
	EndDate         string      `json:"end_date"`
	MaxParticipants int         `json:"max_participants" validate:"gte=0"`
	Tasks           []TaskInput `json:"tasks"`
}

// UpdateChallengeRequest leaves Tasks nil when the client did not send a task list;
// an explicit empty list clears the tasks.
type UpdateChallengeRequest struct {
	Title           string       `json:"title" validate:"required"`
	Description     string       `json:"description"`
	Level           string       `json:"level"`
	StartDate       string       `json:"start_date"`
	EndDate         string       `json:"end_date"`
	MaxParticipants int          `json:"max_participants" validate:"gte=0"`
	Tasks           *[]TaskInput `json:"tasks"`
}

// ReplaceTasksRequest is the body of the task-only edit. A bare JSON array is
// accepted as well as {"tasks": [...]}. Tasks stays nil when no list was sent, and
// that is rejected: only an explicit [] clears the tasks.
type ReplaceTasksRequest struct {
	Tasks *[]TaskInput `json:"tasks" validate:"required"`
}

func (r *ReplaceTasksRequest) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &r.Tasks)
	}
	type plain ReplaceTasksRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = ReplaceTasksRequest(p)
	return nil
}

type CommentRequest struct {
	Content string `json:"content"`
}

// ToParams parses the request dates. creatorName overrides the request's when set.
func (r *CreateChallengeRequest) ToParams() (NewParams, error) {
	start, err := ParseDate("start_date", r.StartDate)
	if err != nil {
		return NewParams{}, err
	}
	end, err := ParseDate("end_date", r.EndDate)
	if err != nil {
		return NewParams{}, err
	}
	return NewParams{
		Title:           r.Title,
		Description:     r.Description,
		Level:           r.Level,
		CreatorName:     r.CreatorName,
		CreatorID:       r.CreatorID,
		StartDate:       start,
		EndDate:         end,
		MaxParticipants: r.MaxParticipants,
		TaskTitles:      Titles(r.Tasks),
	}, nil
}

func (r *UpdateChallengeRequest) ToParams() (UpdateParams, error) {
	start, err := ParseDate("start_date", r.StartDate)
	if err != nil {
		return UpdateParams{}, err
	}
	end, err := ParseDate("end_date", r.EndDate)
	if err != nil {
		return UpdateParams{}, err
	}
	p := UpdateParams{
		Title:           r.Title,
		Description:     r.Description,
		Level:           r.Level,
		StartDate:       start,
		EndDate:         end,
		MaxParticipants: r.MaxParticipants,
	}
	if r.Tasks != nil {
		p.ReplaceTasks = true
		p.TaskTitles = Titles(*r.Tasks)
	}
	return p, nil
}
