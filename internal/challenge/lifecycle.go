package challenge

import (
	"slices"
	"sort"
	"strings"
	"time"

	"studyHubAPI/internal/apperr"
)

// New builds a challenge with the creator enrolled and every row initialized.
func New(p NewParams) (*Challenge, error) {
	if strings.TrimSpace(p.Title) == "" {
		return nil, apperr.Validation("title is required")
	}
	if p.CreatorID <= 0 {
		return nil, apperr.Validation("creator_id is required")
	}
	maxParticipants := p.MaxParticipants
	if maxParticipants == 0 {
		maxParticipants = DefaultMaxParticipants
	}
	if maxParticipants < 1 {
		return nil, apperr.Validation("max_participants must be at least 1")
	}
	if err := checkDateOrder(p.StartDate, p.EndDate); err != nil {
		return nil, err
	}

	c := &Challenge{
		Title:           strings.TrimSpace(p.Title),
		Description:     p.Description,
		Level:           p.Level,
		CreatorName:     p.CreatorName,
		CreatorID:       p.CreatorID,
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		MaxParticipants: maxParticipants,
		Participants:    []int64{p.CreatorID},
		Tasks:           BuildTasks(p.TaskTitles),
		Progress:        map[int64][]bool{},
	}
	c.Progress[p.CreatorID] = emptyRow(len(c.Tasks))
	c.Recompute()
	return c, nil
}

// BuildTasks trims titles and drops the blank ones.
func BuildTasks(titles []string) []Task {
	tasks := make([]Task, 0, len(titles))
	for _, t := range titles {
		if title := strings.TrimSpace(t); title != "" {
			tasks = append(tasks, Task{Title: title})
		}
	}
	return tasks
}

// DateOf truncates t to its UTC calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (c *Challenge) HasEnded(today time.Time) bool {
	return c.EndDate != nil && DateOf(today).After(DateOf(*c.EndDate))
}

func (c *Challenge) Status(today time.Time) string {
	day := DateOf(today)
	switch {
	case c.StartDate != nil && day.Before(DateOf(*c.StartDate)):
		return StatusUpcoming
	case c.HasEnded(today):
		return StatusEnded
	default:
		return StatusActive
	}
}

func (c *Challenge) IsParticipant(userID int64) bool {
	return slices.Contains(c.Participants, userID)
}

func (c *Challenge) IsFull() bool {
	return len(c.Participants) >= c.MaxParticipants
}

func (c *Challenge) Join(userID int64, today time.Time) error {
	if c.HasEnded(today) {
		return apperr.Conflict("challenge has already ended")
	}
	if c.IsParticipant(userID) {
		return apperr.Conflict("user already joined this challenge")
	}
	if c.IsFull() {
		return apperr.Conflict("this challenge is already full")
	}
	c.Participants = append(c.Participants, userID)
	c.Progress[userID] = emptyRow(len(c.Tasks))
	c.Recompute()
	return nil
}

func (c *Challenge) Leave(userID int64) error {
	idx := slices.Index(c.Participants, userID)
	if idx < 0 {
		return apperr.Conflict("user has not joined this challenge")
	}
	c.Participants = slices.Delete(c.Participants, idx, idx+1)
	delete(c.Progress, userID)
	c.Recompute()
	return nil
}

// AdoptParticipants installs members read from the legacy participant column, each with
// a fresh progress row. Ids already present are skipped and adoption stops once the
// challenge is full. It returns the ids that were added.
func (c *Challenge) AdoptParticipants(ids []int64) []int64 {
	added := []int64{}
	for _, id := range ids {
		if c.IsFull() {
			break
		}
		if c.IsParticipant(id) {
			continue
		}
		c.Participants = append(c.Participants, id)
		c.Progress[id] = emptyRow(len(c.Tasks))
		added = append(added, id)
	}
	c.Recompute()
	return added
}

// TaskIndex resolves a task id to its position in the task list.
func (c *Challenge) TaskIndex(taskID int64) (int, bool) {
	for i, t := range c.Tasks {
		if t.ID == taskID {
			return i, true
		}
	}
	return 0, false
}

// ToggleTask flips one marker of userID's row and returns the user's new percentage.
// A missing or mis-sized row is reset to all-incomplete before the flip.
func (c *Challenge) ToggleTask(userID int64, index int, today time.Time) (float64, error) {
	if !c.IsParticipant(userID) {
		return 0, apperr.Forbidden("user is not a participant of this challenge")
	}
	if c.HasEnded(today) {
		return 0, apperr.Conflict("challenge has already ended")
	}
	if index < 0 || index >= len(c.Tasks) {
		return 0, apperr.Newf(apperr.ErrValidation, "invalid task index %d", index)
	}

	row, ok := c.Progress[userID]
	if !ok || len(row) != len(c.Tasks) {
		row = emptyRow(len(c.Tasks))
	}
	row[index] = !row[index]
	c.Progress[userID] = row
	c.Recompute()

	pct, _ := UserPercentage(row)
	return pct, nil
}

// Update overwrites the scalar fields and, when asked, swaps the task list.
func (c *Challenge) Update(p UpdateParams, today time.Time) error {
	if c.HasEnded(today) {
		return apperr.Conflict("challenge has already ended")
	}
	if strings.TrimSpace(p.Title) == "" {
		return apperr.Validation("title is required")
	}
	maxParticipants := p.MaxParticipants
	if maxParticipants == 0 {
		maxParticipants = c.MaxParticipants
	}
	if maxParticipants < 1 {
		return apperr.Validation("max_participants must be at least 1")
	}
	if maxParticipants < len(c.Participants) {
		return apperr.Newf(apperr.ErrConflict,
			"max_participants (%d) cannot be lower than the current participant count (%d)",
			maxParticipants, len(c.Participants))
	}
	if err := checkDateOrder(p.StartDate, p.EndDate); err != nil {
		return err
	}

	c.Title = strings.TrimSpace(p.Title)
	c.Description = p.Description
	c.Level = p.Level
	c.StartDate = p.StartDate
	c.EndDate = p.EndDate
	c.MaxParticipants = maxParticipants

	if p.ReplaceTasks {
		c.ReplaceTasks(p.TaskTitles)
	}
	return nil
}

// ReplaceTasks discards the old tasks and resets every participant's row: old
// indices mean nothing against the new list.
func (c *Challenge) ReplaceTasks(titles []string) {
	c.Tasks = BuildTasks(titles)
	for _, id := range c.Participants {
		c.Progress[id] = emptyRow(len(c.Tasks))
	}
	c.Recompute()
}

func (c *Challenge) CheckDelete(userID int64, today time.Time) error {
	if userID != c.CreatorID {
		return apperr.Forbidden("only the creator can delete this challenge")
	}
	if c.HasEnded(today) {
		return apperr.Conflict("an ended challenge cannot be deleted")
	}
	return nil
}

// Recompute refreshes the cached group progress and the per-task done flags.
// A task counts as done once every participant has completed it.
func (c *Challenge) Recompute() {
	if c.Progress == nil {
		c.Progress = map[int64][]bool{}
	}
	c.GroupProgress = GroupProgress(c.Progress)

	for i := range c.Tasks {
		done := len(c.Participants) > 0
		for _, id := range c.Participants {
			row := c.Progress[id]
			if len(row) != len(c.Tasks) || !row[i] {
				done = false
				break
			}
		}
		c.Tasks[i].Done = done
	}
}

// Leaderboard ranks participants by completion, keeping join order on ties.
func (c *Challenge) Leaderboard(names map[int64]string) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(c.Participants))
	for _, id := range c.Participants {
		entries = append(entries, LeaderboardEntry{
			ID:       id,
			Name:     names[id],
			Progress: LeaderboardPercentage(c.Progress[id], len(c.Tasks)),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Progress > entries[j].Progress
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

func (c *Challenge) CheckComment(userID int64, content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", apperr.Validation("comment content cannot be empty")
	}
	if !c.IsParticipant(userID) {
		return "", apperr.Forbidden("only participants can comment on this challenge")
	}
	return trimmed, nil
}

func CheckCommentEdit(comment *Comment, userID int64, content string) (string, error) {
	if comment.UserID != userID {
		return "", apperr.Forbidden("only the author can edit this comment")
	}
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", apperr.Validation("comment content cannot be empty")
	}
	return trimmed, nil
}

func (c *Challenge) CheckCommentDelete(comment *Comment, userID int64) error {
	if comment.UserID != userID && c.CreatorID != userID {
		return apperr.Forbidden("only the author or the challenge creator can delete this comment")
	}
	return nil
}

func checkDateOrder(start, end *time.Time) error {
	if start != nil && end != nil && DateOf(*end).Before(DateOf(*start)) {
		return apperr.Validation("end_date cannot be before start_date")
	}
	return nil
}
