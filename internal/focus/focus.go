package focus

import (
	"math"
	"strings"
	"time"

	"studyHubAPI/internal/apperr"
)

// NewSession validates the inputs and returns a session in the created state.
func NewSession(title string, durationMin int, userID *int64, now time.Time) (*Session, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	if durationMin < MinDurationMin || durationMin > MaxDurationMin {
		return nil, apperr.Newf(apperr.ErrValidation,
			"duration_min must be between %d and %d", MinDurationMin, MaxDurationMin)
	}
	return &Session{
		UserID:      userID,
		Title:       title,
		DurationMin: durationMin,
		Status:      StatusCreated,
		UpdatedAt:   now,
	}, nil
}

func (s *Session) RequiredSec() float64 {
	return float64(s.DurationMin * 60)
}

// Remaining is the whole number of seconds left on the timer.
func (s *Session) Remaining() int {
	return int(math.Max(0, s.RequiredSec()-s.ElapsedSec))
}

func (s *Session) IsTerminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusCanceled
}

func (s *Session) Start(now time.Time) error {
	if s.Status != StatusCreated && s.Status != StatusPaused {
		return apperr.Newf(apperr.ErrConflict, "cannot start from status %s", s.Status)
	}
	if s.Status == StatusCreated {
		t := now
		s.StartedAt = &t
	}
	s.Status = StatusRunning
	s.UpdatedAt = now
	return nil
}

func (s *Session) Pause(elapsedSec float64, now time.Time) error {
	if s.Status != StatusRunning {
		return apperr.Conflict("only running sessions can be paused")
	}
	s.ElapsedSec = Clamp(elapsedSec, 0, s.RequiredSec())
	s.PausesCount++
	s.DidPause = true
	s.Status = StatusPaused
	s.UpdatedAt = now
	return nil
}

func (s *Session) Resume(now time.Time) error {
	if s.Status != StatusPaused {
		return apperr.Conflict("only paused sessions can be resumed")
	}
	s.Status = StatusRunning
	s.UpdatedAt = now
	return nil
}

func (s *Session) Complete(elapsedSec float64, now time.Time) error {
	if s.Status != StatusRunning && s.Status != StatusPaused {
		return apperr.Conflict("only running or paused sessions can be completed")
	}
	s.ElapsedSec = Clamp(elapsedSec, 0, s.RequiredSec())
	s.Status = StatusCompleted
	t := now
	s.CompletedAt = &t
	s.UpdatedAt = now
	s.PlantGrowth = ComputeGrowth(s.DurationMin, s.ElapsedSec, s.DidPause)
	return nil
}

func (s *Session) Cancel(now time.Time) error {
	if s.IsTerminal() {
		return apperr.Newf(apperr.ErrConflict, "cannot cancel from status %s", s.Status)
	}
	s.Status = StatusCanceled
	s.PlantGrowth = 0
	s.UpdatedAt = now
	return nil
}

// ComputeGrowth scores a completed session on four tiers. Sessions below 70% of the
// planned time (with half a second of slack) count as abandoned.
func ComputeGrowth(durationMin int, elapsedSec float64, didPause bool) float64 {
	required := float64(durationMin * 60)
	switch {
	case elapsedSec+0.5 < required*0.7:
		return 0
	case !didPause:
		return 1.0
	case elapsedSec >= required*0.9:
		return 0.66
	case elapsedSec >= required*0.6:
		return 0.33
	default:
		return 0
	}
}

func Clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
