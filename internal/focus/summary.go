package focus

import (
	"time"

	"studyHubAPI/internal/apperr"
)

const DayLayout = "2006-01-02"

// DayBounds returns the inclusive UTC window of the given YYYY-MM-DD day, or of
// today's date when day is blank.
func DayBounds(day string, now time.Time) (label string, start, end time.Time, err error) {
	var d time.Time
	if day == "" {
		y, m, dd := now.UTC().Date()
		d = time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
	} else {
		d, err = time.Parse(DayLayout, day)
		if err != nil {
			return "", time.Time{}, time.Time{}, apperr.Validation("day must be in YYYY-MM-DD format")
		}
	}
	end = d.Add(24*time.Hour - time.Microsecond)
	return d.Format(DayLayout), d, end, nil
}

// Summarize aggregates the sessions that started inside one day.
func Summarize(label string, sessions []*Session) Summary {
	out := Summary{Date: label}

	var growthSum float64
	completed := 0
	var latest *Session
	for _, s := range sessions {
		out.TotalElapsedSec += s.ElapsedSec
		switch s.Status {
		case StatusCompleted:
			growthSum += s.PlantGrowth
			completed++
		case StatusRunning:
			if latest == nil || !lastTouched(s).Before(lastTouched(latest)) {
				latest = s
			}
		}
	}

	if completed > 0 {
		out.DailyPlantGrowth = growthSum / float64(completed)
	}
	if latest != nil {
		remaining := latest.Remaining()
		out.ActiveTimer = &remaining
	}
	return out
}

// StatusOf reports the first running session, if any.
func StatusOf(sessions []*Session) ActiveStatus {
	for _, s := range sessions {
		if s.Status == StatusRunning {
			remaining := s.Remaining()
			return ActiveStatus{Active: true, Remaining: &remaining}
		}
	}
	return ActiveStatus{Active: false}
}

func lastTouched(s *Session) time.Time {
	if !s.UpdatedAt.IsZero() {
		return s.UpdatedAt
	}
	if s.StartedAt != nil {
		return *s.StartedAt
	}
	return time.Time{}
}
