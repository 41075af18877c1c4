package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyHubAPI/internal/apperr"
	"studyHubAPI/internal/focus"
)

type FocusService struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewFocusService(db *pgxpool.Pool) *FocusService {
	return &FocusService{db: db, now: utcNow}
}

const sessionColumns = `id, user_id, title, duration_min, elapsed_sec, pauses_count, did_pause,
	status, started_at, completed_at, updated_at, plant_growth`

func (s *FocusService) CreateSession(ctx context.Context, req *focus.CreateSessionRequest) (*focus.Session, error) {
	sess, err := focus.NewSession(req.Title, req.DurationMin, req.UserID, s.now())
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRow(ctx, `
	INSERT INTO focus_sessions (user_id, title, duration_min, status, updated_at)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id
	`, sess.UserID, sess.Title, sess.DurationMin, string(sess.Status), sess.UpdatedAt).Scan(&sess.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create focus session: %w", err)
	}
	return sess, nil
}

// ListSessions returns the newest sessions first; never-started ones go last.
func (s *FocusService) ListSessions(ctx context.Context, userID *int64) ([]*focus.Session, error) {
	return querySessions(ctx, s.db, `
	SELECT `+sessionColumns+`
	FROM focus_sessions
	WHERE ($1::BIGINT IS NULL OR user_id = $1)
	ORDER BY started_at DESC NULLS LAST, id DESC
	`, userID)
}

func (s *FocusService) Start(ctx context.Context, id int64) (*focus.Session, error) {
	return s.transition(ctx, id, func(sess *focus.Session, now time.Time) error {
		return sess.Start(now)
	})
}

func (s *FocusService) Pause(ctx context.Context, id int64, elapsedSec float64) (*focus.Session, error) {
	return s.transition(ctx, id, func(sess *focus.Session, now time.Time) error {
		return sess.Pause(elapsedSec, now)
	})
}

func (s *FocusService) Resume(ctx context.Context, id int64) (*focus.Session, error) {
	return s.transition(ctx, id, func(sess *focus.Session, now time.Time) error {
		return sess.Resume(now)
	})
}

func (s *FocusService) Complete(ctx context.Context, id int64, elapsedSec float64) (*focus.Session, error) {
	sess, err := s.transition(ctx, id, func(sess *focus.Session, now time.Time) error {
		return sess.Complete(elapsedSec, now)
	})
	if err != nil {
		return nil, err
	}
	plantGrowth.Observe(sess.PlantGrowth)
	log.Printf("Focus: session %d completed, elapsed %.0fs, growth %.2f", sess.ID, sess.ElapsedSec, sess.PlantGrowth)
	return sess, nil
}

func (s *FocusService) Cancel(ctx context.Context, id int64) (*focus.Session, error) {
	return s.transition(ctx, id, func(sess *focus.Session, now time.Time) error {
		return sess.Cancel(now)
	})
}

// Summary aggregates the sessions started on day (YYYY-MM-DD, UTC; blank means today).
func (s *FocusService) Summary(ctx context.Context, userID *int64, day string) (*focus.Summary, error) {
	label, start, end, err := focus.DayBounds(day, s.now())
	if err != nil {
		return nil, err
	}
	sessions, err := querySessions(ctx, s.db, `
	SELECT `+sessionColumns+`
	FROM focus_sessions
	WHERE started_at >= $2 AND started_at <= $3
	  AND ($1::BIGINT IS NULL OR user_id = $1)
	ORDER BY id
	`, userID, start, end)
	if err != nil {
		return nil, err
	}
	summary := focus.Summarize(label, sessions)
	return &summary, nil
}

func (s *FocusService) Status(ctx context.Context, userID *int64) (*focus.ActiveStatus, error) {
	sessions, err := querySessions(ctx, s.db, `
	SELECT `+sessionColumns+`
	FROM focus_sessions
	WHERE status = $2 AND ($1::BIGINT IS NULL OR user_id = $1)
	ORDER BY id
	LIMIT 1
	`, userID, string(focus.StatusRunning))
	if err != nil {
		return nil, err
	}
	status := focus.StatusOf(sessions)
	return &status, nil
}

func (s *FocusService) transition(ctx context.Context, id int64, fn func(*focus.Session, time.Time) error) (*focus.Session, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	sess, err := scanSession(tx.QueryRow(ctx, `SELECT `+sessionColumns+` FROM focus_sessions WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}
	if err := fn(sess, s.now()); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
	UPDATE focus_sessions
	SET elapsed_sec = $2, pauses_count = $3, did_pause = $4, status = $5,
		started_at = $6, completed_at = $7, updated_at = $8, plant_growth = $9
	WHERE id = $1
	`, sess.ID, sess.ElapsedSec, sess.PausesCount, sess.DidPause, string(sess.Status),
		sess.StartedAt, sess.CompletedAt, sess.UpdatedAt, sess.PlantGrowth)
	if err != nil {
		return nil, fmt.Errorf("failed to update focus session: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit focus session: %w", err)
	}

	focusTransitions.WithLabelValues(string(sess.Status)).Inc()
	return sess, nil
}

func scanSession(row rowScanner) (*focus.Session, error) {
	sess := &focus.Session{}
	var status string
	err := row.Scan(&sess.ID, &sess.UserID, &sess.Title, &sess.DurationMin, &sess.ElapsedSec,
		&sess.PausesCount, &sess.DidPause, &status, &sess.StartedAt, &sess.CompletedAt,
		&sess.UpdatedAt, &sess.PlantGrowth)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Session not found")
		}
		return nil, fmt.Errorf("failed to scan focus session: %w", err)
	}
	sess.Status = focus.Status(status)
	return sess, nil
}

func querySessions(ctx context.Context, q querier, query string, args ...any) ([]*focus.Session, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query focus sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*focus.Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}
