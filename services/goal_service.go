package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyHubAPI/internal/apperr"
	"studyHubAPI/internal/goal"
)

type GoalService struct {
	db *pgxpool.Pool
}

func NewGoalService(db *pgxpool.Pool) *GoalService {
	return &GoalService{db: db}
}

func (s *GoalService) CreateGoal(ctx context.Context, req *goal.CreateGoalRequest) (*goal.Goal, error) {
	g, err := goal.New(*req)
	if err != nil {
		return nil, err
	}
	if _, err := getUser(ctx, s.db, g.UserID); err != nil {
		return nil, err
	}

	err = s.db.QueryRow(ctx, `
	INSERT INTO goals (title, completed, date, color, user_id)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id
	`, g.Title, g.Completed, g.Date, g.Color, g.UserID).Scan(&g.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	return g, nil
}

func (s *GoalService) ListGoals(ctx context.Context, userID int64) ([]goal.Goal, error) {
	rows, err := s.db.Query(ctx, `
	SELECT id, title, completed, date, color, user_id
	FROM goals
	WHERE user_id = $1
	ORDER BY date ASC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	goals := []goal.Goal{}
	for rows.Next() {
		var g goal.Goal
		if err := rows.Scan(&g.ID, &g.Title, &g.Completed, &g.Date, &g.Color, &g.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// ToggleGoal flips the completed flag in one statement.
func (s *GoalService) ToggleGoal(ctx context.Context, id int64) (*goal.Goal, error) {
	var g goal.Goal
	err := s.db.QueryRow(ctx, `
	UPDATE goals SET completed = NOT completed
	WHERE id = $1
	RETURNING id, title, completed, date, color, user_id
	`, id).Scan(&g.ID, &g.Title, &g.Completed, &g.Date, &g.Color, &g.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Goal not found")
		}
		return nil, fmt.Errorf("failed to toggle goal: %w", err)
	}
	return &g, nil
}
