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
	"studyHubAPI/internal/cache"
	"studyHubAPI/internal/challenge"
)

type ChallengeService struct {
	db    *pgxpool.Pool
	cache *cache.LeaderboardCache
	now   func() time.Time
}

// NewChallengeService builds the service. lc may be nil, which disables leaderboard caching.
func NewChallengeService(db *pgxpool.Pool, lc *cache.LeaderboardCache) *ChallengeService {
	return &ChallengeService{db: db, cache: lc, now: utcNow}
}

// Today is the date used for ended/upcoming checks and for projections.
func (s *ChallengeService) Today() time.Time {
	return challenge.DateOf(s.now())
}

// TaskRef picks a task either by its id or by its position.
type TaskRef struct {
	ID    *int64
	Index *int
}

const challengeColumns = `id, title, description, level, creator_name, creator_id,
	start_date, end_date, max_participants, group_progress, created_at`

func (s *ChallengeService) CreateChallenge(ctx context.Context, p challenge.NewParams) (*challenge.Challenge, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	creator, err := getUser(ctx, tx, p.CreatorID)
	if err != nil {
		return nil, err
	}
	if p.CreatorName == "" {
		p.CreatorName = creator.Name
	}

	c, err := challenge.New(p)
	if err != nil {
		return nil, err
	}

	err = tx.QueryRow(ctx, `
	INSERT INTO challenges (title, description, level, creator_name, creator_id,
		start_date, end_date, max_participants, group_progress)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id, created_at
	`, c.Title, c.Description, c.Level, c.CreatorName, c.CreatorID,
		c.StartDate, c.EndDate, c.MaxParticipants, c.GroupProgress).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	if err := insertTasks(ctx, tx, c); err != nil {
		return nil, err
	}
	if err := insertParticipant(ctx, tx, c.ID, c.CreatorID, c.Progress[c.CreatorID]); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit challenge: %w", err)
	}

	challengeEvents.WithLabelValues("create").Inc()
	log.Printf("CreateChallenge: challenge %d created by user %d with %d tasks", c.ID, c.CreatorID, len(c.Tasks))
	return c, nil
}

func (s *ChallengeService) GetChallenge(ctx context.Context, id int64) (*challenge.Challenge, error) {
	return loadChallenge(ctx, s.db, id, false)
}

// ListChallenges loads every challenge with three queries instead of one per challenge.
// The queries share one read-only snapshot so tasks and progress rows always agree.
func (s *ChallengeService) ListChallenges(ctx context.Context) ([]*challenge.Challenge, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `SELECT `+challengeColumns+` FROM challenges ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	defer rows.Close()

	list := []*challenge.Challenge{}
	byID := map[int64]*challenge.Challenge{}
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	if len(list) == 0 {
		return list, nil
	}

	taskRows, err := tx.Query(ctx, `
	SELECT challenge_id, id, title, done
	FROM challenge_tasks
	ORDER BY challenge_id, position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer taskRows.Close()
	for taskRows.Next() {
		var challengeID int64
		var t challenge.Task
		if err := taskRows.Scan(&challengeID, &t.ID, &t.Title, &t.Done); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		if c, ok := byID[challengeID]; ok {
			c.Tasks = append(c.Tasks, t)
		}
	}
	if err := taskRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	partRows, err := tx.Query(ctx, `
	SELECT challenge_id, user_id, progress
	FROM challenge_participants
	ORDER BY challenge_id, seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer partRows.Close()
	for partRows.Next() {
		var challengeID, userID int64
		var row []bool
		if err := partRows.Scan(&challengeID, &userID, &row); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		if c, ok := byID[challengeID]; ok {
			c.Participants = append(c.Participants, userID)
			c.Progress[userID] = row
		}
	}
	if err := partRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit challenge list: %w", err)
	}
	return list, nil
}

func (s *ChallengeService) JoinChallenge(ctx context.Context, id, userID int64) (*challenge.Challenge, error) {
	return s.mutate(ctx, id, "join", func(tx pgx.Tx, c *challenge.Challenge) error {
		if _, err := getUser(ctx, tx, userID); err != nil {
			return err
		}
		if err := c.Join(userID, s.Today()); err != nil {
			return err
		}
		return insertParticipant(ctx, tx, c.ID, userID, c.Progress[userID])
	})
}

func (s *ChallengeService) LeaveChallenge(ctx context.Context, id, userID int64) (*challenge.Challenge, error) {
	return s.mutate(ctx, id, "leave", func(tx pgx.Tx, c *challenge.Challenge) error {
		if err := c.Leave(userID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM challenge_participants WHERE challenge_id = $1 AND user_id = $2`, c.ID, userID)
		if err != nil {
			return fmt.Errorf("failed to remove participant: %w", err)
		}
		return nil
	})
}

// ToggleTask flips one task for one user and returns the challenge with the user's new percentage.
func (s *ChallengeService) ToggleTask(ctx context.Context, id, userID int64, ref TaskRef) (*challenge.Challenge, float64, error) {
	var pct float64
	c, err := s.mutate(ctx, id, "toggle", func(tx pgx.Tx, c *challenge.Challenge) error {
		index := -1
		switch {
		case ref.ID != nil:
			i, ok := c.TaskIndex(*ref.ID)
			if !ok {
				return apperr.NotFound("Task not found")
			}
			index = i
		case ref.Index != nil:
			index = *ref.Index
		default:
			return apperr.Validation("task_id or task_index is required")
		}

		var err error
		if pct, err = c.ToggleTask(userID, index, s.Today()); err != nil {
			return err
		}
		return writeProgress(ctx, tx, c, userID)
	})
	if err != nil {
		return nil, 0, err
	}
	return c, pct, nil
}

func (s *ChallengeService) UpdateChallenge(ctx context.Context, id int64, p challenge.UpdateParams) (*challenge.Challenge, error) {
	return s.mutate(ctx, id, "update", func(tx pgx.Tx, c *challenge.Challenge) error {
		if err := c.Update(p, s.Today()); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
		UPDATE challenges
		SET title = $2, description = $3, level = $4, start_date = $5, end_date = $6, max_participants = $7
		WHERE id = $1
		`, c.ID, c.Title, c.Description, c.Level, c.StartDate, c.EndDate, c.MaxParticipants)
		if err != nil {
			return fmt.Errorf("failed to update challenge: %w", err)
		}
		if p.ReplaceTasks {
			return rewriteTasks(ctx, tx, c)
		}
		return nil
	})
}

// ReplaceTasks swaps the task list and resets everyone's progress.
func (s *ChallengeService) ReplaceTasks(ctx context.Context, id int64, titles []string) (*challenge.Challenge, error) {
	return s.mutate(ctx, id, "replace_tasks", func(tx pgx.Tx, c *challenge.Challenge) error {
		if c.HasEnded(s.Today()) {
			return apperr.Conflict("challenge has already ended")
		}
		c.ReplaceTasks(titles)
		return rewriteTasks(ctx, tx, c)
	})
}

func (s *ChallengeService) DeleteChallenge(ctx context.Context, id, userID int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	c, err := loadChallenge(ctx, tx, id, true)
	if err != nil {
		return err
	}
	if err := c.CheckDelete(userID, s.Today()); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM challenges WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	s.invalidate(ctx, id)
	challengeEvents.WithLabelValues("delete").Inc()
	log.Printf("DeleteChallenge: challenge %d deleted by user %d", id, userID)
	return nil
}

// Leaderboard is served from the cache when possible and cached after a miss.
func (s *ChallengeService) Leaderboard(ctx context.Context, id int64) ([]challenge.LeaderboardEntry, error) {
	entries, err := s.cache.Get(ctx, id)
	if err == nil {
		leaderboardLookups.WithLabelValues("hit").Inc()
		return entries, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		log.Printf("Leaderboard: cache read failed for challenge %d: %v", id, err)
	}
	leaderboardLookups.WithLabelValues("miss").Inc()

	// The generation is read before the board so a concurrent invalidation wins over our Set.
	gen, genErr := s.cache.Generation(ctx, id)
	if genErr != nil {
		log.Printf("Leaderboard: cache generation read failed for challenge %d: %v", id, genErr)
	}

	c, err := loadChallenge(ctx, s.db, id, false)
	if err != nil {
		return nil, err
	}
	names, err := userNames(ctx, s.db, c.Participants)
	if err != nil {
		return nil, err
	}
	entries = c.Leaderboard(names)

	if genErr == nil {
		if err := s.cache.Set(ctx, id, gen, entries); err != nil {
			log.Printf("Leaderboard: cache write failed for challenge %d: %v", id, err)
		}
	}
	return entries, nil
}

func (s *ChallengeService) ListComments(ctx context.Context, id int64) ([]challenge.Comment, error) {
	if err := challengeExists(ctx, s.db, id); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, `
	SELECT id, challenge_id, user_id, user_name, content, timestamp
	FROM comments
	WHERE challenge_id = $1
	ORDER BY timestamp ASC, id ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []challenge.Comment{}
	for rows.Next() {
		var cm challenge.Comment
		if err := rows.Scan(&cm.ID, &cm.ChallengeID, &cm.UserID, &cm.UserName, &cm.Content, &cm.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, cm)
	}
	return comments, rows.Err()
}

func (s *ChallengeService) AddComment(ctx context.Context, id, userID int64, content string) (*challenge.Comment, error) {
	c, err := loadChallenge(ctx, s.db, id, false)
	if err != nil {
		return nil, err
	}
	author, err := getUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	content, err = c.CheckComment(userID, content)
	if err != nil {
		return nil, err
	}

	cm := &challenge.Comment{ChallengeID: id, UserID: userID, UserName: author.Name, Content: content}
	err = s.db.QueryRow(ctx, `
	INSERT INTO comments (challenge_id, user_id, user_name, content)
	VALUES ($1, $2, $3, $4)
	RETURNING id, timestamp
	`, cm.ChallengeID, cm.UserID, cm.UserName, cm.Content).Scan(&cm.ID, &cm.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	challengeEvents.WithLabelValues("comment").Inc()
	return cm, nil
}

func (s *ChallengeService) UpdateComment(ctx context.Context, id, commentID, userID int64, content string) (*challenge.Comment, error) {
	cm, err := getComment(ctx, s.db, id, commentID)
	if err != nil {
		return nil, err
	}
	content, err = challenge.CheckCommentEdit(cm, userID, content)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.Exec(ctx, `UPDATE comments SET content = $2 WHERE id = $1`, cm.ID, content); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	cm.Content = content
	return cm, nil
}

func (s *ChallengeService) DeleteComment(ctx context.Context, id, commentID, userID int64) error {
	c, err := loadChallenge(ctx, s.db, id, false)
	if err != nil {
		return err
	}
	cm, err := getComment(ctx, s.db, id, commentID)
	if err != nil {
		return err
	}
	if err := c.CheckCommentDelete(cm, userID); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, cm.ID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// ImportLegacyParticipants moves members kept in the old text participants column of
// challenges, when that column exists, into challenge_participants. Only challenges with
// no member rows yet are touched, and ids that match no user are dropped.
func (s *ChallengeService) ImportLegacyParticipants(ctx context.Context) (int, error) {
	var hasColumn bool
	err := s.db.QueryRow(ctx, `
	SELECT EXISTS (
		SELECT 1 FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = 'challenges' AND column_name = 'participants'
	)`).Scan(&hasColumn)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect challenges table: %w", err)
	}
	if !hasColumn {
		return 0, nil
	}

	rows, err := s.db.Query(ctx, `
	SELECT c.id, c.participants::text
	FROM challenges c
	WHERE c.participants IS NOT NULL
	  AND NOT EXISTS (SELECT 1 FROM challenge_participants p WHERE p.challenge_id = c.id)
	ORDER BY c.id
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to read legacy participants: %w", err)
	}
	pending := map[int64][]int64{}
	var order []int64
	for rows.Next() {
		var id int64
		var raw string
		if err := rows.Scan(&id, &raw); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan legacy participants: %w", err)
		}
		if ids := challenge.DecodeParticipants(raw); len(ids) > 0 {
			pending[id] = ids
			order = append(order, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to read legacy participants: %w", err)
	}

	imported := 0
	for _, id := range order {
		_, err := s.mutate(ctx, id, "import", func(tx pgx.Tx, c *challenge.Challenge) error {
			if len(c.Participants) > 0 {
				return nil
			}
			names, err := userNames(ctx, tx, pending[id])
			if err != nil {
				return err
			}
			known := make([]int64, 0, len(pending[id]))
			for _, uid := range pending[id] {
				if _, ok := names[uid]; ok {
					known = append(known, uid)
				}
			}
			for _, uid := range c.AdoptParticipants(known) {
				if err := insertParticipant(ctx, tx, c.ID, uid, c.Progress[uid]); err != nil {
					return err
				}
				imported++
			}
			return nil
		})
		if err != nil {
			return imported, err
		}
	}

	if imported > 0 {
		log.Printf("ImportLegacyParticipants: imported %d members into %d challenges", imported, len(order))
	}
	return imported, nil
}

// mutate runs fn against the locked challenge and persists the derived fields that
// every mutation changes. The row lock serializes concurrent writers on one challenge.
func (s *ChallengeService) mutate(ctx context.Context, id int64, event string, fn func(pgx.Tx, *challenge.Challenge) error) (*challenge.Challenge, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	c, err := loadChallenge(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}
	if err := fn(tx, c); err != nil {
		return nil, err
	}
	if err := writeDerived(ctx, tx, c); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit %s: %w", event, err)
	}

	s.invalidate(ctx, id)
	challengeEvents.WithLabelValues(event).Inc()
	return c, nil
}

func (s *ChallengeService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		log.Printf("ChallengeService: failed to invalidate leaderboard %d: %v", id, err)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChallenge(row rowScanner) (*challenge.Challenge, error) {
	c := &challenge.Challenge{Progress: map[int64][]bool{}}
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Level, &c.CreatorName, &c.CreatorID,
		&c.StartDate, &c.EndDate, &c.MaxParticipants, &c.GroupProgress, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Challenge not found")
		}
		return nil, fmt.Errorf("failed to scan challenge: %w", err)
	}
	return c, nil
}

func loadChallenge(ctx context.Context, q querier, id int64, forUpdate bool) (*challenge.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	c, err := scanChallenge(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `
	SELECT id, title, done
	FROM challenge_tasks
	WHERE challenge_id = $1
	ORDER BY position, id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	for rows.Next() {
		var t challenge.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Done); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		c.Tasks = append(c.Tasks, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	rows, err = q.Query(ctx, `
	SELECT user_id, progress
	FROM challenge_participants
	WHERE challenge_id = $1
	ORDER BY seq
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}
	for rows.Next() {
		var userID int64
		var row []bool
		if err := rows.Scan(&userID, &row); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		c.Participants = append(c.Participants, userID)
		c.Progress[userID] = row
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}

	return c, nil
}

func challengeExists(ctx context.Context, q querier, id int64) error {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM challenges WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check challenge: %w", err)
	}
	if !exists {
		return apperr.NotFound("Challenge not found")
	}
	return nil
}

func getComment(ctx context.Context, q querier, challengeID, commentID int64) (*challenge.Comment, error) {
	cm := &challenge.Comment{}
	err := q.QueryRow(ctx, `
	SELECT id, challenge_id, user_id, user_name, content, timestamp
	FROM comments
	WHERE id = $1 AND challenge_id = $2
	`, commentID, challengeID).Scan(&cm.ID, &cm.ChallengeID, &cm.UserID, &cm.UserName, &cm.Content, &cm.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment not found")
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return cm, nil
}

func insertTasks(ctx context.Context, tx pgx.Tx, c *challenge.Challenge) error {
	for i := range c.Tasks {
		err := tx.QueryRow(ctx, `
		INSERT INTO challenge_tasks (challenge_id, position, title, done)
		VALUES ($1, $2, $3, $4)
		RETURNING id
		`, c.ID, i, c.Tasks[i].Title, c.Tasks[i].Done).Scan(&c.Tasks[i].ID)
		if err != nil {
			return fmt.Errorf("failed to insert task: %w", err)
		}
	}
	return nil
}

func insertParticipant(ctx context.Context, tx pgx.Tx, challengeID, userID int64, row []bool) error {
	_, err := tx.Exec(ctx, `
	INSERT INTO challenge_participants (challenge_id, user_id, progress)
	VALUES ($1, $2, $3)
	`, challengeID, userID, row)
	if err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

func writeProgress(ctx context.Context, tx pgx.Tx, c *challenge.Challenge, userID int64) error {
	_, err := tx.Exec(ctx, `
	UPDATE challenge_participants SET progress = $3
	WHERE challenge_id = $1 AND user_id = $2
	`, c.ID, userID, c.Progress[userID])
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// rewriteTasks replaces the stored tasks and the reset progress rows.
func rewriteTasks(ctx context.Context, tx pgx.Tx, c *challenge.Challenge) error {
	if _, err := tx.Exec(ctx, `DELETE FROM challenge_tasks WHERE challenge_id = $1`, c.ID); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}
	if err := insertTasks(ctx, tx, c); err != nil {
		return err
	}
	for _, id := range c.Participants {
		if err := writeProgress(ctx, tx, c, id); err != nil {
			return err
		}
	}
	return nil
}

func writeDerived(ctx context.Context, tx pgx.Tx, c *challenge.Challenge) error {
	if _, err := tx.Exec(ctx, `UPDATE challenges SET group_progress = $2 WHERE id = $1`, c.ID, c.GroupProgress); err != nil {
		return fmt.Errorf("failed to save group progress: %w", err)
	}
	for _, t := range c.Tasks {
		if _, err := tx.Exec(ctx, `UPDATE challenge_tasks SET done = $2 WHERE id = $1`, t.ID, t.Done); err != nil {
			return fmt.Errorf("failed to save task state: %w", err)
		}
	}
	return nil
}
