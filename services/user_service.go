package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"studyHubAPI/internal/apperr"
	"studyHubAPI/internal/database"
	"studyHubAPI/internal/user"
)

const invalidCredentials = "Invalid email or password"

type UserService struct {
	db *pgxpool.Pool
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

func (s *UserService) Register(ctx context.Context, req *user.RegisterRequest) (*user.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" {
		return nil, apperr.Validation("name is required")
	}

	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, apperr.Validation("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{Name: name, Email: email, Password: string(hash)}
	err = s.db.QueryRow(ctx, `
	INSERT INTO users (name, email, password)
	VALUES ($1, $2, $3)
	RETURNING id, created_at
	`, u.Name, u.Email, u.Password).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperr.Validation("Email already registered")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("Register: created user %d", u.ID)
	return u, nil
}

func (s *UserService) Login(ctx context.Context, req *user.LoginRequest) (*user.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	u := &user.User{}
	err := s.db.QueryRow(ctx, `
	SELECT id, name, email, password, created_at
	FROM users
	WHERE email = $1
	`, email).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.New(apperr.ErrUnauthorized, invalidCredentials)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return nil, apperr.New(apperr.ErrUnauthorized, invalidCredentials)
	}
	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*user.User, error) {
	return getUser(ctx, s.db, id)
}

func getUser(ctx context.Context, q querier, id int64) (*user.User, error) {
	u := &user.User{}
	err := q.QueryRow(ctx, `
	SELECT id, name, email, created_at
	FROM users
	WHERE id = $1
	`, id).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// userNames maps each id to its display name. Unknown ids are left out.
func userNames(ctx context.Context, q querier, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	rows, err := q.Query(ctx, `SELECT id, name FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load user names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan user name: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}
