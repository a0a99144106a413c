package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hdfcgpt/server/internal/auth"
	"github.com/hdfcgpt/server/internal/models"
)

// PostgresUsers persists application users, implementing auth.UserStore.
type PostgresUsers struct {
	pool *pgxpool.Pool
}

func NewPostgresUsers(pool *pgxpool.Pool) *PostgresUsers {
	return &PostgresUsers{pool: pool}
}

func (s *PostgresUsers) Create(ctx context.Context, user *models.User) error {
	if s.pool == nil {
		return errors.New("postgres: pool is nil")
	}

	const query = `INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.pool.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return auth.ErrUserExists
		}
		return fmt.Errorf("postgres: insert user: %w", err)
	}

	return nil
}

func (s *PostgresUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, `SELECT id, username, email, password_hash, created_at, updated_at
		FROM users WHERE LOWER(username) = LOWER($1)`, username)
}

func (s *PostgresUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, `SELECT id, username, email, password_hash, created_at, updated_at
		FROM users WHERE LOWER(email) = LOWER($1) AND email <> ''`, email)
}

func (s *PostgresUsers) TouchUpdatedAt(ctx context.Context, id string) error {
	if s.pool == nil {
		return errors.New("postgres: pool is nil")
	}

	_, err := s.pool.Exec(ctx, `UPDATE users SET updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: touch user: %w", err)
	}
	return nil
}

func (s *PostgresUsers) findOne(ctx context.Context, query, arg string) (*models.User, error) {
	if s.pool == nil {
		return nil, errors.New("postgres: pool is nil")
	}

	var user models.User
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("postgres: query user: %w", err)
	}

	return &user, nil
}
