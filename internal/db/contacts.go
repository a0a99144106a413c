package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hdfcgpt/server/internal/models"
)

// PostgresContacts stores contact-form submissions.
type PostgresContacts struct {
	pool *pgxpool.Pool
}

func NewPostgresContacts(pool *pgxpool.Pool) *PostgresContacts {
	return &PostgresContacts{pool: pool}
}

func (s *PostgresContacts) Create(ctx context.Context, msg *models.ContactMessage) error {
	if s.pool == nil {
		return errors.New("postgres: pool is nil")
	}

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO contact_messages (id, name, email, phone, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := s.pool.Exec(ctx, query,
		msg.ID, msg.Name, msg.Email, msg.Phone, msg.Message, msg.CreatedAt); err != nil {
		return fmt.Errorf("postgres: insert contact message: %w", err)
	}

	return nil
}
