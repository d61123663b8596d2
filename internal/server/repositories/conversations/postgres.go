// Package conversations provides the PostgreSQL-backed chat history store.
package conversations

import (
	"context"
	"fmt"
	"slices"

	"github.com/sarkie/sarkie-backend/internal/dbx"
	"github.com/sarkie/sarkie-backend/internal/server/models"
)

// PostgresRepository implements the conversation log over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, m *models.ConversationMessage) (*models.ConversationMessage, error) {
	query := `
		INSERT INTO conversations (user_id, message, sender)
		VALUES ($1, $2, $3)
		RETURNING id, timestamp
	`
	if err := r.db.QueryRowContext(ctx, query, m.UserID, m.Message, m.Sender).Scan(&m.ID, &m.Timestamp); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

// Exists reports whether an identical (user, message, sender) row is stored.
func (r *PostgresRepository) Exists(ctx context.Context, userID int64, message, sender string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM conversations
			WHERE user_id = $1 AND message = $2 AND sender = $3
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, message, sender).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// ListByUser returns the full history, oldest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]models.ConversationMessage, error) {
	query := `
		SELECT id, user_id, message, sender, timestamp FROM conversations
		WHERE user_id = $1
		ORDER BY timestamp ASC, id ASC
	`
	return r.list(ctx, query, userID)
}

// Recent returns the newest limit rows in chronological order.
func (r *PostgresRepository) Recent(ctx context.Context, userID int64, limit int) ([]models.ConversationMessage, error) {
	query := `
		SELECT id, user_id, message, sender, timestamp FROM conversations
		WHERE user_id = $1
		ORDER BY timestamp DESC, id DESC
		LIMIT $2
	`
	result, err := r.list(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	slices.Reverse(result)
	return result, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.ConversationMessage, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.ConversationMessage, 0)
	for rows.Next() {
		var item models.ConversationMessage
		if err := rows.Scan(&item.ID, &item.UserID, &item.Message, &item.Sender, &item.Timestamp); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
