// Package memories stores the instruction each user asked the assistant to
// remember.
package memories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sarkie/sarkie-backend/internal/common"
	"github.com/sarkie/sarkie-backend/internal/dbx"
	"github.com/sarkie/sarkie-backend/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID int64) (*models.Memory, error) {
	query := `
		SELECT user_id, instruction, updated_at FROM memories
		WHERE user_id = $1
	`
	m := &models.Memory{}
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&m.UserID, &m.Instruction, &m.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

// Upsert replaces the user's instruction, one row per user.
func (r *PostgresRepository) Upsert(ctx context.Context, userID int64, instruction string) (*models.Memory, error) {
	query := `
		INSERT INTO memories (user_id, instruction, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET instruction = EXCLUDED.instruction, updated_at = EXCLUDED.updated_at
		RETURNING user_id, instruction, updated_at
	`
	m := &models.Memory{}
	if err := r.db.QueryRowContext(ctx, query, userID, instruction).Scan(&m.UserID, &m.Instruction, &m.UpdatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID int64) error {
	query := `
		DELETE FROM memories
		WHERE user_id = $1
	`
	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RequireAffected(res)
}
