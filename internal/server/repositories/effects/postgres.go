// Package effects provides the PostgreSQL-backed repository for reported
// supplement effects.
package effects

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sarkie/sarkie-backend/internal/dbx"
	"github.com/sarkie/sarkie-backend/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts e; the timestamp is assigned by the database.
func (r *PostgresRepository) Create(ctx context.Context, e *models.SupplementEffect) (*models.SupplementEffect, error) {
	query := `
		INSERT INTO supplement_effects (user_id, supplement_id, effect_type, effect_description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, timestamp
	`
	var supplementID sql.NullInt64
	if e.SupplementID != nil {
		supplementID = sql.NullInt64{Int64: *e.SupplementID, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query, e.UserID, supplementID, e.EffectType, e.EffectDescription).
		Scan(&e.ID, &e.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `
		DELETE FROM supplement_effects
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RequireAffected(res)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]models.SupplementEffect, error) {
	query := `
		SELECT id, user_id, supplement_id, effect_type, effect_description, timestamp
		FROM supplement_effects
		WHERE user_id = $1
		ORDER BY effect_type, timestamp DESC
	`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) ListLatest(ctx context.Context, userID int64) ([]models.SupplementEffect, error) {
	query := `
		SELECT id, user_id, supplement_id, effect_type, effect_description, timestamp
		FROM supplement_effects
		WHERE user_id = $1
		ORDER BY timestamp DESC
	`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.SupplementEffect, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.SupplementEffect, 0)
	for rows.Next() {
		var (
			item         models.SupplementEffect
			supplementID sql.NullInt64
		)
		if err := rows.Scan(&item.ID, &item.UserID, &supplementID, &item.EffectType, &item.EffectDescription, &item.Timestamp); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if supplementID.Valid {
			id := supplementID.Int64
			item.SupplementID = &id
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
