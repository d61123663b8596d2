// Package supplements provides the PostgreSQL-backed repository for the
// supplements a user reports taking.
package supplements

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sarkie/sarkie-backend/internal/common"
	"github.com/sarkie/sarkie-backend/internal/dbx"
	"github.com/sarkie/sarkie-backend/internal/server/models"
)

// PostgresRepository implements supplement storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Supplement) (*models.Supplement, error) {
	query := `
		INSERT INTO supplements (user_id, name, dosage, frequency)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, query, s.UserID, s.Name, s.Dosage, s.Frequency).Scan(&s.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]models.Supplement, error) {
	query := `
		SELECT id, user_id, name, dosage, frequency FROM supplements
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Supplement, 0)
	for rows.Next() {
		var item models.Supplement
		if err := rows.Scan(&item.ID, &item.UserID, &item.Name, &item.Dosage, &item.Frequency); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Update rewrites name, dosage and frequency of the row with s.ID and returns
// the stored row. Returns common.ErrorNotFound when the id is unknown.
func (r *PostgresRepository) Update(ctx context.Context, s *models.Supplement) (*models.Supplement, error) {
	query := `
		UPDATE supplements SET name = $1, dosage = $2, frequency = $3
		WHERE id = $4
		RETURNING id, user_id, name, dosage, frequency
	`
	out := &models.Supplement{}
	err := r.db.QueryRowContext(ctx, query, s.Name, s.Dosage, s.Frequency, s.ID).
		Scan(&out.ID, &out.UserID, &out.Name, &out.Dosage, &out.Frequency)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `
		DELETE FROM supplements
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RequireAffected(res)
}

// ListWithEffects returns one row per (supplement, effect) pair for userID.
// Supplements without effects appear once with nil effect columns.
func (r *PostgresRepository) ListWithEffects(ctx context.Context, userID int64) ([]models.SupplementWithEffect, error) {
	query := `
		SELECT s.id, s.name, s.dosage, s.frequency, se.effect_type, se.effect_description
		FROM supplements s
		LEFT JOIN supplement_effects se ON s.id = se.supplement_id AND se.user_id = $1
		WHERE s.user_id = $1
		ORDER BY s.name, se.effect_type
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.SupplementWithEffect, 0)
	for rows.Next() {
		var (
			item       models.SupplementWithEffect
			effectType sql.NullString
			effectDesc sql.NullString
		)
		if err := rows.Scan(&item.SupplementID, &item.Name, &item.Dosage, &item.Frequency, &effectType, &effectDesc); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if effectType.Valid {
			item.EffectType = &effectType.String
		}
		if effectDesc.Valid {
			item.EffectDescription = &effectDesc.String
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
