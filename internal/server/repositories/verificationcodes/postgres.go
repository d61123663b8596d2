// Package verificationcodes provides a PostgreSQL-backed repository for the
// one-time email codes issued during account verification.
package verificationcodes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sarkie/sarkie-backend/internal/common"
	"github.com/sarkie/sarkie-backend/internal/dbx"
	"github.com/sarkie/sarkie-backend/internal/server/models"
)

// PostgresRepository keeps at most one code per email over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert stores code, replacing any earlier code for the same email.
func (r *PostgresRepository) Upsert(ctx context.Context, code *models.VerificationCode) error {
	query := `
		INSERT INTO verification_codes (email, code, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at
	`
	if _, err := r.db.ExecContext(ctx, query, code.Email, code.Code, code.ExpiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Find returns the outstanding code for email or common.ErrorNotFound.
func (r *PostgresRepository) Find(ctx context.Context, email string) (*models.VerificationCode, error) {
	query := `
		SELECT email, code, expires_at
		FROM verification_codes
		WHERE email = $1
	`
	vc := &models.VerificationCode{}
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&vc.Email, &vc.Code, &vc.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return vc, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, email string) error {
	query := `
		DELETE FROM verification_codes
		WHERE email = $1
	`
	if _, err := r.db.ExecContext(ctx, query, email); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
