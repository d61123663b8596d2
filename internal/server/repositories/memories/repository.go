package memories

import (
	"context"

	"github.com/sarkie/sarkie-backend/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, userID int64) (*models.Memory, error)
	Upsert(ctx context.Context, userID int64, instruction string) (*models.Memory, error)
	Delete(ctx context.Context, userID int64) error
}
