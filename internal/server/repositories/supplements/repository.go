package supplements

import (
	"context"

	"github.com/sarkie/sarkie-backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, s *models.Supplement) (*models.Supplement, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Supplement, error)
	Update(ctx context.Context, s *models.Supplement) (*models.Supplement, error)
	Delete(ctx context.Context, id int64) error
	ListWithEffects(ctx context.Context, userID int64) ([]models.SupplementWithEffect, error)
}
