package effects

import (
	"context"

	"github.com/sarkie/sarkie-backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, e *models.SupplementEffect) (*models.SupplementEffect, error)
	Delete(ctx context.Context, id int64) error
	// ListByUser orders by effect_type, then newest first.
	ListByUser(ctx context.Context, userID int64) ([]models.SupplementEffect, error)
	// ListLatest orders newest first.
	ListLatest(ctx context.Context, userID int64) ([]models.SupplementEffect, error)
}
