package conversations

import (
	"context"

	"github.com/sarkie/sarkie-backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, m *models.ConversationMessage) (*models.ConversationMessage, error)
	Exists(ctx context.Context, userID int64, message, sender string) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]models.ConversationMessage, error)
	Recent(ctx context.Context, userID int64, limit int) ([]models.ConversationMessage, error)
}
