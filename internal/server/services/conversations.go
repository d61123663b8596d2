package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sarkie/sarkie-backend/internal/common"
	"github.com/sarkie/sarkie-backend/internal/dbx"
	"github.com/sarkie/sarkie-backend/internal/logging"
	"github.com/sarkie/sarkie-backend/internal/server/config"
	"github.com/sarkie/sarkie-backend/internal/server/models"
	"github.com/sarkie/sarkie-backend/internal/server/repositories/repomanager"
)

// ConversationService is the append-only chat log with exact-duplicate
// suppression.
type ConversationService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	logger       logging.Logger
	memoryMarker string
}

func NewConversationService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *ConversationService {
	return &ConversationService{db: db, repomanager: m, logger: logger, memoryMarker: cfg.MemoryMarker}
}

// Append stores one message unless an identical (user, message, sender)
// row already exists, in which case common.ErrDuplicateMessage is returned.
func (s *ConversationService) Append(ctx context.Context, userID int64, message, sender string) (*models.ConversationMessage, error) {
	if userID == 0 || !present(message, sender) {
		return nil, errMissingFields
	}
	if sender != common.SenderUser && sender != common.SenderAI {
		return nil, common.NewValidationError(fmt.Sprintf("sender must be %q or %q", common.SenderUser, common.SenderAI))
	}

	repo := s.repomanager.Conversations(s.db)

	dup, err := repo.Exists(ctx, userID, message, sender)
	if err != nil {
		return nil, fmt.Errorf("error checking duplicate: %w", err)
	}
	if dup {
		s.logger.Debug(ctx, "duplicate message skipped", "user_id", userID, "sender", sender)
		return nil, common.ErrDuplicateMessage
	}

	row := &models.ConversationMessage{UserID: userID, Message: message, Sender: sender}

	if sender != common.SenderAI || !hasMemoryMarker(message, s.memoryMarker) {
		m, err := repo.Create(ctx, row)
		if err != nil {
			return nil, fmt.Errorf("error saving message: %w", err)
		}
		return m, nil
	}

	// A marker-prefixed assistant message becomes the user's pinned instruction.
	var saved *models.ConversationMessage
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		m, err := s.repomanager.Conversations(tx).Create(ctx, row)
		if err != nil {
			return fmt.Errorf("error saving message: %w", err)
		}
		if _, err := s.repomanager.Memories(tx).Upsert(ctx, userID, message); err != nil {
			return fmt.Errorf("error saving memory: %w", err)
		}
		saved = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug(ctx, "pinned instruction recorded", "user_id", userID)
	return saved, nil
}

// List returns the full history, oldest first.
func (s *ConversationService) List(ctx context.Context, userID int64) ([]models.ConversationMessage, error) {
	list, err := s.repomanager.Conversations(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing conversation: %w", err)
	}
	return list, nil
}
