package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sarkie/sarkie-backend/internal/logging"
	"github.com/sarkie/sarkie-backend/internal/server/models"
	"github.com/sarkie/sarkie-backend/internal/server/repositories/repomanager"
)

// MemoryService manages the per-user instruction re-injected into chat prompts.
type MemoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewMemoryService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *MemoryService {
	return &MemoryService{db: db, repomanager: m, logger: logger}
}

// Get returns the stored instruction or common.ErrorNotFound.
func (s *MemoryService) Get(ctx context.Context, userID int64) (*models.Memory, error) {
	m, err := s.repomanager.Memories(s.db).Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error reading memory: %w", err)
	}
	return m, nil
}

func (s *MemoryService) Set(ctx context.Context, userID int64, instruction string) (*models.Memory, error) {
	instruction = strings.TrimSpace(instruction)
	if userID == 0 || instruction == "" {
		return nil, errMissingFields
	}

	m, err := s.repomanager.Memories(s.db).Upsert(ctx, userID, instruction)
	if err != nil {
		return nil, fmt.Errorf("error saving memory: %w", err)
	}
	return m, nil
}

func (s *MemoryService) Clear(ctx context.Context, userID int64) error {
	if err := s.repomanager.Memories(s.db).Delete(ctx, userID); err != nil {
		return fmt.Errorf("error clearing memory: %w", err)
	}
	s.logger.Info(ctx, "memory cleared", "user_id", userID)
	return nil
}
