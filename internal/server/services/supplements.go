package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sarkie/sarkie-backend/internal/common"
	"github.com/sarkie/sarkie-backend/internal/logging"
	"github.com/sarkie/sarkie-backend/internal/server/models"
	"github.com/sarkie/sarkie-backend/internal/server/repositories/repomanager"
)

var errMissingFields = common.NewValidationError("Missing required fields")

// SupplementService manages supplements and reported effects.
type SupplementService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewSupplementService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *SupplementService {
	return &SupplementService{db: db, repomanager: m, logger: logger}
}

func (s *SupplementService) Create(ctx context.Context, userID int64, name, dosage, frequency string) (*models.Supplement, error) {
	if userID == 0 || !present(name, dosage, frequency) {
		return nil, errMissingFields
	}

	sup, err := s.repomanager.Supplements(s.db).Create(ctx, &models.Supplement{
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		Dosage:    strings.TrimSpace(dosage),
		Frequency: strings.TrimSpace(frequency),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating supplement: %w", err)
	}
	return sup, nil
}

func (s *SupplementService) ListByUser(ctx context.Context, userID int64) ([]models.Supplement, error) {
	list, err := s.repomanager.Supplements(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing supplements: %w", err)
	}
	return list, nil
}

// Update rewrites a supplement in place. Unknown ids yield common.ErrorNotFound.
func (s *SupplementService) Update(ctx context.Context, id int64, name, dosage, frequency string) (*models.Supplement, error) {
	if id == 0 || !present(name, dosage, frequency) {
		return nil, errMissingFields
	}

	sup, err := s.repomanager.Supplements(s.db).Update(ctx, &models.Supplement{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Dosage:    strings.TrimSpace(dosage),
		Frequency: strings.TrimSpace(frequency),
	})
	if err != nil {
		return nil, fmt.Errorf("error updating supplement: %w", err)
	}
	return sup, nil
}

func (s *SupplementService) Delete(ctx context.Context, id int64) error {
	if err := s.repomanager.Supplements(s.db).Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting supplement: %w", err)
	}
	s.logger.Info(ctx, "supplement deleted", "supplement_id", id)
	return nil
}

// AddEffect records an effect; supplementID may be nil.
func (s *SupplementService) AddEffect(ctx context.Context, userID int64, supplementID *int64, effectType, description string) (*models.SupplementEffect, error) {
	if userID == 0 || !present(effectType, description) {
		return nil, errMissingFields
	}

	e, err := s.repomanager.Effects(s.db).Create(ctx, &models.SupplementEffect{
		UserID:            userID,
		SupplementID:      supplementID,
		EffectType:        strings.TrimSpace(effectType),
		EffectDescription: strings.TrimSpace(description),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating effect: %w", err)
	}
	return e, nil
}

func (s *SupplementService) DeleteEffect(ctx context.Context, id int64) error {
	if err := s.repomanager.Effects(s.db).Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting effect: %w", err)
	}
	s.logger.Info(ctx, "effect deleted", "effect_id", id)
	return nil
}

func (s *SupplementService) ListWithEffects(ctx context.Context, userID int64) ([]models.SupplementWithEffect, error) {
	list, err := s.repomanager.Supplements(s.db).ListWithEffects(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing supplements with effects: %w", err)
	}
	return list, nil
}

func (s *SupplementService) ListEffectsByUser(ctx context.Context, userID int64) ([]models.SupplementEffect, error) {
	list, err := s.repomanager.Effects(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing effects: %w", err)
	}
	return list, nil
}
