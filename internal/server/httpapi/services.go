package httpapi

import (
	"context"

	"github.com/sarkie/sarkie-backend/internal/server/auth"
	"github.com/sarkie/sarkie-backend/internal/server/models"
	"github.com/sarkie/sarkie-backend/internal/server/services"
)

// The interfaces below are satisfied by the concrete types in package
// services; handlers depend on them so tests can substitute fakes.

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	SendVerificationCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) error
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Authenticate(token string) (*auth.Claims, error)
	Me(ctx context.Context, userID int64) (*models.User, error)
}

type SupplementService interface {
	Create(ctx context.Context, userID int64, name, dosage, frequency string) (*models.Supplement, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Supplement, error)
	Update(ctx context.Context, id int64, name, dosage, frequency string) (*models.Supplement, error)
	Delete(ctx context.Context, id int64) error
	AddEffect(ctx context.Context, userID int64, supplementID *int64, effectType, description string) (*models.SupplementEffect, error)
	DeleteEffect(ctx context.Context, id int64) error
	ListWithEffects(ctx context.Context, userID int64) ([]models.SupplementWithEffect, error)
	ListEffectsByUser(ctx context.Context, userID int64) ([]models.SupplementEffect, error)
}

type ConversationService interface {
	Append(ctx context.Context, userID int64, message, sender string) (*models.ConversationMessage, error)
	List(ctx context.Context, userID int64) ([]models.ConversationMessage, error)
}

type MemoryService interface {
	Get(ctx context.Context, userID int64) (*models.Memory, error)
	Set(ctx context.Context, userID int64, instruction string) (*models.Memory, error)
	Clear(ctx context.Context, userID int64) error
}

type ChatService interface {
	Chat(ctx context.Context, message string, userID *int64) (*services.ChatResult, error)
}

// Services bundles everything the router dispatches to.
type Services struct {
	Auth          AuthService
	Supplements   SupplementService
	Conversations ConversationService
	Memories      MemoryService
	Chat          ChatService
}
