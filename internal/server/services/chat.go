package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sarkie/sarkie-backend/internal/common"
	"github.com/sarkie/sarkie-backend/internal/dbx"
	"github.com/sarkie/sarkie-backend/internal/logging"
	"github.com/sarkie/sarkie-backend/internal/server/completion"
	"github.com/sarkie/sarkie-backend/internal/server/config"
	"github.com/sarkie/sarkie-backend/internal/server/models"
	"github.com/sarkie/sarkie-backend/internal/server/repositories/repomanager"
)

// ChatResult carries the reply and the system prompt it was produced with.
type ChatResult struct {
	Reply    string
	Prompt   string
	Messages []completion.Message
}

// ChatService assembles the prompt from the user's history, supplements,
// effects and remembered instruction, asks the provider for a reply and
// stores both turns atomically.
type ChatService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	provider     completion.Provider
	logger       logging.Logger
	historyLimit int
	memoryMarker string
}

func NewChatService(db *sql.DB, m repomanager.RepositoryManager, provider completion.Provider, cfg *config.Config, logger logging.Logger) *ChatService {
	return &ChatService{
		db:           db,
		repomanager:  m,
		provider:     provider,
		logger:       logger,
		historyLimit: cfg.ChatHistoryLimit,
		memoryMarker: cfg.MemoryMarker,
	}
}

// Chat answers message. userID nil means an anonymous chat: no context is
// loaded and nothing is stored.
func (s *ChatService) Chat(ctx context.Context, message string, userID *int64) (*ChatResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, common.NewValidationError("Message is required")
	}

	var (
		history     []models.ConversationMessage
		supplements []models.Supplement
		effects     []models.SupplementEffect
		memory      string
	)

	if userID != nil {
		var err error
		if history, err = s.repomanager.Conversations(s.db).Recent(ctx, *userID, s.historyLimit); err != nil {
			return nil, fmt.Errorf("error loading history: %w", err)
		}
		if supplements, err = s.repomanager.Supplements(s.db).ListByUser(ctx, *userID); err != nil {
			return nil, fmt.Errorf("error loading supplements: %w", err)
		}
		if effects, err = s.repomanager.Effects(s.db).ListLatest(ctx, *userID); err != nil {
			return nil, fmt.Errorf("error loading effects: %w", err)
		}
		m, err := s.repomanager.Memories(s.db).Get(ctx, *userID)
		switch {
		case err == nil:
			memory = m.Instruction
		case !errors.Is(err, common.ErrorNotFound):
			return nil, fmt.Errorf("error loading memory: %w", err)
		}
	}

	prompt := buildSystemPrompt(memory, formatSupplements(supplements), formatEffects(effects))

	messages := make([]completion.Message, 0, len(history)+2)
	messages = append(messages, completion.Message{Role: completion.RoleSystem, Content: prompt})
	for _, h := range history {
		role := completion.RoleUser
		if h.Sender == common.SenderAI {
			role = completion.RoleAssistant
		}
		messages = append(messages, completion.Message{Role: role, Content: h.Message})
	}
	messages = append(messages, completion.Message{Role: completion.RoleUser, Content: message})

	reply, err := s.provider.Complete(ctx, messages)
	if err != nil {
		return nil, err
	}
	if reply == "" {
		reply = defaultReply
	}

	if userID != nil {
		if err := s.saveTurn(ctx, *userID, message, reply); err != nil {
			return nil, err
		}
	}

	s.logger.Debug(ctx, "chat reply produced", "history", len(history), "anonymous", userID == nil)
	return &ChatResult{Reply: reply, Prompt: prompt, Messages: messages}, nil
}

func (s *ChatService) saveTurn(ctx context.Context, userID int64, message, reply string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Conversations(tx)
		if _, err := repo.Create(ctx, &models.ConversationMessage{UserID: userID, Message: message, Sender: common.SenderUser}); err != nil {
			return fmt.Errorf("error saving user turn: %w", err)
		}
		if _, err := repo.Create(ctx, &models.ConversationMessage{UserID: userID, Message: reply, Sender: common.SenderAI}); err != nil {
			return fmt.Errorf("error saving ai turn: %w", err)
		}
		if hasMemoryMarker(reply, s.memoryMarker) {
			if _, err := s.repomanager.Memories(tx).Upsert(ctx, userID, reply); err != nil {
				return fmt.Errorf("error saving memory: %w", err)
			}
		}
		return nil
	})
}
