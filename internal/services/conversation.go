package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	chatrepo "github.com/adaptlearn/adaptlearn-backend/internal/data/repos/chat"
	types "github.com/adaptlearn/adaptlearn-backend/internal/domain"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/apierr"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/dbctx"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/logger"
)

const (
	// ContextWindow is the maximum number of most-recent messages handed
	// to an agent as conversation context. Older rows stay in the table.
	ContextWindow = 1000

	// MaxMessageRunes bounds a single incoming user message.
	MaxMessageRunes = 8000
)

type ConversationService interface {
	// ValidateText rejects empty and oversized user messages.
	ValidateText(text string) error

	// AppendUser appends a user message at the next sequence number.
	AppendUser(dbc dbctx.Context, userID uuid.UUID, text string) (*types.ChatMessage, error)

	// AppendTurn appends the user message and the agent reply as one
	// atomic pair at consecutive sequence numbers.
	AppendTurn(dbc dbctx.Context, userID uuid.UUID, userText string, agentID string, agentText string) (*types.ChatMessage, *types.ChatMessage, error)

	// Recent returns up to limit most-recent messages in ascending seq
	// order, capped at ContextWindow.
	Recent(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.ChatMessage, error)

	// Count returns the total number of stored messages for the user,
	// including rows outside the context window.
	Count(dbc dbctx.Context, userID uuid.UUID) (int64, error)
}

type conversationService struct {
	db       *gorm.DB
	log      *logger.Logger
	messages chatrepo.MessageRepo
}

func NewConversationService(db *gorm.DB, baseLog *logger.Logger, messages chatrepo.MessageRepo) ConversationService {
	return &conversationService{
		db:       db,
		log:      baseLog.With("service", "ConversationService"),
		messages: messages,
	}
}

func (s *conversationService) ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return apierr.InvalidMessage(fmt.Errorf("message text is empty"))
	}
	if n := len([]rune(text)); n > MaxMessageRunes {
		return apierr.InvalidMessage(fmt.Errorf("message text is %d runes, max %d", n, MaxMessageRunes))
	}
	return nil
}

func (s *conversationService) AppendUser(dbc dbctx.Context, userID uuid.UUID, text string) (*types.ChatMessage, error) {
	if err := s.ValidateText(text); err != nil {
		return nil, err
	}
	rows, err := s.append(dbc, userID, []pendingMessage{{role: types.RoleUser, content: text}})
	if err != nil {
		return nil, err
	}
	return rows[0], nil
}

func (s *conversationService) AppendTurn(dbc dbctx.Context, userID uuid.UUID, userText string, agentID string, agentText string) (*types.ChatMessage, *types.ChatMessage, error) {
	if err := s.ValidateText(userText); err != nil {
		return nil, nil, err
	}
	rows, err := s.append(dbc, userID, []pendingMessage{
		{role: types.RoleUser, content: userText},
		{role: types.RoleAgent, agentID: agentID, content: agentText},
	})
	if err != nil {
		return nil, nil, err
	}
	return rows[0], rows[1], nil
}

func (s *conversationService) Recent(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.ChatMessage, error) {
	if limit <= 0 || limit > ContextWindow {
		limit = ContextWindow
	}
	return s.messages.ListRecent(dbc, userID, limit)
}

func (s *conversationService) Count(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	return s.messages.CountByUser(dbc, userID)
}

type pendingMessage struct {
	role    string
	agentID string
	content string
}

func (s *conversationService) append(dbc dbctx.Context, userID uuid.UUID, pending []pendingMessage) ([]*types.ChatMessage, error) {
	var created []*types.ChatMessage
	err := runInTx(s.db, dbc, func(inner dbctx.Context) error {
		maxSeq, err := s.messages.GetMaxSeq(inner, userID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		rows := make([]*types.ChatMessage, 0, len(pending))
		for i, p := range pending {
			rows = append(rows, &types.ChatMessage{
				ID:        uuid.New(),
				UserID:    userID,
				Seq:       maxSeq + int64(i) + 1,
				Role:      p.role,
				AgentID:   p.agentID,
				Content:   p.content,
				CreatedAt: now,
			})
		}
		created, err = s.messages.Create(inner, rows)
		return err
	})
	if err != nil {
		s.log.Error("append chat messages failed", "user_id", userID.String(), "error", err)
		return nil, err
	}
	return created, nil
}
