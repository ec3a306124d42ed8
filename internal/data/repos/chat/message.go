package chat

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/adaptlearn/adaptlearn-backend/internal/domain"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/dbctx"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/logger"
)

// maxWindow caps how many messages a single read can return; the context
// window the orchestrator requests (1000) fits inside it.
const maxWindow = 1000

type MessageRepo interface {
	Create(dbc dbctx.Context, rows []*types.ChatMessage) ([]*types.ChatMessage, error)
	GetMaxSeq(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	// ListRecent returns the newest limit messages, normalized oldest-first.
	// Unknown users get an empty slice, not an error.
	ListRecent(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.ChatMessage, error)
	CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, log *logger.Logger) MessageRepo {
	return &messageRepo{db: db, log: log.With("repo", "ChatMessageRepo")}
}

func (r *messageRepo) Create(dbc dbctx.Context, rows []*types.ChatMessage) ([]*types.ChatMessage, error) {
	if len(rows) == 0 {
		return []*types.ChatMessage{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *messageRepo) GetMaxSeq(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, fmt.Errorf("missing user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var maxSeq int64
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.ChatMessage{}).
		Select("COALESCE(MAX(seq), 0)").
		Where("user_id = ?", userID).
		Scan(&maxSeq).Error; err != nil {
		return 0, err
	}
	return maxSeq, nil
}

func (r *messageRepo) ListRecent(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.ChatMessage, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	if limit <= 0 || limit > maxWindow {
		limit = maxWindow
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.ChatMessage
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.ChatMessage{}).
		Where("user_id = ?", userID).
		Order("seq DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	// Normalize to ASC for callers.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *messageRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, fmt.Errorf("missing user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var count int64
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.ChatMessage{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
