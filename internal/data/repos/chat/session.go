package chat

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/adaptlearn/adaptlearn-backend/internal/domain"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/dbctx"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/logger"
)

type SessionRepo interface {
	// Get returns the session for the user, or nil when none exists yet.
	Get(dbc dbctx.Context, userID uuid.UUID) (*types.AgentSession, error)
	// SetActiveAgent upserts the single session row for the user.
	SetActiveAgent(dbc dbctx.Context, userID uuid.UUID, agent string) (*types.AgentSession, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, log *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: log.With("repo", "AgentSessionRepo")}
}

func (r *sessionRepo) Get(dbc dbctx.Context, userID uuid.UUID) (*types.AgentSession, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.AgentSession
	err := txx.WithContext(dbc.Ctx).Where("user_id = ?", userID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *sessionRepo) SetActiveAgent(dbc dbctx.Context, userID uuid.UUID, agent string) (*types.AgentSession, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	if agent == "" {
		return nil, fmt.Errorf("missing agent")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	row := &types.AgentSession{
		ID:          uuid.New(),
		UserID:      userID,
		ActiveAgent: agent,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := txx.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"active_agent", "updated_at"}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return r.Get(dbc, userID)
}
