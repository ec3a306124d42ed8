package plan

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/adaptlearn/adaptlearn-backend/internal/domain"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/dbctx"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/logger"
)

type Repo interface {
	// Create appends a new plan revision. The unique (user_id, revision)
	// index rejects duplicate revisions written by a racing turn.
	Create(dbc dbctx.Context, row *types.LearningPlan) (*types.LearningPlan, error)
	// GetLatest returns the highest-revision plan for the user, or nil when
	// the user has no plan yet.
	GetLatest(dbc dbctx.Context, userID uuid.UUID) (*types.LearningPlan, error)
	ListRevisions(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.LearningPlan, error)
}

type repo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRepo(db *gorm.DB, log *logger.Logger) Repo {
	return &repo{db: db, log: log.With("repo", "LearningPlanRepo")}
}

func (r *repo) Create(dbc dbctx.Context, row *types.LearningPlan) (*types.LearningPlan, error) {
	if row == nil {
		return nil, fmt.Errorf("missing plan")
	}
	if row.UserID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	if row.Revision <= 0 {
		return nil, fmt.Errorf("revision must be positive")
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *repo) GetLatest(dbc dbctx.Context, userID uuid.UUID) (*types.LearningPlan, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.LearningPlan
	err := txx.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("revision DESC").
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *repo) ListRevisions(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.LearningPlan, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.LearningPlan
	if err := txx.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("revision DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
