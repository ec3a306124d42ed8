package stats

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	types "github.com/adaptlearn/adaptlearn-backend/internal/domain"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/dbctx"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/logger"
)

type Repo interface {
	// Get returns the stat row for (pack, question), or nil when the
	// question has never been answered.
	Get(dbc dbctx.Context, packName, questionID string) (*types.QuestionStat, error)
	Save(dbc dbctx.Context, row *types.QuestionStat) (*types.QuestionStat, error)
	ListByPack(dbc dbctx.Context, packName string) ([]*types.QuestionStat, error)
}

type repo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRepo(db *gorm.DB, log *logger.Logger) Repo {
	return &repo{db: db, log: log.With("repo", "QuestionStatRepo")}
}

func (r *repo) Get(dbc dbctx.Context, packName, questionID string) (*types.QuestionStat, error) {
	packName = strings.TrimSpace(packName)
	questionID = strings.TrimSpace(questionID)
	if packName == "" || questionID == "" {
		return nil, fmt.Errorf("missing pack_name or question_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.QuestionStat
	err := txx.WithContext(dbc.Ctx).
		Where("pack_name = ? AND question_id = ?", packName, questionID).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *repo) Save(dbc dbctx.Context, row *types.QuestionStat) (*types.QuestionStat, error) {
	if row == nil {
		return nil, fmt.Errorf("missing stat")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *repo) ListByPack(dbc dbctx.Context, packName string) ([]*types.QuestionStat, error) {
	packName = strings.TrimSpace(packName)
	if packName == "" {
		return nil, fmt.Errorf("missing pack_name")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.QuestionStat
	if err := txx.WithContext(dbc.Ctx).
		Where("pack_name = ?", packName).
		Order("category ASC, question_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
