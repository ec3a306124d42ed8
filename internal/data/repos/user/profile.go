package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/adaptlearn/adaptlearn-backend/internal/domain"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/dbctx"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/logger"
)

// ErrNotFound is returned by lookups when no profile matches.
var ErrNotFound = errors.New("profile not found")

type ProfileRepo interface {
	// Upsert inserts or updates the profile keyed by tester name and
	// returns the stored row.
	Upsert(dbc dbctx.Context, profile *types.UserProfile) (*types.UserProfile, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.UserProfile, error)
	GetByTesterName(dbc dbctx.Context, testerName string) (*types.UserProfile, error)
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, log *logger.Logger) ProfileRepo {
	return &profileRepo{db: db, log: log.With("repo", "ProfileRepo")}
}

func (r *profileRepo) Upsert(dbc dbctx.Context, profile *types.UserProfile) (*types.UserProfile, error) {
	if profile == nil {
		return nil, fmt.Errorf("missing profile")
	}
	profile.TesterName = strings.TrimSpace(profile.TesterName)
	if profile.TesterName == "" {
		return nil, fmt.Errorf("missing tester_name")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	now := time.Now().UTC()
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	if err := txx.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tester_name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"pack_name", "target_test_date", "daily_study_hours",
				"target_score", "notes", "updated_at",
			}),
		}).
		Create(profile).Error; err != nil {
		return nil, err
	}

	// Re-read so callers see the canonical row (ID differs when the insert
	// hit the conflict path).
	return r.GetByTesterName(dbc, profile.TesterName)
}

func (r *profileRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.UserProfile, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing profile id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.UserProfile
	err := txx.WithContext(dbc.Ctx).Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *profileRepo) GetByTesterName(dbc dbctx.Context, testerName string) (*types.UserProfile, error) {
	testerName = strings.TrimSpace(testerName)
	if testerName == "" {
		return nil, fmt.Errorf("missing tester_name")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.UserProfile
	err := txx.WithContext(dbc.Ctx).Where("tester_name = ?", testerName).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
