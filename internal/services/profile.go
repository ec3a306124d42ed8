package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userrepo "github.com/adaptlearn/adaptlearn-backend/internal/data/repos/user"
	types "github.com/adaptlearn/adaptlearn-backend/internal/domain"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/apierr"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/dbctx"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/logger"
)

// SettingsInput carries tester settings from the outer surface. TesterName
// and PackName are required; zero values elsewhere fall back to defaults.
type SettingsInput struct {
	TesterName      string `json:"tester_name"`
	PackName        string `json:"pack_name"`
	TargetTestDate  string `json:"target_test_date"`
	DailyStudyHours int    `json:"daily_study_hours"`
	TargetScore     int    `json:"target_score"`
	Notes           string `json:"notes"`
}

type ProfileService interface {
	// Save upserts settings keyed by tester name and returns the profile.
	Save(dbc dbctx.Context, in SettingsInput) (*types.UserProfile, error)

	// Get returns the profile for id, or an unknown_user error.
	Get(dbc dbctx.Context, id uuid.UUID) (*types.UserProfile, error)

	// GetByName returns the profile for a tester name, or an
	// unknown_user error.
	GetByName(dbc dbctx.Context, testerName string) (*types.UserProfile, error)
}

type profileService struct {
	db       *gorm.DB
	log      *logger.Logger
	profiles userrepo.ProfileRepo
}

func NewProfileService(db *gorm.DB, baseLog *logger.Logger, profiles userrepo.ProfileRepo) ProfileService {
	return &profileService{
		db:       db,
		log:      baseLog.With("service", "ProfileService"),
		profiles: profiles,
	}
}

func (s *profileService) Save(dbc dbctx.Context, in SettingsInput) (*types.UserProfile, error) {
	name := strings.TrimSpace(in.TesterName)
	if name == "" {
		return nil, apierr.InvalidMessage(fmt.Errorf("tester_name is required"))
	}
	pack := strings.TrimSpace(in.PackName)
	if pack == "" {
		return nil, apierr.InvalidMessage(fmt.Errorf("pack_name is required"))
	}
	if in.DailyStudyHours < 0 || in.DailyStudyHours > 24 {
		return nil, apierr.InvalidMessage(fmt.Errorf("daily_study_hours must be in [0, 24]"))
	}
	if in.TargetScore < 0 || in.TargetScore > 100 {
		return nil, apierr.InvalidMessage(fmt.Errorf("target_score must be in [0, 100]"))
	}
	if in.TargetTestDate != "" {
		if _, err := time.Parse("2006-01-02", in.TargetTestDate); err != nil {
			return nil, apierr.InvalidMessage(fmt.Errorf("target_test_date must be YYYY-MM-DD: %w", err))
		}
	}

	hours := in.DailyStudyHours
	if hours == 0 {
		hours = 1
	}
	score := in.TargetScore
	if score == 0 {
		score = 75
	}

	row := &types.UserProfile{
		ID:              uuid.New(),
		TesterName:      name,
		PackName:        pack,
		TargetTestDate:  in.TargetTestDate,
		DailyStudyHours: hours,
		TargetScore:     score,
		Notes:           strings.TrimSpace(in.Notes),
	}
	saved, err := s.profiles.Upsert(dbc, row)
	if err != nil {
		s.log.Error("save settings failed", "tester_name", name, "error", err)
		return nil, err
	}
	return saved, nil
}

func (s *profileService) Get(dbc dbctx.Context, id uuid.UUID) (*types.UserProfile, error) {
	row, err := s.profiles.GetByID(dbc, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return nil, apierr.UnknownUser(fmt.Errorf("user %s: %w", id, err))
		}
		return nil, err
	}
	return row, nil
}

func (s *profileService) GetByName(dbc dbctx.Context, testerName string) (*types.UserProfile, error) {
	name := strings.TrimSpace(testerName)
	if name == "" {
		return nil, apierr.InvalidMessage(fmt.Errorf("tester_name is required"))
	}
	row, err := s.profiles.GetByTesterName(dbc, name)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return nil, apierr.UnknownUser(fmt.Errorf("tester %q: %w", name, err))
		}
		return nil, err
	}
	return row, nil
}
