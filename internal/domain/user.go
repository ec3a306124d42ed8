package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is the root entity: one row per tester, keyed by tester name.
// Chat history and learning plans hang off it and are never shared.
type UserProfile struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TesterName string    `gorm:"column:tester_name;not null;uniqueIndex" json:"tester_name"`
	PackName   string    `gorm:"column:pack_name;not null" json:"pack_name"`

	TargetTestDate  string `gorm:"column:target_test_date" json:"target_test_date"`
	DailyStudyHours int    `gorm:"column:daily_study_hours;not null;default:1" json:"daily_study_hours"`
	TargetScore     int    `gorm:"column:target_score;not null;default:75" json:"target_score"`
	Notes           string `gorm:"column:notes;type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (UserProfile) TableName() string { return "user_profile" }
