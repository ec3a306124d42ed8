package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Milestone is one scheduled item inside a learning plan.
type Milestone struct {
	Description            string `json:"description"`
	TargetDate             string `json:"target_date,omitempty"`
	EstimatedEffortMinutes int    `json:"estimated_effort_minutes,omitempty"`
}

// LearningPlan is an immutable full-replacement snapshot. Every accepted
// synthesis writes a new row with revision = previous + 1; prior revisions
// are retained for audit.
type LearningPlan struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index;index:idx_learning_plan_user_rev,unique,priority:1" json:"user_id"`

	Revision int64 `gorm:"column:revision;not null;index:idx_learning_plan_user_rev,unique,priority:2" json:"revision"`

	StrategySummary string         `gorm:"column:strategy_summary;type:text;not null" json:"strategy_summary"`
	Milestones      datatypes.JSON `gorm:"type:jsonb;column:milestones;not null;default:'[]'" json:"milestones"`
	DiffSummary     string         `gorm:"column:diff_summary;type:text;not null;default:''" json:"diff_summary"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (LearningPlan) TableName() string { return "learning_plan" }

// MilestoneList decodes the stored milestone array.
func (p *LearningPlan) MilestoneList() []Milestone {
	if p == nil || len(p.Milestones) == 0 {
		return nil
	}
	var out []Milestone
	if err := json.Unmarshal(p.Milestones, &out); err != nil {
		return nil
	}
	return out
}

// SetMilestones encodes the milestone array for storage.
func (p *LearningPlan) SetMilestones(ms []Milestone) error {
	if ms == nil {
		ms = []Milestone{}
	}
	raw, err := json.Marshal(ms)
	if err != nil {
		return err
	}
	p.Milestones = datatypes.JSON(raw)
	return nil
}
