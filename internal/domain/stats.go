package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuestionStat aggregates answer events for one question in one pack.
// Exposure and correctness count first attempts only; latency is a running
// average over first attempts.
type QuestionStat struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PackName   string    `gorm:"column:pack_name;not null;index:idx_question_stat_pack_q,unique,priority:1" json:"pack_name"`
	QuestionID string    `gorm:"column:question_id;not null;index:idx_question_stat_pack_q,unique,priority:2" json:"question_id"`

	Category   string `gorm:"column:category;not null;index" json:"category"`
	Difficulty int    `gorm:"column:difficulty;not null;default:5" json:"difficulty"`

	TotalAttempts  int64 `gorm:"column:total_attempts;not null;default:0" json:"total_attempts"`
	TotalCorrect   int64 `gorm:"column:total_correct;not null;default:0" json:"total_correct"`
	TotalIncorrect int64 `gorm:"column:total_incorrect;not null;default:0" json:"total_incorrect"`
	HintCount      int64 `gorm:"column:hint_count;not null;default:0" json:"hint_count"`
	AvgLatencyMS   int64 `gorm:"column:avg_latency_ms;not null;default:0" json:"avg_latency_ms"`

	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (QuestionStat) TableName() string { return "question_stat" }

// CorrectRate is total_correct / total_attempts, 0 when unexposed.
func (s *QuestionStat) CorrectRate() float64 {
	if s == nil || s.TotalAttempts == 0 {
		return 0
	}
	return float64(s.TotalCorrect) / float64(s.TotalAttempts)
}
