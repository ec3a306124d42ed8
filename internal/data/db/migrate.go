package db

import (
	"gorm.io/gorm"

	types "github.com/adaptlearn/adaptlearn-backend/internal/domain"
)

// AutoMigrateAll creates or updates every table the core owns.
func AutoMigrateAll(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&types.UserProfile{},
		&types.ChatMessage{},
		&types.AgentSession{},
		&types.LearningPlan{},
		&types.QuestionStat{},
	)
}

func (s *PostgresService) AutoMigrateAll() error {
	return AutoMigrateAll(s.db)
}
