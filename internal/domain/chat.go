package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message roles.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// ChatMessage is one turn half. Immutable once created; seq is monotonic
// per user and unique within (user_id, seq).
type ChatMessage struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index;index:idx_chat_message_user_seq,unique,priority:1" json:"user_id"`

	Seq int64 `gorm:"column:seq;not null;index:idx_chat_message_user_seq,unique,priority:2" json:"seq"`

	Role    string `gorm:"column:role;not null" json:"role"`
	AgentID string `gorm:"column:agent_id;not null;default:''" json:"agent_id,omitempty"`
	Content string `gorm:"column:content;type:text;not null" json:"content"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (ChatMessage) TableName() string { return "chat_message" }

// AgentSession tracks the single active agent for a user. One row per user;
// a turn is answered by exactly one agent.
type AgentSession struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	ActiveAgent string    `gorm:"column:active_agent;not null" json:"active_agent"`

	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (AgentSession) TableName() string { return "agent_session" }
