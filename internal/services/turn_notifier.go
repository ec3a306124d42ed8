package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	redisclient "github.com/adaptlearn/adaptlearn-backend/internal/clients/redis"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/logger"
)

// TurnNotifier announces completed turns to interested processes. The
// turn itself never fails on a notification error.
type TurnNotifier interface {
	TurnCompleted(userID uuid.UUID, agentID string, seq int64, planRevision int64)
}

type turnNotifier struct {
	log *logger.Logger
	bus redisclient.TurnBus
}

// NewTurnNotifier wraps bus; bus may be nil, which makes every
// notification a no-op.
func NewTurnNotifier(baseLog *logger.Logger, bus redisclient.TurnBus) TurnNotifier {
	return &turnNotifier{
		log: baseLog.With("service", "TurnNotifier"),
		bus: bus,
	}
}

func (n *turnNotifier) TurnCompleted(userID uuid.UUID, agentID string, seq int64, planRevision int64) {
	if n == nil || n.bus == nil || userID == uuid.Nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ev := redisclient.TurnEvent{
		UserID:       userID.String(),
		AgentID:      agentID,
		Seq:          seq,
		PlanRevision: planRevision,
		At:           time.Now().UTC().Format(time.RFC3339),
	}
	if err := n.bus.Publish(ctx, ev); err != nil {
		n.log.Warn("turn event publish failed", "user_id", userID.String(), "error", err)
	}
}
