// Package redis publishes turn-completed events so other processes (an
// SSE fan-out, a session dashboard) can follow conversations without
// polling the database.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/adaptlearn/adaptlearn-backend/internal/platform/envutil"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/logger"
)

// TurnEvent is the payload published after every completed turn.
type TurnEvent struct {
	UserID       string `json:"user_id"`
	AgentID      string `json:"agent_id"`
	Seq          int64  `json:"seq"`
	PlanRevision int64  `json:"plan_revision,omitempty"`
	At           string `json:"at"`
}

type TurnBus interface {
	Publish(ctx context.Context, ev TurnEvent) error
	Subscribe(ctx context.Context, onEvent func(ev TurnEvent)) error
	Close() error
}

type turnBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

// NewTurnBus connects to REDIS_ADDR. Returns an error when the address is
// unset or unreachable; the caller treats the bus as optional.
func NewTurnBus(log *logger.Logger) (TurnBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(envutil.String("REDIS_ADDR", ""))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	channel := envutil.String("REDIS_TURN_CHANNEL", "turns")

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    envutil.String("REDIS_PASSWORD", ""),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &turnBus{
		log:     log.With("service", "RedisTurnBus"),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (b *turnBus) Publish(ctx context.Context, ev TurnEvent) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("turn bus not initialized")
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *turnBus) Subscribe(ctx context.Context, onEvent func(ev TurnEvent)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("turn bus not initialized")
	}
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer func() { _ = sub.Close() }()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev TurnEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.log.Warn("drop malformed turn event", "error", err)
					continue
				}
				onEvent(ev)
			}
		}
	}()
	return nil
}

func (b *turnBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
