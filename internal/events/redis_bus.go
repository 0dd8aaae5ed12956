package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/oggyb/muzz-interest/internal/logger"
)

const DefaultChannel = "interest.events"

// RedisBus publishes envelopes as JSON on a Redis pub/sub channel.
type RedisBus struct {
	log     *slog.Logger
	rdb     *goredis.Client
	channel string
}

func NewRedisBus(rdb *goredis.Client, channel string, log *slog.Logger) (*RedisBus, error) {
	if rdb == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if channel == "" {
		channel = DefaultChannel
	}
	if log == nil {
		log = logger.L()
	}
	return &RedisBus{log: log.With("service", "RedisEventBus"), rdb: rdb, channel: channel}, nil
}

func (b *RedisBus) Channel() string { return b.channel }

func (b *RedisBus) Publish(ctx context.Context, e Event) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis event bus not initialized")
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := b.rdb.Publish(ctx, b.channel, raw).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	return nil
}

// Subscribe forwards decoded events to onEvent until ctx is done. It
// returns once the subscription is confirmed.
func (b *RedisBus) Subscribe(ctx context.Context, onEvent func(Event)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis event bus not initialized")
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
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var e Event
				if err := json.Unmarshal([]byte(m.Payload), &e); err != nil {
					b.log.Warn("bad event payload", "error", err)
					continue
				}
				onEvent(e)
			}
		}
	}()
	return nil
}
