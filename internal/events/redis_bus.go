package events

import (
	"context"
	"encoding/json"

	"threadline/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const messageChannel = "threadline:chat:messages"

// RedisBus publishes message events over a single redis channel so every api
// instance can fan them out to its own websocket clients.
type RedisBus struct {
	client *goredis.Client
	log    *logger.Logger
}

func NewRedisBus(client *goredis.Client, log *logger.Logger) *RedisBus {
	return &RedisBus{client: client, log: log}
}

func (b *RedisBus) Publish(ctx context.Context, event MessageEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, messageChannel, data).Err()
}

// Subscribe consumes events until ctx is cancelled. Malformed payloads are
// logged and skipped; the subscription keeps running.
func (b *RedisBus) Subscribe(ctx context.Context, handler Handler) error {
	pubsub := b.client.Subscribe(ctx, messageChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event MessageEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					b.log.With(ctx).Warn("dropping malformed message event", zap.Error(err))
					continue
				}
				handler(ctx, event)
			}
		}
	}()
	return nil
}
