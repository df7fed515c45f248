package mq

import (
	"context"
	"encoding/json"
	"log"

	"modesta/models"

	"github.com/redis/go-redis/v9"
)

// RedisBus fans events out across processes with Redis pub/sub.
type RedisBus struct {
	client *redis.Client
}

func NewRedisBus(client *redis.Client) *RedisBus {
	return &RedisBus{client: client}
}

func (b *RedisBus) Publish(ctx context.Context, channel string, ev models.BusEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, channel, data).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context, channel string, h Handler) error {
	sub := b.client.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return err
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		log.Printf("[Worker] Listening on %s", channel)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev models.BusEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Printf("[Worker] %s: failed to parse event: %v", channel, err)
					continue
				}
				h(ctx, ev)
			}
		}
	}()
	return nil
}
