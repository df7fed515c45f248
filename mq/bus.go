package mq

import (
	"context"
	"log"

	"modesta/models"
)

const (
	OrderChannel   = "order-events"
	CatalogChannel = "catalog-events"
)

type Publisher interface {
	Publish(ctx context.Context, channel string, ev models.BusEvent) error
}

type Handler func(ctx context.Context, ev models.BusEvent)

// Bus delivers events to subscribers. Subscribe returns once the
// subscription is live; delivery stops when ctx is cancelled.
type Bus interface {
	Publisher
	Subscribe(ctx context.Context, channel string, h Handler) error
}

// Emit publishes ev and only logs failures.
func Emit(ctx context.Context, p Publisher, channel string, ev models.BusEvent) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, channel, ev); err != nil {
		log.Printf("[Emit] Failed to publish %s to %s: %v", ev.Type, channel, err)
	}
}
