package events

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"threadmart/contexts/commerce-core/order-service/ports"
	"threadmart/internal/platform/messaging"
	sharedevents "threadmart/internal/shared/events"
)

const Topic = "commerce.orders.status-changed"

// Publisher puts order status changes on the platform bus wrapped in the
// shared envelope.
type Publisher struct {
	Bus    *messaging.Bus
	Source string
	Logger *slog.Logger
}

func (p Publisher) PublishOrderStatusChanged(ctx context.Context, event ports.OrderStatusChangedEvent) error {
	envelope := sharedevents.Envelope{
		EventID:        uuid.NewString(),
		EventType:      "order.status_changed",
		SourceService:  p.Source,
		OccurredAtUTC:  event.OccurredAt,
		CorrelationID:  event.OrderID,
		EntityType:     "order",
		EntityID:       event.OrderID,
		PayloadVersion: 1,
		Payload:        event,
	}
	if err := p.Bus.Publish(ctx, Topic, envelope); err != nil {
		return err
	}
	if p.Logger != nil {
		p.Logger.Info("order status change published",
			"event", "order_status_changed_published",
			"module", "commerce-core/order-service",
			"layer", "adapter",
			"order_id", event.OrderID,
			"from", string(event.From),
			"to", string(event.To),
		)
	}
	return nil
}
