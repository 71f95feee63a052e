package rabbit

import (
	"context"
	"encoding/json"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"order-view-service/internal/dto"
)

const (
	RoutingOrderPlaced         = "orderPlaced"
	RoutingOrderStatusUpdate   = "orderStatusUpdate"
	RoutingPaymentStatusUpdate = "paymentStatusUpdate"
)

var ErrUnknownEvent = errors.New("unknown event")

// EventHandler is the part of the order view service fed by the broker.
type EventHandler interface {
	IngestOrder(ctx context.Context, ev dto.OrderPlacedEvent) error
	ApplyStatusUpdate(ctx context.Context, ev dto.StatusUpdateEvent) error
	ApplyPaymentUpdate(ctx context.Context, ev dto.PaymentUpdateEvent) error
}

type EventConsumer struct {
	handler EventHandler
	logger  *zap.Logger
}

func NewEventConsumer(h EventHandler, logger *zap.Logger) *EventConsumer {
	return &EventConsumer{handler: h, logger: logger}
}

// Handle decodes body according to routingKey and applies it.
func (c *EventConsumer) Handle(ctx context.Context, routingKey string, body []byte) error {
	c.logger.Debug("event received", zap.String("routingKey", routingKey))

	switch routingKey {
	case RoutingOrderPlaced:
		var ev dto.OrderPlacedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return pkgerrors.Wrap(err, "decode orderPlaced")
		}
		return c.handler.IngestOrder(ctx, ev)
	case RoutingOrderStatusUpdate:
		var ev dto.StatusUpdateEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return pkgerrors.Wrap(err, "decode orderStatusUpdate")
		}
		return c.handler.ApplyStatusUpdate(ctx, ev)
	case RoutingPaymentStatusUpdate:
		var ev dto.PaymentUpdateEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return pkgerrors.Wrap(err, "decode paymentStatusUpdate")
		}
		return c.handler.ApplyPaymentUpdate(ctx, ev)
	default:
		return pkgerrors.Wrap(ErrUnknownEvent, routingKey)
	}
}
