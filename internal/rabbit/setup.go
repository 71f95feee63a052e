// setup.go
package rabbit

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const queueName = "order_view_service_events"

var routingKeys = []string{
	RoutingOrderPlaced,
	RoutingOrderStatusUpdate,
	RoutingPaymentStatusUpdate,
}

// Delivery is the subset of amqp091.Delivery the consume loop needs.
type Delivery interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// SetupConsumers declares the queue, binds it to exchange and starts the
// consume loop. The loop stops when ctx is done or the channel closes.
func SetupConsumers(ctx context.Context, ch *amqp091.Channel, exchange string, consumer *EventConsumer, logger *zap.Logger) error {
	if err := ch.ExchangeDeclare(exchange, amqp091.ExchangeTopic, true, false, false, false, nil); err != nil {
		return pkgerrors.Wrap(err, "declare exchange")
	}

	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return pkgerrors.Wrap(err, "declare queue")
	}

	for _, key := range routingKeys {
		if err := ch.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			return pkgerrors.Wrapf(err, "bind %s", key)
		}
	}

	msgs, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return pkgerrors.Wrap(err, "consume queue")
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					logger.Warn("event channel closed")
					return
				}
				process(ctx, consumer, logger, m.RoutingKey, m.Body, &m)
			}
		}
	}()

	logger.Info("subscribed to order events", zap.String("exchange", exchange), zap.String("queue", q.Name))
	return nil
}

func process(ctx context.Context, consumer *EventConsumer, logger *zap.Logger, routingKey string, body []byte, d Delivery) {
	if err := consumer.Handle(ctx, routingKey, body); err != nil {
		logger.Error("event rejected", zap.String("routingKey", routingKey), zap.Error(err))
		if nackErr := d.Nack(false, false); nackErr != nil {
			logger.Error("nack failed", zap.Error(nackErr))
		}
		return
	}
	if err := d.Ack(false); err != nil {
		logger.Error("ack failed", zap.Error(err))
	}
}
