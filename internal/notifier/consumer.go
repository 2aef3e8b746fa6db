package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/sitejobs/internal/notifier/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// setupConsumer sets up RabbitMQ consumer with QoS and returns delivery channel
func (n *Notifier) setupConsumer() (<-chan amqp.Delivery, error) {
	if err := n.broker.Qos(n.prefetchCount); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	n.logger.Info("RabbitMQ QoS configured",
		slog.Int("prefetch_count", n.prefetchCount),
	)

	// manual acknowledgment, consumer tag is the worker id
	deliveries, err := n.broker.Consume(n.workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	n.logger.Info("RabbitMQ consumer started",
		slog.String("consumer_tag", n.workerID),
		slog.String("queue", n.queueName),
	)

	return deliveries, nil
}

// startMessageDispatcher decodes deliveries and hands them to the worker pool
func (n *Notifier) startMessageDispatcher(ctx context.Context, deliveries <-chan amqp.Delivery) {
	n.logger.Info("Message dispatcher started",
		slog.String("worker_id", n.workerID),
	)

	for {
		select {
		case <-ctx.Done():
			n.logger.Info("Message dispatcher stopped - context canceled")
			return

		case delivery, ok := <-deliveries:
			if !ok {
				n.logger.Warn("RabbitMQ delivery channel closed")
				return
			}

			msg, err := domain.DecodeMessage(delivery.Body)
			if err != nil {
				n.logger.Error("Failed to parse notification",
					slog.String("error", err.Error()),
					slog.String("body", string(delivery.Body)),
				)
				// malformed messages go to the dead letter exchange
				if nackErr := delivery.Nack(false, false); nackErr != nil {
					n.logger.Error("Failed to NACK malformed message",
						slog.String("error", nackErr.Error()),
					)
				}
				continue
			}

			select {
			case n.messagesChan <- &domain.Envelope{Message: msg, Delivery: delivery}:
				n.logger.Debug("Notification dispatched to worker pool",
					slog.String("recipient", msg.Recipient),
					slog.Uint64("delivery_tag", delivery.DeliveryTag),
				)
			case <-ctx.Done():
				n.logger.Info("Message dispatcher stopped while dispatching")
				if nackErr := delivery.Nack(false, true); nackErr != nil {
					n.logger.Error("Failed to NACK message on shutdown",
						slog.String("error", nackErr.Error()),
					)
				}
				return
			}
		}
	}
}
