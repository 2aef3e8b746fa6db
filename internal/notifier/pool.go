package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/sitejobs/internal/notifier/domain"
)

// spawnWorkerPool spawns N worker goroutines based on concurrency configuration
func (n *Notifier) spawnWorkerPool(ctx context.Context) {
	n.logger.Info("Spawning worker pool",
		slog.Int("concurrency", n.concurrency),
		slog.String("worker_id", n.workerID),
	)

	for i := 0; i < n.concurrency; i++ {
		n.wg.Add(1)
		go n.workerLoop(ctx, i)
	}
}

// workerLoop delivers messages until messagesChan is closed. Messages
// still buffered after cancellation are requeued.
func (n *Notifier) workerLoop(ctx context.Context, workerNum int) {
	defer n.wg.Done()

	workerName := fmt.Sprintf("%s-%d", n.workerID, workerNum)
	n.logger.Debug("Worker goroutine started",
		slog.String("worker_name", workerName),
	)

	for env := range n.messagesChan {
		delivery := env.Delivery

		if ctx.Err() != nil {
			if nackErr := delivery.Nack(false, true); nackErr != nil {
				n.logger.Error("Failed to NACK message on shutdown",
					slog.String("worker_name", workerName),
					slog.String("error", nackErr.Error()),
				)
			}
			continue
		}

		err := n.processMessage(ctx, env)
		if err != nil {
			requeue := shouldRequeue(err)

			n.logger.Error("Notification delivery failed",
				slog.String("worker_name", workerName),
				slog.String("recipient", env.Message.Recipient),
				slog.Bool("requeue", requeue),
				slog.String("error", err.Error()),
			)

			if nackErr := delivery.Nack(false, requeue); nackErr != nil {
				n.logger.Error("Failed to NACK message",
					slog.String("worker_name", workerName),
					slog.String("error", nackErr.Error()),
				)
			}
			continue
		}

		if ackErr := delivery.Ack(false); ackErr != nil {
			n.logger.Error("Failed to ACK message",
				slog.String("worker_name", workerName),
				slog.String("error", ackErr.Error()),
			)
			continue
		}

		n.logger.Info("Notification delivered",
			slog.String("worker_name", workerName),
			slog.String("recipient", env.Message.Recipient),
		)
	}

	n.logger.Debug("Worker goroutine stopping - messages channel closed",
		slog.String("worker_name", workerName),
	)
}

// shouldRequeue decides whether a failed delivery is tried again
func shouldRequeue(err error) bool {
	if errors.Is(err, domain.ErrInvalidMessage) || errors.Is(err, domain.ErrMessageExpired) {
		return false
	}

	var retryableErr *domain.RetryableError
	return errors.As(err, &retryableErr)
}
