package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/cuongbtq/sitejobs/internal/notifier/domain"
	"github.com/cuongbtq/sitejobs/internal/notify"
)

// processMessage delivers one notification within the send timeout
func (n *Notifier) processMessage(ctx context.Context, env *domain.Envelope) error {
	msg := env.Message

	if n.maxMessageAge > 0 && !msg.CreatedAt.IsZero() {
		if age := n.now().Sub(msg.CreatedAt); age > n.maxMessageAge {
			n.logger.Warn("Dropping expired notification",
				slog.String("recipient", msg.Recipient),
				slog.Duration("age", age),
			)
			return fmt.Errorf("%w: queued %s ago", domain.ErrMessageExpired, age)
		}
	}

	sendCtx, cancel := context.WithTimeout(ctx, n.sendTimeout)
	defer cancel()

	if err := n.sender.Send(sendCtx, msg.Recipient, msg.Text); err != nil {
		if retryable(err) {
			return domain.NewRetryableError(err)
		}
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

// retryable reports transient failures: timeouts, network errors and
// throttled or failing upstream responses
func retryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var deliveryErr *notify.DeliveryError
	if errors.As(err, &deliveryErr) {
		return deliveryErr.Temporary()
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
