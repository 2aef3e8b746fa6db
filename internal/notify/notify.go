// Package notify delivers short text messages to workers and requesters.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Sender delivers a text to a recipient, usually a phone number or worker id
type Sender interface {
	Send(ctx context.Context, recipient, text string) error
}

// Message is the queued form of a notification
type Message struct {
	Recipient string    `json:"recipient"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Publisher is the subset of the RabbitMQ client used by QueueSender
type Publisher interface {
	PublishWithRetry(ctx context.Context, body []byte, contentType string) error
}

// QueueSender hands messages to RabbitMQ for the notifier service
type QueueSender struct {
	publisher Publisher
	now       func() time.Time
}

func NewQueueSender(publisher Publisher) *QueueSender {
	return &QueueSender{publisher: publisher, now: time.Now}
}

func (q *QueueSender) Send(ctx context.Context, recipient, text string) error {
	body, err := json.Marshal(Message{
		Recipient: recipient,
		Text:      text,
		CreatedAt: q.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	if err := q.publisher.PublishWithRetry(ctx, body, "application/json"); err != nil {
		return fmt.Errorf("failed to queue notification: %w", err)
	}
	return nil
}

// LogSender only logs; used when no broker is configured
type LogSender struct {
	Logger *slog.Logger
}

func (l LogSender) Send(_ context.Context, recipient, text string) error {
	l.Logger.Info("Notification",
		slog.String("recipient", recipient),
		slog.String("text", text),
	)
	return nil
}
