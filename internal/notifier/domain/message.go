package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cuongbtq/sitejobs/internal/notify"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Envelope pairs a decoded notification with the delivery to acknowledge
type Envelope struct {
	Message  notify.Message
	Delivery amqp.Delivery
}

// DecodeMessage parses a queued notification body
func DecodeMessage(body []byte) (notify.Message, error) {
	var msg notify.Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return notify.Message{}, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if strings.TrimSpace(msg.Recipient) == "" {
		return notify.Message{}, fmt.Errorf("%w: recipient is empty", ErrInvalidMessage)
	}
	if strings.TrimSpace(msg.Text) == "" {
		return notify.Message{}, fmt.Errorf("%w: text is empty", ErrInvalidMessage)
	}
	return msg, nil
}
