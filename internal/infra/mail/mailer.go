package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	rabbit "storefront/internal/infra/rabbitmq"
)

// RoutingKey is where outbound mail is queued for the delivery worker.
const RoutingKey = "email.send"

var ErrInvalidMessage = errors.New("mail: invalid message")

type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// QueueMailer hands messages to the broker; delivery happens downstream.
type QueueMailer struct {
	publisher rabbit.PublisherInterface
}

var _ Mailer = (*QueueMailer)(nil)

func NewQueueMailer(p rabbit.PublisherInterface) *QueueMailer {
	return &QueueMailer{publisher: p}
}

func (m *QueueMailer) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" || strings.TrimSpace(msg.Subject) == "" {
		return fmt.Errorf("%w: recipient and subject are required", ErrInvalidMessage)
	}
	if err := m.publisher.Publish(ctx, RoutingKey, msg); err != nil {
		return fmt.Errorf("mail: enqueue: %w", err)
	}
	return nil
}
