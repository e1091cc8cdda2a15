package ports

import (
	"context"

	"github.com/campusnest/sublet-market/internal/core/domain"
)

// Notifier queues outbound email for asynchronous delivery.
type Notifier interface {
	Enqueue(n domain.Notification)
}

// Mailer delivers a single email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// MessagePublisher pushes freshly sent messages to the receiver's live
// connections. Delivery is best effort.
type MessagePublisher interface {
	Publish(userID string, m *domain.Message)
}
