package ports

import (
	"context"

	"github.com/campusnest/sublet-market/internal/core/domain"
)

// MessageRepository defines persistence operations for direct messages.
type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) error
	// CounterpartIDs returns every distinct user the given user has sent a
	// message to or received one from.
	CounterpartIDs(ctx context.Context, userID string) ([]string, error)
	// Latest returns the most recent message exchanged between a and b in
	// either direction, or nil when there is none.
	Latest(ctx context.Context, a, b string) (*domain.Message, error)
	CountUnread(ctx context.Context, senderID, receiverID string) (int64, error)
	CountUnreadFor(ctx context.Context, receiverID string) (int64, error)
	// Thread returns up to limit of the latest messages between a and b,
	// oldest first.
	Thread(ctx context.Context, a, b string, limit int) ([]*domain.Message, error)
	// MarkRead flags every unread message from senderID to receiverID as read
	// and returns how many changed.
	MarkRead(ctx context.Context, senderID, receiverID string) (int64, error)
	// DeleteByUser removes messages the user sent or received.
	DeleteByUser(ctx context.Context, userID string) error
}
