package ports

import (
	"context"

	"github.com/campusnest/sublet-market/internal/core/domain"
)

// SendMessageInput carries a new direct message.
type SendMessageInput struct {
	ReceiverID string
	Content    string
	ListingID  string // optional
}

// MessageService defines use-case operations for in-app messaging.
type MessageService interface {
	Send(ctx context.Context, caller domain.Caller, input SendMessageInput) (*domain.Message, error)
	// Conversations lists one entry per counterpart, most recent first.
	Conversations(ctx context.Context, caller domain.Caller) ([]domain.Conversation, error)
	// Thread returns the messages exchanged with otherID and marks the ones
	// addressed to the caller as read.
	Thread(ctx context.Context, caller domain.Caller, otherID string, limit int) ([]*domain.Message, error)
	MarkRead(ctx context.Context, caller domain.Caller, otherID string) (int64, error)
	UnreadCount(ctx context.Context, caller domain.Caller) (int64, error)
}
