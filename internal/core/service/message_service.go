package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/campusnest/sublet-market/internal/core/domain"
	"github.com/campusnest/sublet-market/internal/core/ports"
)

const (
	maxMessageLength   = 5000
	defaultThreadLimit = 100
	maxThreadLimit     = 500
)

type MessageService struct {
	messages  ports.MessageRepository
	users     ports.UserRepository
	listings  ports.ListingRepository
	notifier  ports.Notifier
	publisher ports.MessagePublisher
	baseURL   string
	logger    zerolog.Logger
}

func NewMessageService(
	messages ports.MessageRepository,
	users ports.UserRepository,
	listings ports.ListingRepository,
	notifier ports.Notifier,
	publisher ports.MessagePublisher,
	baseURL string,
	logger zerolog.Logger,
) *MessageService {
	return &MessageService{
		messages:  messages,
		users:     users,
		listings:  listings,
		notifier:  notifier,
		publisher: publisher,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
	}
}

// Send stores a message from the caller and notifies the receiver by email
// and on any open realtime connection.
func (s *MessageService) Send(ctx context.Context, caller domain.Caller, input ports.SendMessageInput) (*domain.Message, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(content) > maxMessageLength {
		return nil, fmt.Errorf("%w: content must be at most %d characters", domain.ErrInvalidInput, maxMessageLength)
	}
	if input.ReceiverID == caller.UserID {
		return nil, domain.ErrSelfMessage
	}

	receiver, err := s.users.FindByID(ctx, input.ReceiverID)
	if err != nil {
		return nil, err
	}

	if input.ListingID != "" {
		l, err := s.listings.FindByID(ctx, input.ListingID)
		if err != nil {
			return nil, err
		}
		if !l.VisibleTo(caller) {
			return nil, domain.ErrListingNotFound
		}
	}

	m := &domain.Message{
		Content:    content,
		SenderID:   caller.UserID,
		ReceiverID: receiver.ID,
		ListingID:  input.ListingID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, m); err != nil {
		s.logger.Error().Err(err).Str("sender_id", caller.UserID).Msg("failed to store message")
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(receiver.ID, m)
	}
	s.notifyReceiver(ctx, caller, receiver, m)

	s.logger.Debug().
		Str("message_id", m.ID).
		Str("sender_id", m.SenderID).
		Str("receiver_id", m.ReceiverID).
		Msg("message sent")

	return m, nil
}

func (s *MessageService) notifyReceiver(ctx context.Context, caller domain.Caller, receiver *domain.User, m *domain.Message) {
	if s.notifier == nil || receiver.Email == "" {
		return
	}

	senderName := "A member"
	if sender, err := s.users.FindByID(ctx, caller.UserID); err == nil && sender.Name != "" {
		senderName = sender.Name
	}
	s.notifier.Enqueue(newMessageNotification(receiver, senderName, m, s.baseURL))
}

// Conversations derives the caller's inbox from the message collection: one
// entry per counterpart with the latest message and the number of unread
// messages the counterpart sent. Entries are ordered by latest message,
// newest first.
func (s *MessageService) Conversations(ctx context.Context, caller domain.Caller) ([]domain.Conversation, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	counterparts, err := s.messages.CounterpartIDs(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("list counterparts: %w", err)
	}
	if len(counterparts) == 0 {
		return []domain.Conversation{}, nil
	}

	users, err := s.users.FindByIDs(ctx, counterparts)
	if err != nil {
		return nil, fmt.Errorf("load counterparts: %w", err)
	}

	conversations := make([]domain.Conversation, 0, len(counterparts))
	for _, otherID := range counterparts {
		latest, err := s.messages.Latest(ctx, caller.UserID, otherID)
		if err != nil {
			return nil, fmt.Errorf("latest message with %s: %w", otherID, err)
		}
		if latest == nil {
			continue
		}
		unread, err := s.messages.CountUnread(ctx, otherID, caller.UserID)
		if err != nil {
			return nil, fmt.Errorf("unread count from %s: %w", otherID, err)
		}

		other := domain.PublicUser{ID: otherID}
		if u, ok := users[otherID]; ok {
			other = u.Public()
		}
		conversations = append(conversations, domain.Conversation{
			OtherUser:   other,
			LastMessage: latest,
			UnreadCount: unread,
		})
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		a, b := conversations[i].LastMessage, conversations[j].LastMessage
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID > b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return conversations, nil
}

func (s *MessageService) Thread(ctx context.Context, caller domain.Caller, otherID string, limit int) ([]*domain.Message, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if otherID == caller.UserID {
		return nil, domain.ErrSelfMessage
	}
	if limit <= 0 {
		limit = defaultThreadLimit
	}
	if limit > maxThreadLimit {
		limit = maxThreadLimit
	}

	thread, err := s.messages.Thread(ctx, caller.UserID, otherID, limit)
	if err != nil {
		return nil, fmt.Errorf("load thread with %s: %w", otherID, err)
	}

	if _, err := s.messages.MarkRead(ctx, otherID, caller.UserID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", caller.UserID).Str("other_id", otherID).Msg("failed to mark thread read")
		return thread, nil
	}
	for _, m := range thread {
		if m.ReceiverID == caller.UserID {
			m.Read = true
		}
	}
	return thread, nil
}

func (s *MessageService) MarkRead(ctx context.Context, caller domain.Caller, otherID string) (int64, error) {
	if !caller.Authenticated() {
		return 0, domain.ErrUnauthenticated
	}
	n, err := s.messages.MarkRead(ctx, otherID, caller.UserID)
	if err != nil {
		return 0, fmt.Errorf("mark read from %s: %w", otherID, err)
	}
	return n, nil
}

func (s *MessageService) UnreadCount(ctx context.Context, caller domain.Caller) (int64, error) {
	if !caller.Authenticated() {
		return 0, domain.ErrUnauthenticated
	}
	n, err := s.messages.CountUnreadFor(ctx, caller.UserID)
	if err != nil {
		return 0, fmt.Errorf("unread count: %w", err)
	}
	return n, nil
}
