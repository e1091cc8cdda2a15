package domain

import "time"

// Message is a directed note from one user to another, optionally about a listing.
type Message struct {
	ID         string    `json:"id" bson:"_id"`
	Content    string    `json:"content" bson:"content"`
	SenderID   string    `json:"sender_id" bson:"sender_id"`
	ReceiverID string    `json:"receiver_id" bson:"receiver_id"`
	ListingID  string    `json:"listing_id,omitempty" bson:"listing_id,omitempty"`
	Read       bool      `json:"read" bson:"read"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// Counterpart returns the other participant of the message from userID's
// point of view.
func (m *Message) Counterpart(userID string) string {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// Conversation is the derived view of every message between a user and one
// counterpart. It is never persisted.
type Conversation struct {
	OtherUser   PublicUser
	LastMessage *Message
	UnreadCount int64
}
