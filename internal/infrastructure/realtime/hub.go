// Package realtime pushes new messages to the receiver's open websocket
// connections.
package realtime

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/campusnest/sublet-market/internal/core/domain"
	"github.com/campusnest/sublet-market/internal/pkg/metrics"
)

const publishBuffer = 256

// Event is the frame written to clients.
type Event struct {
	Type    string       `json:"type"`
	Message MessageFrame `json:"message"`
}

// MessageFrame is the wire form of a pushed message.
type MessageFrame struct {
	ID         string `json:"id"`
	Content    string `json:"content"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	ListingID  string `json:"listingId,omitempty"`
	Read       bool   `json:"read"`
	CreatedAt  string `json:"createdAt"`
}

type delivery struct {
	userID  string
	payload []byte
}

// Hub tracks connected clients by user and fans messages out to them. All
// client bookkeeping happens on the Run goroutine.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	publish    chan delivery
	done       chan struct{}
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan delivery, publishBuffer),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run processes registrations and deliveries until ctx is cancelled, then
// closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for _, set := range h.clients {
				for c := range set {
					close(c.send)
				}
			}
			h.clients = make(map[string]map[*Client]struct{})
			metrics.RealtimeConnections.Set(0)
			return
		case c := <-h.register:
			set, ok := h.clients[c.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[c.userID] = set
			}
			set[c] = struct{}{}
			metrics.RealtimeConnections.Inc()
		case c := <-h.unregister:
			h.remove(c)
		case d := <-h.publish:
			for c := range h.clients[d.userID] {
				select {
				case c.send <- d.payload:
				default:
					// Slow consumer; the client reconnects and refetches.
					h.remove(c)
				}
			}
		}
	}
}

func (h *Hub) remove(c *Client) {
	set, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
	close(c.send)
	metrics.RealtimeConnections.Dec()
}

// Publish queues m for userID's connections. It never blocks the caller.
func (h *Hub) Publish(userID string, m *domain.Message) {
	payload, err := json.Marshal(Event{Type: "message", Message: Frame(m)})
	if err != nil {
		h.log.Error().Err(err).Str("message_id", m.ID).Msg("encode realtime event")
		return
	}
	select {
	case h.publish <- delivery{userID: userID, payload: payload}:
	default:
		h.log.Warn().Str("user_id", userID).Msg("realtime publish queue full, dropping")
	}
}

// Frame converts a message to its wire form.
func Frame(m *domain.Message) MessageFrame {
	return MessageFrame{
		ID:         m.ID,
		Content:    m.Content,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		ListingID:  m.ListingID,
		Read:       m.Read,
		CreatedAt:  domain.FormatTime(m.CreatedAt),
	}
}
