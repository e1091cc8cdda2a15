package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/campusnest/sublet-market/internal/core/ports"
	"github.com/campusnest/sublet-market/internal/pkg/metrics"
)

// StreamServer takes ownership of an upgraded connection and blocks until it
// closes.
type StreamServer interface {
	Serve(conn *websocket.Conn, userID string)
}

type MessageHandler struct {
	messageService ports.MessageService
	streams        StreamServer
	upgrader       websocket.Upgrader
}

// NewMessageHandler wires the messaging endpoints. allowedOrigins restricts
// websocket handshakes the same way CORS restricts XHR; "*" allows any.
func NewMessageHandler(messageService ports.MessageService, streams StreamServer, allowedOrigins []string) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		streams:        streams,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// Send stores a direct message and pushes it to the receiver.
//
// @Summary      Send message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sendMessageRequest  true  "Message"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/messages [post]
func (h *MessageHandler) Send(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg, err := h.messageService.Send(c.Request().Context(), caller, ports.SendMessageInput{
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
		ListingID:  req.ListingID,
	})
	if err != nil {
		return err
	}

	metrics.MessagesSentTotal.Inc()
	return c.JSON(http.StatusCreated, toMessageResponse(msg))
}

// Conversations lists one entry per counterpart, newest first.
//
// @Summary      List conversations
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   conversationResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/conversations [get]
func (h *MessageHandler) Conversations(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	convs, err := h.messageService.Conversations(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	resp := make([]conversationResponse, 0, len(convs))
	for _, conv := range convs {
		resp = append(resp, toConversationResponse(conv))
	}
	return c.JSON(http.StatusOK, resp)
}

// Thread returns the messages exchanged with one user, oldest first.
//
// @Summary      Conversation thread
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true   "Counterpart user ID"
// @Param        limit   query     int     false  "Most recent N messages (default 100, max 500)"
// @Success      200     {array}   messageResponse
// @Failure      404     {object}  errorResponse
// @Router       /v1/conversations/{userId} [get]
func (h *MessageHandler) Thread(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	msgs, err := h.messageService.Thread(c.Request().Context(), caller, c.Param("userId"), queryInt(c, "limit"))
	if err != nil {
		return err
	}

	resp := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		resp = append(resp, toMessageResponse(m))
	}
	return c.JSON(http.StatusOK, resp)
}

// MarkRead marks every message from the counterpart to the caller as read.
//
// @Summary      Mark conversation read
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Counterpart user ID"
// @Success      200     {object}  markReadResponse
// @Router       /v1/conversations/{userId}/read [post]
func (h *MessageHandler) MarkRead(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	n, err := h.messageService.MarkRead(c.Request().Context(), caller, c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, markReadResponse{Updated: n})
}

// UnreadCount returns how many messages the caller has not read yet.
//
// @Summary      Unread message count
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  unreadCountResponse
// @Router       /v1/messages/unread [get]
func (h *MessageHandler) UnreadCount(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	n, err := h.messageService.UnreadCount(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, unreadCountResponse{Unread: n})
}

// Stream upgrades to a websocket that receives every new message addressed
// to the caller. The token may be passed as the "token" query parameter.
//
// @Summary      Message stream
// @Tags         messages
// @Security     BearerAuth
// @Param        token  query  string  false  "JWT when the Authorization header cannot be set"
// @Success      101
// @Failure      401  {object}  errorResponse
// @Router       /v1/messages/stream [get]
func (h *MessageHandler) Stream(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader already wrote the HTTP error response.
		return nil
	}
	h.streams.Serve(conn, caller.UserID)
	return nil
}
