package ws

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatModel "github.com/carelinehq/careline/backend/internal/model/chat"
	conversationService "github.com/carelinehq/careline/backend/internal/service/conversation"
)

const pingInterval = 30 * time.Second

// Handler serves a live websocket feed of the conversation. Clients
// receive a full snapshot frame on every change and may submit turns
// with {"type":"submit","text":"..."} frames.
type Handler struct {
	conversation *conversationService.Service
	upgrader     websocket.Upgrader
}

// New creates the websocket handler.
func New(conversation *conversationService.Service) *Handler {
	return &Handler{
		conversation: conversation,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the websocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

type inboundFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type snapshotFrame struct {
	Type      string              `json:"type"`
	Messages  []chatModel.Message `json:"messages"`
	Pending   bool                `json:"pending"`
	Timestamp int64               `json:"timestamp"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	changes, cancel := h.conversation.Subscribe()
	defer cancel()

	// Only writeLoop writes to the connection; reads stay on this
	// goroutine so a closed peer tears the feed down.
	done := make(chan struct{})
	defer close(done)
	go h.writeLoop(conn, changes, done)

	h.readLoop(r.Context(), conn)
}

func (h *Handler) writeLoop(conn *websocket.Conn, changes <-chan struct{}, done <-chan struct{}) {
	if err := h.sendSnapshot(conn); err != nil {
		return
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-changes:
			if err := h.sendSnapshot(conn); err != nil {
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(5 * time.Second)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

func (h *Handler) sendSnapshot(conn *websocket.Conn) error {
	messages, pending := h.conversation.Snapshot()
	return conn.WriteJSON(snapshotFrame{
		Type:      "conversation",
		Messages:  messages,
		Pending:   pending,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[ws] read failed: %v", err)
			}
			return
		}

		switch frame.Type {
		case "submit":
			// Rejected submissions (blank text, turn in flight) are
			// dropped silently; the snapshot feed never shows them.
			h.conversation.Submit(ctx, frame.Text)
		default:
			log.Printf("[ws] ignoring frame type %q", frame.Type)
		}
	}
}
