package stream

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	conversationService "github.com/carelinehq/careline/backend/internal/service/conversation"
	"github.com/carelinehq/careline/backend/pkg/utils"
)

// heartbeatInterval keeps idle SSE connections alive through proxies.
const heartbeatInterval = 15 * time.Second

// Handler streams conversation snapshots via Server-Sent Events.
type Handler struct {
	conversation *conversationService.Service
}

// New creates the stream handler.
func New(conversation *conversationService.Service) *Handler {
	return &Handler{conversation: conversation}
}

// RegisterRoutes registers the SSE route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream", h.handleStream)
}

// handleStream pushes the current snapshot immediately, then a
// `conversation` event on every change and heartbeats while idle.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)

	ctx := r.Context()
	changes, cancel := h.conversation.Subscribe()
	defer cancel()

	log.Printf("[sse] conversation stream opened")

	h.sendSnapshot(w, flusher)

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[sse] conversation stream closed")
			return
		case <-changes:
			h.sendSnapshot(w, flusher)
		case t := <-ticker.C:
			utils.SendSSEEvent(w, flusher, "heartbeat", map[string]any{
				"time": t.UTC().Format(time.RFC3339),
			})
		}
	}
}

func (h *Handler) sendSnapshot(w http.ResponseWriter, flusher http.Flusher) {
	messages, pending := h.conversation.Snapshot()
	utils.SendSSEEvent(w, flusher, "conversation", map[string]any{
		"messages": messages,
		"pending":  pending,
	})
}
