package chat

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	chatModel "github.com/carelinehq/careline/backend/internal/model/chat"
	conversationService "github.com/carelinehq/careline/backend/internal/service/conversation"
	"github.com/carelinehq/careline/backend/pkg/utils"
)

// Handler exposes the conversation over HTTP.
type Handler struct {
	conversation *conversationService.Service
}

// New creates the conversation handler.
func New(conversation *conversationService.Service) *Handler {
	return &Handler{conversation: conversation}
}

// RegisterRoutes registers the conversation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/conversation", h.handleGetConversation)
	r.Post("/messages", h.handleSubmitMessage)
}

type snapshotResponse struct {
	Messages []chatModel.Message `json:"messages"`
	Pending  bool                `json:"pending"`
}

// handleGetConversation returns the ordered transcript plus the
// pending flag the renderer uses to disable input.
func (h *Handler) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	messages, pending := h.conversation.Snapshot()
	utils.RespondJSON(w, http.StatusOK, snapshotResponse{Messages: messages, Pending: pending})
}

// handleSubmitMessage runs one turn and returns the resulting
// snapshot. Whitespace-only text is dropped silently (204); a
// submission while a turn is in flight is refused (409) with no
// change to the conversation.
func (h *Handler) handleSubmitMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(payload.Text) == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if !h.conversation.Submit(r.Context(), payload.Text) {
		utils.RespondError(w, http.StatusConflict, "a turn is already in flight")
		return
	}

	messages, pending := h.conversation.Snapshot()
	utils.RespondJSON(w, http.StatusOK, snapshotResponse{Messages: messages, Pending: pending})
}
