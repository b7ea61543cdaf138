package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/carelinehq/careline/backend/internal/handler/chat"
	resourceHandler "github.com/carelinehq/careline/backend/internal/handler/resource"
	streamHandler "github.com/carelinehq/careline/backend/internal/handler/stream"
	wsHandler "github.com/carelinehq/careline/backend/internal/handler/ws"
	middlewarePkg "github.com/carelinehq/careline/backend/internal/middleware"
	resourceModel "github.com/carelinehq/careline/backend/internal/model/resource"
	conversationService "github.com/carelinehq/careline/backend/internal/service/conversation"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(conversation *conversationService.Service, resources resourceModel.Store) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		chatHandler.New(conversation).RegisterRoutes(api)
		resourceHandler.New(resources).RegisterRoutes(api)
		streamHandler.New(conversation).RegisterRoutes(api)
		wsHandler.New(conversation).RegisterRoutes(api)
	})

	return r
}
