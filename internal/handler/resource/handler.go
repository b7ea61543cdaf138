package resource

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carelinehq/careline/backend/internal/model/resource"
	"github.com/carelinehq/careline/backend/pkg/utils"
)

// Handler serves the helpline directory.
type Handler struct {
	resources resource.Store
}

// New creates the resource handler.
func New(resources resource.Store) *Handler {
	return &Handler{resources: resources}
}

// RegisterRoutes registers the resource routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/resources", h.handleListResources)
	r.Get("/resources/{resourceID}", h.handleGetResource)
}

func (h *Handler) handleListResources(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.resources.List())
}

func (h *Handler) handleGetResource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "resourceID")

	item, ok := h.resources.FindByID(id)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "resource not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, item)
}
