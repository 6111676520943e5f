// Copyright (c) 2026 Contentforge Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/contentforge/menus/internal/layout"
	"github.com/contentforge/menus/internal/menu"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// MenuHandler exposes menu CRUD over HTTP.
type MenuHandler struct {
	service *menu.Service
}

// NewMenuHandler creates a menu handler.
func NewMenuHandler(service *menu.Service) *MenuHandler {
	return &MenuHandler{service: service}
}

// Routes mounts the menu and layout routes on a router.
func (h *MenuHandler) Routes(r chi.Router) {
	r.Route("/menus", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/check-availability", h.CheckAvailability)
		r.Get("/slug/{slug}", h.GetBySlug)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
		})
	})
	r.Get("/layouts/{name}/population", h.Population)
}

// List returns paginated menus, nested when ?nested=true.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, defaultPerPage, maxPerPage)

	views, total, err := h.service.Find(r.Context(), menu.FindParams{
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		slog.Error("failed to list menus", "error", err)
		WriteInternalError(w, "Failed to list menus")
		return
	}

	meta := &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   int((total + int64(perPage) - 1) / int64(perPage)),
	}

	if ParseBoolParam(r, "nested") {
		nested := make([]menu.NestedView, 0, len(views))
		for _, v := range views {
			nested = append(nested, menu.Nest(v, false))
		}
		WriteSuccess(w, nested, meta)
		return
	}
	WriteSuccess(w, views, meta)
}

// Get returns one menu by id.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid menu ID", nil)
		return
	}

	view, err := h.service.FindOne(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "retrieve")
		return
	}
	h.writeView(w, r, view)
}

// GetBySlug returns one menu by slug.
func (h *MenuHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	view, err := h.service.GetBySlug(r.Context(), slug)
	if err != nil {
		h.writeServiceError(w, err, "retrieve")
		return
	}
	h.writeView(w, r, view)
}

// Create creates a menu, optionally with items.
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input menu.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	view, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, err, "create")
		return
	}
	WriteCreated(w, view)
}

// Update applies scalar changes and an optional full item replacement.
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid menu ID", nil)
		return
	}

	var input menu.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	view, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		h.writeServiceError(w, err, "update")
		return
	}
	h.writeView(w, r, view)
}

// Delete removes a menu with all its items.
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid menu ID", nil)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, err, "delete")
		return
	}
	WriteSuccess(w, map[string]bool{"ok": true}, nil)
}

// CheckAvailability reports whether a slug is free to use.
func (h *MenuHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")
	if slug == "" {
		WriteBadRequest(w, "Missing slug parameter", nil)
		return
	}
	excludeID := int64(ParseIntParam(r, "exclude", 0, 1, 0))

	available, err := h.service.CheckAvailability(r.Context(), slug, excludeID)
	if err != nil {
		slog.Error("failed to check slug availability", "error", err)
		WriteInternalError(w, "Failed to check slug availability")
		return
	}
	WriteSuccess(w, map[string]bool{"available": available}, nil)
}

// Population returns the resolved population spec for a layout.
func (h *MenuHandler) Population(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	spec, err := h.service.Population(name)
	if err != nil {
		if errors.Is(err, layout.ErrUnknownLayout) {
			WriteNotFound(w, "Layout not found")
			return
		}
		slog.Error("failed to resolve population", "layout", name, "error", err)
		WriteInternalError(w, "Failed to resolve population")
		return
	}
	WriteSuccess(w, spec, nil)
}

// writeView renders a menu flat or nested depending on ?nested=.
func (h *MenuHandler) writeView(w http.ResponseWriter, r *http.Request, view menu.View) {
	if ParseBoolParam(r, "nested") {
		WriteSuccess(w, menu.Nest(view, ParseBoolParam(r, "with_parent")), nil)
		return
	}
	WriteSuccess(w, view, nil)
}

// writeServiceError maps service errors to HTTP responses.
func (h *MenuHandler) writeServiceError(w http.ResponseWriter, err error, action string) {
	var validationErr *menu.ValidationError
	var conflictErr *menu.ConflictError

	switch {
	case errors.Is(err, menu.ErrMenuNotFound):
		WriteNotFound(w, "Menu not found")
	case errors.As(err, &conflictErr):
		WriteBadRequest(w, "Slug is not available", map[string]string{
			conflictErr.Field: conflictErr.Message,
		})
	case errors.As(err, &validationErr):
		WriteValidationError(w, validationErr.Fields)
	default:
		slog.Error("menu operation failed", "action", action, "error", err)
		WriteInternalError(w, "Failed to "+action+" menu")
	}
}
