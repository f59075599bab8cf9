package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lunapark/parkops/internal/domain"
	"github.com/lunapark/parkops/internal/http/response"
	"github.com/lunapark/parkops/pkg/logger"
)

// CreateVisitor registers a new visitor
func (h *Handlers) CreateVisitor(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateVisitor
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}
	if req.Name == "" || req.Email == "" {
		response.BadRequest(w, "name and email are required")
		return
	}

	visitor, err := h.visitors.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			response.Conflict(w, "A visitor with this email already exists")
			return
		}
		logger.ErrorContext(r.Context(), "Failed to create visitor", "error", err)
		response.InternalError(w, "Failed to create visitor")
		return
	}

	writeJSON(w, http.StatusCreated, visitor)
}

// ListVisitors lists visitors, optionally filtered by email, favorite type
// or restriction.
func (h *Handlers) ListVisitors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if email := q.Get("email"); email != "" {
		visitor, err := h.visitors.GetByEmail(ctx, email)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to look up visitor by email", "error", err)
			response.InternalError(w, "Failed to retrieve visitor")
			return
		}
		if visitor == nil {
			response.NotFound(w, "Visitor not found")
			return
		}
		writeJSON(w, http.StatusOK, visitor)
		return
	}

	var (
		visitors []domain.Visitor
		err      error
	)
	switch {
	case q.Get("favorite_type") != "":
		t, ok := domain.ParseAttractionType(q.Get("favorite_type"))
		if !ok {
			response.BadRequest(w, "Unknown attraction type")
			return
		}
		visitors, err = h.visitors.ListByFavoriteType(ctx, t)
	case q.Get("restriction") != "":
		visitors, err = h.visitors.ListWithRestriction(ctx, q.Get("restriction"))
	default:
		visitors, err = h.visitors.ListAll(ctx)
	}
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list visitors", "error", err)
		response.InternalError(w, "Failed to retrieve visitors")
		return
	}

	writeJSON(w, http.StatusOK, visitors)
}

// GetVisitor returns a single visitor by id
func (h *Handlers) GetVisitor(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid visitor ID")
		return
	}

	visitor, err := h.visitors.GetByID(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to get visitor", "error", err, "visitor_id", id)
		response.InternalError(w, "Failed to retrieve visitor")
		return
	}
	if visitor == nil {
		response.NotFound(w, "Visitor not found")
		return
	}

	writeJSON(w, http.StatusOK, visitor)
}

// DeleteVisitor removes a visitor and, through the cascade, their tickets
func (h *Handlers) DeleteVisitor(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid visitor ID")
		return
	}

	deleted, err := h.visitors.Delete(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to delete visitor", "error", err, "visitor_id", id)
		response.InternalError(w, "Failed to delete visitor")
		return
	}
	if !deleted {
		response.NotFound(w, "Visitor not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveRestriction drops one restriction from the visitor's preferences
func (h *Handlers) RemoveRestriction(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid visitor ID")
		return
	}
	restriction := r.URL.Query().Get("name")
	if restriction == "" {
		response.BadRequest(w, "name query parameter is required")
		return
	}

	ctx := r.Context()
	visitor, err := h.visitors.GetByID(ctx, id)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to get visitor", "error", err, "visitor_id", id)
		response.InternalError(w, "Failed to retrieve visitor")
		return
	}
	if visitor == nil {
		response.NotFound(w, "Visitor not found")
		return
	}

	removed, err := h.visitors.RemoveRestriction(ctx, id, restriction)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to remove restriction", "error", err, "visitor_id", id)
		response.InternalError(w, "Failed to remove restriction")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

type visitReq struct {
	Date          string  `json:"date"`
	AttractionIDs []int64 `json:"attraction_ids"`
}

// AppendVisit records one park visit in the visitor's history
func (h *Handlers) AppendVisit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid visitor ID")
		return
	}

	var req visitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		response.BadRequest(w, "date must be in YYYY-MM-DD format")
		return
	}

	appended, err := h.visitors.AppendVisitHistory(r.Context(), id, date, req.AttractionIDs)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to append visit history", "error", err, "visitor_id", id)
		response.InternalError(w, "Failed to record visit")
		return
	}
	if !appended {
		response.NotFound(w, "Visitor not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
