package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/lunapark/parkops/internal/domain"
	"github.com/lunapark/parkops/internal/http/response"
	"github.com/lunapark/parkops/pkg/logger"
)

// CompatibleAttractions lists the active attractions a visitor is eligible
// for, narrowed to their favorite type when set.
func (h *Handlers) CompatibleAttractions(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid visitor ID")
		return
	}

	attractions, err := h.reports.CompatibleAttractions(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrMissingReference) {
			response.NotFound(w, "Visitor not found")
			return
		}
		logger.ErrorContext(r.Context(), "Failed to compute compatible attractions", "error", err, "visitor_id", id)
		response.InternalError(w, "Failed to compute compatible attractions")
		return
	}

	writeJSON(w, http.StatusOK, attractions)
}

// TopAttractions ranks attractions by tickets sold
func (h *Handlers) TopAttractions(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			response.BadRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	sales, err := h.reports.TopSellingAttractions(r.Context(), limit)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to rank attractions", "error", err)
		response.InternalError(w, "Failed to rank attractions")
		return
	}

	writeJSON(w, http.StatusOK, sales)
}

// VisitorsByTickets ranks visitors by how many tickets they hold
func (h *Handlers) VisitorsByTickets(w http.ResponseWriter, r *http.Request) {
	ranked, err := h.reports.VisitorsRankedByTickets(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to rank visitors", "error", err)
		response.InternalError(w, "Failed to rank visitors")
		return
	}

	writeJSON(w, http.StatusOK, ranked)
}

// BigSpenders lists visitors whose ticket spend exceeds the min threshold
func (h *Handlers) BigSpenders(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("min")
	if raw == "" {
		response.BadRequest(w, "min query parameter is required")
		return
	}
	min, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		response.BadRequest(w, "min must be a number")
		return
	}

	spenders, err := h.reports.BigSpenders(r.Context(), min)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to compute spend report", "error", err)
		response.InternalError(w, "Failed to compute spend report")
		return
	}

	writeJSON(w, http.StatusOK, spenders)
}

// Summary returns the park-wide operational overview
func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reports.ParkSummary(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to compute park summary", "error", err)
		response.InternalError(w, "Failed to compute park summary")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
