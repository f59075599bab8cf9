package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/lunapark/parkops/internal/domain"
	"github.com/lunapark/parkops/internal/http/response"
	"github.com/lunapark/parkops/pkg/logger"
)

// CreateAttraction registers a new attraction
func (h *Handlers) CreateAttraction(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAttraction
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}
	if req.Name == "" {
		response.BadRequest(w, "name is required")
		return
	}
	if _, ok := domain.ParseAttractionType(string(req.Type)); !ok {
		response.BadRequest(w, "Unknown attraction type")
		return
	}

	attraction, err := h.attractions.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			response.Conflict(w, "An attraction with this name already exists")
			return
		}
		logger.ErrorContext(r.Context(), "Failed to create attraction", "error", err)
		response.InternalError(w, "Failed to create attraction")
		return
	}

	writeJSON(w, http.StatusCreated, attraction)
}

// ListAttractions lists attractions, optionally filtered on the details
// document: min_intensity, min_duration, features (comma separated, all
// required), maintenance=true, active=true.
func (h *Handlers) ListAttractions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		attractions []domain.Attraction
		err         error
	)
	switch {
	case q.Get("min_intensity") != "":
		var threshold int
		if threshold, err = strconv.Atoi(q.Get("min_intensity")); err != nil {
			response.BadRequest(w, "min_intensity must be an integer")
			return
		}
		attractions, err = h.attractions.ListByMinIntensity(ctx, threshold)
	case q.Get("min_duration") != "":
		var seconds int
		if seconds, err = strconv.Atoi(q.Get("min_duration")); err != nil {
			response.BadRequest(w, "min_duration must be an integer")
			return
		}
		attractions, err = h.attractions.ListByMinDuration(ctx, seconds)
	case q.Get("features") != "":
		features := make([]string, 0)
		for _, f := range strings.Split(q.Get("features"), ",") {
			if f = strings.TrimSpace(f); f != "" {
				features = append(features, f)
			}
		}
		if len(features) == 0 {
			response.BadRequest(w, "features must name at least one feature")
			return
		}
		attractions, err = h.attractions.ListWithFeatures(ctx, features)
	case q.Get("maintenance") == "true":
		attractions, err = h.attractions.ListWithMaintenance(ctx)
	case q.Get("active") == "true":
		attractions, err = h.attractions.ListActive(ctx)
	default:
		attractions, err = h.attractions.ListAll(ctx)
	}
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list attractions", "error", err)
		response.InternalError(w, "Failed to retrieve attractions")
		return
	}

	writeJSON(w, http.StatusOK, attractions)
}

// GetAttraction returns a single attraction by id
func (h *Handlers) GetAttraction(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid attraction ID")
		return
	}

	attraction, err := h.attractions.GetByID(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to get attraction", "error", err, "attraction_id", id)
		response.InternalError(w, "Failed to retrieve attraction")
		return
	}
	if attraction == nil {
		response.NotFound(w, "Attraction not found")
		return
	}

	writeJSON(w, http.StatusOK, attraction)
}

// DeleteAttraction removes the attraction; tickets that referenced it become
// general admission scoped to nothing
func (h *Handlers) DeleteAttraction(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid attraction ID")
		return
	}

	deleted, err := h.attractions.Delete(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to delete attraction", "error", err, "attraction_id", id)
		response.InternalError(w, "Failed to delete attraction")
		return
	}
	if !deleted {
		response.NotFound(w, "Attraction not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type setActiveReq struct {
	Active bool `json:"active"`
}

// SetAttractionActive toggles the attraction's operating flag
func (h *Handlers) SetAttractionActive(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid attraction ID")
		return
	}

	var req setActiveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	updated, err := h.attractions.SetActive(r.Context(), id, req.Active)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to set attraction active flag", "error", err, "attraction_id", id)
		response.InternalError(w, "Failed to update attraction")
		return
	}
	if !updated {
		response.NotFound(w, "Attraction not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type addFeatureReq struct {
	Feature string `json:"feature"`
}

// AddFeature appends a feature to the attraction's details document
func (h *Handlers) AddFeature(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid attraction ID")
		return
	}

	var req addFeatureReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Feature == "" {
		response.BadRequest(w, "feature is required")
		return
	}

	ctx := r.Context()
	attraction, err := h.attractions.GetByID(ctx, id)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to get attraction", "error", err, "attraction_id", id)
		response.InternalError(w, "Failed to retrieve attraction")
		return
	}
	if attraction == nil {
		response.NotFound(w, "Attraction not found")
		return
	}

	added, err := h.attractions.AddFeature(ctx, id, req.Feature)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to add feature", "error", err, "attraction_id", id)
		response.InternalError(w, "Failed to add feature")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"added": added})
}
