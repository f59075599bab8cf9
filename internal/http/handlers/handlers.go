package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lunapark/parkops/internal/repo/postgres"
	"github.com/lunapark/parkops/internal/service"
	"github.com/lunapark/parkops/pkg/logger"
)

type Handlers struct {
	visitors    postgres.VisitorsRepo
	attractions postgres.AttractionsRepo
	tickets     postgres.TicketsRepo
	reports     service.ReportService
}

func New(
	visitors postgres.VisitorsRepo,
	attractions postgres.AttractionsRepo,
	tickets postgres.TicketsRepo,
	reports service.ReportService,
) *Handlers {
	return &Handlers{
		visitors:    visitors,
		attractions: attractions,
		tickets:     tickets,
		reports:     reports,
	}
}

// Helper functions for common response patterns
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func parseID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
