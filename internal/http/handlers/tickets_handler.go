package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/lunapark/parkops/internal/domain"
	"github.com/lunapark/parkops/internal/http/response"
	"github.com/lunapark/parkops/pkg/logger"
)

type createTicketReq struct {
	VisitorID       int64           `json:"visitor_id"`
	AttractionID    *int64          `json:"attraction_id,omitempty"`
	VisitDate       string          `json:"visit_date"`
	Category        string          `json:"category"`
	PurchaseDetails domain.Document `json:"purchase_details,omitempty"`
}

// CreateTicket sells a ticket. A missing attraction_id means general
// admission; a present one scopes the ticket to that attraction.
func (h *Handlers) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req createTicketReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}
	if req.VisitorID <= 0 {
		response.BadRequest(w, "visitor_id is required")
		return
	}
	category, ok := domain.ParseTicketCategory(req.Category)
	if !ok {
		response.BadRequest(w, "Unknown ticket category")
		return
	}
	visitDate, err := parseDate(req.VisitDate)
	if err != nil {
		response.BadRequest(w, "visit_date must be in YYYY-MM-DD format")
		return
	}

	in := &domain.CreateTicket{
		VisitorID:       req.VisitorID,
		Scope:           domain.ScopeFromRef(req.AttractionID),
		VisitDate:       visitDate,
		Category:        category,
		PurchaseDetails: req.PurchaseDetails,
	}

	ticket, err := h.tickets.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrMissingReference) {
			response.UnprocessableEntity(w, "Visitor or attraction does not exist")
			return
		}
		logger.ErrorContext(r.Context(), "Failed to create ticket", "error", err)
		response.InternalError(w, "Failed to create ticket")
		return
	}

	writeJSON(w, http.StatusCreated, ticket.DTO())
}

// ListTickets lists tickets, optionally filtered by visitor, attraction,
// discount or school price ceiling.
func (h *Handlers) ListTickets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		tickets []domain.Ticket
		err     error
	)
	switch {
	case q.Get("visitor_id") != "":
		var id int64
		if id, err = strconv.ParseInt(q.Get("visitor_id"), 10, 64); err != nil {
			response.BadRequest(w, "visitor_id must be an integer")
			return
		}
		tickets, err = h.tickets.ByVisitor(ctx, id)
	case q.Get("attraction_id") != "":
		var id int64
		if id, err = strconv.ParseInt(q.Get("attraction_id"), 10, 64); err != nil {
			response.BadRequest(w, "attraction_id must be an integer")
			return
		}
		tickets, err = h.tickets.ByAttraction(ctx, id)
	case q.Get("discount") != "":
		tickets, err = h.tickets.WithDiscount(ctx, q.Get("discount"))
	case q.Get("school_under") != "":
		var price float64
		if price, err = strconv.ParseFloat(q.Get("school_under"), 64); err != nil {
			response.BadRequest(w, "school_under must be a number")
			return
		}
		tickets, err = h.tickets.SchoolTicketsUnder(ctx, price)
	default:
		tickets, err = h.tickets.ListAll(ctx)
	}
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list tickets", "error", err)
		response.InternalError(w, "Failed to retrieve tickets")
		return
	}

	dtos := make([]domain.TicketDTO, 0, len(tickets))
	for i := range tickets {
		dtos = append(dtos, tickets[i].DTO())
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetTicket returns a single ticket by id
func (h *Handlers) GetTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid ticket ID")
		return
	}

	ticket, err := h.tickets.GetByID(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to get ticket", "error", err, "ticket_id", id)
		response.InternalError(w, "Failed to retrieve ticket")
		return
	}
	if ticket == nil {
		response.NotFound(w, "Ticket not found")
		return
	}

	writeJSON(w, http.StatusOK, ticket.DTO())
}

// DeleteTicket removes a ticket
func (h *Handlers) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid ticket ID")
		return
	}

	deleted, err := h.tickets.Delete(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to delete ticket", "error", err, "ticket_id", id)
		response.InternalError(w, "Failed to delete ticket")
		return
	}
	if !deleted {
		response.NotFound(w, "Ticket not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UseTicket marks the ticket as used at the gate
func (h *Handlers) UseTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid ticket ID")
		return
	}

	marked, err := h.tickets.MarkUsed(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to mark ticket used", "error", err, "ticket_id", id)
		response.InternalError(w, "Failed to mark ticket used")
		return
	}
	if !marked {
		response.NotFound(w, "Ticket not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type changePriceReq struct {
	Price float64 `json:"price"`
}

// ChangeTicketPrice updates the price key of the purchase document
func (h *Handlers) ChangeTicketPrice(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid ticket ID")
		return
	}

	var req changePriceReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}
	if req.Price < 0 {
		response.BadRequest(w, "price must not be negative")
		return
	}

	updated, err := h.tickets.ChangePrice(r.Context(), id, req.Price)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to change ticket price", "error", err, "ticket_id", id)
		response.InternalError(w, "Failed to change ticket price")
		return
	}
	if !updated {
		response.NotFound(w, "Ticket not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AttractionVisitors lists the distinct visitors who can enter the
// attraction, whether through a scoped ticket or general admission.
func (h *Handlers) AttractionVisitors(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid attraction ID")
		return
	}

	visitors, err := h.tickets.VisitorsWithTicketFor(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to list attraction visitors", "error", err, "attraction_id", id)
		response.InternalError(w, "Failed to retrieve visitors")
		return
	}

	writeJSON(w, http.StatusOK, visitors)
}
