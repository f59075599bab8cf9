package domain

// ParkSummary is the operational overview report.
type ParkSummary struct {
	Visitors          int64 `json:"visitors"`
	Attractions       int64 `json:"attractions"`
	ActiveAttractions int64 `json:"active_attractions"`
	TicketsSold       int64 `json:"tickets_sold"`
	TicketsUsed       int64 `json:"tickets_used"`
}
