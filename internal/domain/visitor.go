package domain

import "time"

// Preferences document keys.
const (
	PrefFavoriteType = "favorite_type"
	PrefRestrictions = "restrictions"
	PrefVisitHistory = "visit_history"
)

type Visitor struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Height       *int      `json:"height,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
	Preferences  Document  `json:"preferences"`
}

// FavoriteType reads the visitor's preferred attraction category, if one is
// set and names a known category.
func (v *Visitor) FavoriteType() (AttractionType, bool) {
	raw, ok := v.Preferences.String(PrefFavoriteType)
	if !ok {
		return "", false
	}
	return ParseAttractionType(raw)
}

func (v *Visitor) Restrictions() []string {
	return v.Preferences.StringSlice(PrefRestrictions)
}

// VisitEntry is one recorded park visit inside the preferences document.
type VisitEntry struct {
	Date          string  `json:"date"`
	AttractionIDs []int64 `json:"attraction_ids"`
}

type CreateVisitor struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Height      *int     `json:"height,omitempty"`
	Preferences Document `json:"preferences,omitempty"`
}

type VisitorTicketCount struct {
	Visitor
	TicketCount int64 `json:"ticket_count"`
}

type VisitorSpend struct {
	Visitor
	TotalSpent float64 `json:"total_spent"`
}
