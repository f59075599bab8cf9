package domain

import "time"

type TicketCategory string

const (
	CategoryGeneral TicketCategory = "general"
	CategorySchool  TicketCategory = "school"
	CategoryStaff   TicketCategory = "staff"
)

func ParseTicketCategory(s string) (TicketCategory, bool) {
	switch TicketCategory(s) {
	case CategoryGeneral, CategorySchool, CategoryStaff:
		return TicketCategory(s), true
	default:
		return "", false
	}
}

// Purchase-details document keys.
const (
	PurchasePrice         = "price"
	PurchaseDiscounts     = "discounts_applied"
	PurchaseExtraServices = "extra_services"
	PurchasePayment       = "payment_method"
)

// TicketScope says what a ticket admits to: the whole park (general
// admission) or a single attraction. The nullable attraction_id column
// representation exists only at the storage boundary.
type TicketScope struct {
	attractionID *int64
}

func GeneralAdmission() TicketScope {
	return TicketScope{}
}

func ForAttraction(id int64) TicketScope {
	return TicketScope{attractionID: &id}
}

func (s TicketScope) IsGeneral() bool {
	return s.attractionID == nil
}

func (s TicketScope) AttractionID() (int64, bool) {
	if s.attractionID == nil {
		return 0, false
	}
	return *s.attractionID, true
}

// ScopeFromRef converts the nullable column value into a scope.
func ScopeFromRef(ref *int64) TicketScope {
	if ref == nil {
		return GeneralAdmission()
	}
	return ForAttraction(*ref)
}

// Ref converts the scope back into its nullable column value.
func (s TicketScope) Ref() *int64 {
	if s.attractionID == nil {
		return nil
	}
	id := *s.attractionID
	return &id
}

type Ticket struct {
	ID              int64
	VisitorID       int64
	Scope           TicketScope
	PurchasedAt     time.Time
	VisitDate       time.Time
	Category        TicketCategory
	PurchaseDetails Document
	Used            bool
	UsedAt          *time.Time
}

func (t *Ticket) Price() (float64, bool) {
	return t.PurchaseDetails.Float(PurchasePrice)
}

func (t *Ticket) Discounts() []string {
	return t.PurchaseDetails.StringSlice(PurchaseDiscounts)
}

func (t *Ticket) ExtraServices() []string {
	return t.PurchaseDetails.StringSlice(PurchaseExtraServices)
}

func (t *Ticket) PaymentMethod() (string, bool) {
	return t.PurchaseDetails.String(PurchasePayment)
}

type CreateTicket struct {
	VisitorID       int64
	Scope           TicketScope
	VisitDate       time.Time
	Category        TicketCategory
	PurchaseDetails Document
}

// TicketDTO is the wire shape of a ticket; the scope flattens back into a
// nullable attraction id.
type TicketDTO struct {
	ID              int64      `json:"id"`
	VisitorID       int64      `json:"visitor_id"`
	AttractionID    *int64     `json:"attraction_id,omitempty"`
	PurchasedAt     time.Time  `json:"purchased_at"`
	VisitDate       string     `json:"visit_date"`
	Category        string     `json:"category"`
	PurchaseDetails Document   `json:"purchase_details"`
	Used            bool       `json:"used"`
	UsedAt          *time.Time `json:"used_at,omitempty"`
}

func (t *Ticket) DTO() TicketDTO {
	return TicketDTO{
		ID:              t.ID,
		VisitorID:       t.VisitorID,
		AttractionID:    t.Scope.Ref(),
		PurchasedAt:     t.PurchasedAt,
		VisitDate:       t.VisitDate.Format("2006-01-02"),
		Category:        string(t.Category),
		PurchaseDetails: t.PurchaseDetails,
		Used:            t.Used,
		UsedAt:          t.UsedAt,
	}
}
