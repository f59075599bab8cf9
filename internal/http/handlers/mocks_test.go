package handlers_test

import (
	"context"
	"sort"
	"time"

	"github.com/lunapark/parkops/internal/domain"
)

// ---------- Mocks ----------

type mockVisitorsRepo struct {
	visitors map[int64]*domain.Visitor
	nextID   int64
	ranked   []domain.VisitorTicketCount
	spenders []domain.VisitorSpend
	err      error
}

func newMockVisitorsRepo() *mockVisitorsRepo {
	return &mockVisitorsRepo{visitors: make(map[int64]*domain.Visitor), nextID: 1}
}

func (m *mockVisitorsRepo) add(v domain.Visitor) *domain.Visitor {
	v.ID = m.nextID
	m.nextID++
	if v.Preferences == nil {
		v.Preferences = domain.Document{}
	}
	m.visitors[v.ID] = &v
	return &v
}

func (m *mockVisitorsRepo) sorted() []domain.Visitor {
	out := make([]domain.Visitor, 0, len(m.visitors))
	for _, v := range m.visitors {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *mockVisitorsRepo) Create(_ context.Context, in *domain.CreateVisitor) (*domain.Visitor, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, v := range m.visitors {
		if v.Email == in.Email {
			return nil, domain.ErrDuplicate
		}
	}
	prefs := in.Preferences
	if prefs == nil {
		prefs = domain.Document{}
	}
	return m.add(domain.Visitor{
		Name:         in.Name,
		Email:        in.Email,
		Height:       in.Height,
		RegisteredAt: time.Now(),
		Preferences:  prefs,
	}), nil
}

func (m *mockVisitorsRepo) ListAll(context.Context) ([]domain.Visitor, error) {
	return m.sorted(), m.err
}

func (m *mockVisitorsRepo) GetByID(_ context.Context, id int64) (*domain.Visitor, error) {
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.visitors[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (m *mockVisitorsRepo) GetByEmail(_ context.Context, email string) (*domain.Visitor, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, v := range m.visitors {
		if v.Email == email {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockVisitorsRepo) Delete(_ context.Context, id int64) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.visitors[id]; !ok {
		return false, nil
	}
	delete(m.visitors, id)
	return true, nil
}

func (m *mockVisitorsRepo) Count(context.Context) (int64, error) {
	return int64(len(m.visitors)), m.err
}

func (m *mockVisitorsRepo) ListByFavoriteType(_ context.Context, t domain.AttractionType) ([]domain.Visitor, error) {
	out := make([]domain.Visitor, 0)
	for _, v := range m.sorted() {
		if fav, ok := v.Preferences.String(domain.PrefFavoriteType); ok && fav == string(t) {
			out = append(out, v)
		}
	}
	return out, m.err
}

func (m *mockVisitorsRepo) ListWithRestriction(_ context.Context, restriction string) ([]domain.Visitor, error) {
	out := make([]domain.Visitor, 0)
	for _, v := range m.sorted() {
		for _, s := range v.Preferences.StringSlice(domain.PrefRestrictions) {
			if s == restriction {
				out = append(out, v)
				break
			}
		}
	}
	return out, m.err
}

func (m *mockVisitorsRepo) RemoveRestriction(_ context.Context, id int64, restriction string) (bool, error) {
	v, ok := m.visitors[id]
	if !ok {
		return false, m.err
	}
	restrictions := v.Preferences.StringSlice(domain.PrefRestrictions)
	for i, s := range restrictions {
		if s == restriction {
			v.Preferences[domain.PrefRestrictions] = append(restrictions[:i], restrictions[i+1:]...)
			return true, nil
		}
	}
	return false, m.err
}

func (m *mockVisitorsRepo) AppendVisitHistory(_ context.Context, id int64, date time.Time, attractionIDs []int64) (bool, error) {
	v, ok := m.visitors[id]
	if !ok {
		return false, m.err
	}
	history, _ := v.Preferences.Array(domain.PrefVisitHistory)
	v.Preferences[domain.PrefVisitHistory] = append(history, domain.VisitEntry{
		Date:          date.Format("2006-01-02"),
		AttractionIDs: attractionIDs,
	})
	return true, nil
}

func (m *mockVisitorsRepo) RankedByTicketCount(context.Context) ([]domain.VisitorTicketCount, error) {
	return m.ranked, m.err
}

func (m *mockVisitorsRepo) SpentMoreThan(context.Context, float64) ([]domain.VisitorSpend, error) {
	return m.spenders, m.err
}

type mockAttractionsRepo struct {
	attractions map[int64]*domain.Attraction
	nextID      int64
	topSelling  []domain.AttractionSales
	compatible  []domain.Attraction
	err         error
}

func newMockAttractionsRepo() *mockAttractionsRepo {
	return &mockAttractionsRepo{attractions: make(map[int64]*domain.Attraction), nextID: 1}
}

func (m *mockAttractionsRepo) add(a domain.Attraction) *domain.Attraction {
	a.ID = m.nextID
	m.nextID++
	if a.Details == nil {
		a.Details = domain.Document{}
	}
	m.attractions[a.ID] = &a
	return &a
}

func (m *mockAttractionsRepo) sorted() []domain.Attraction {
	out := make([]domain.Attraction, 0, len(m.attractions))
	for _, a := range m.attractions {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *mockAttractionsRepo) Create(_ context.Context, in *domain.CreateAttraction) (*domain.Attraction, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, a := range m.attractions {
		if a.Name == in.Name {
			return nil, domain.ErrDuplicate
		}
	}
	details := in.Details
	if details == nil {
		details = domain.Document{}
	}
	return m.add(domain.Attraction{
		Name:          in.Name,
		Type:          in.Type,
		MinHeight:     in.MinHeight,
		Active:        true,
		InauguratedOn: time.Now(),
		Details:       details,
	}), nil
}

func (m *mockAttractionsRepo) ListAll(context.Context) ([]domain.Attraction, error) {
	return m.sorted(), m.err
}

func (m *mockAttractionsRepo) ListActive(context.Context) ([]domain.Attraction, error) {
	out := make([]domain.Attraction, 0)
	for _, a := range m.sorted() {
		if a.Active {
			out = append(out, a)
		}
	}
	return out, m.err
}

func (m *mockAttractionsRepo) GetByID(_ context.Context, id int64) (*domain.Attraction, error) {
	if m.err != nil {
		return nil, m.err
	}
	a, ok := m.attractions[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *mockAttractionsRepo) SetActive(_ context.Context, id int64, active bool) (bool, error) {
	a, ok := m.attractions[id]
	if !ok {
		return false, m.err
	}
	a.Active = active
	return true, nil
}

func (m *mockAttractionsRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := m.attractions[id]; !ok {
		return false, m.err
	}
	delete(m.attractions, id)
	return true, nil
}

func (m *mockAttractionsRepo) Count(context.Context) (int64, error) {
	return int64(len(m.attractions)), m.err
}

func (m *mockAttractionsRepo) ListByMinIntensity(_ context.Context, threshold int) ([]domain.Attraction, error) {
	out := make([]domain.Attraction, 0)
	for _, a := range m.sorted() {
		if intensity, ok := a.Intensity(); ok && intensity >= threshold {
			out = append(out, a)
		}
	}
	return out, m.err
}

func (m *mockAttractionsRepo) ListByMinDuration(_ context.Context, seconds int) ([]domain.Attraction, error) {
	out := make([]domain.Attraction, 0)
	for _, a := range m.sorted() {
		if duration, ok := a.DurationSeconds(); ok && duration >= seconds {
			out = append(out, a)
		}
	}
	return out, m.err
}

func (m *mockAttractionsRepo) ListWithFeatures(_ context.Context, features []string) ([]domain.Attraction, error) {
	out := make([]domain.Attraction, 0)
	for _, a := range m.sorted() {
		have := make(map[string]bool)
		for _, f := range a.Features() {
			have[f] = true
		}
		all := true
		for _, f := range features {
			if !have[f] {
				all = false
				break
			}
		}
		if all {
			out = append(out, a)
		}
	}
	return out, m.err
}

func (m *mockAttractionsRepo) ListWithMaintenance(context.Context) ([]domain.Attraction, error) {
	out := make([]domain.Attraction, 0)
	for _, a := range m.sorted() {
		if len(a.MaintenanceWindows()) > 0 {
			out = append(out, a)
		}
	}
	return out, m.err
}

func (m *mockAttractionsRepo) AddFeature(_ context.Context, id int64, feature string) (bool, error) {
	a, ok := m.attractions[id]
	if !ok {
		return false, m.err
	}
	features := a.Details.StringSlice(domain.DetailFeatures)
	for _, f := range features {
		if f == feature {
			return false, nil
		}
	}
	a.Details[domain.DetailFeatures] = append(features, feature)
	return true, nil
}

func (m *mockAttractionsRepo) TopSelling(context.Context, int) ([]domain.AttractionSales, error) {
	return m.topSelling, m.err
}

func (m *mockAttractionsRepo) CompatibleForVisitor(context.Context, int64) ([]domain.Attraction, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.compatible, nil
}

type mockTicketsRepo struct {
	tickets     map[int64]*domain.Ticket
	nextID      int64
	visitorsFor []domain.Visitor
	err         error
}

func newMockTicketsRepo() *mockTicketsRepo {
	return &mockTicketsRepo{tickets: make(map[int64]*domain.Ticket), nextID: 1}
}

func (m *mockTicketsRepo) add(t domain.Ticket) *domain.Ticket {
	t.ID = m.nextID
	m.nextID++
	if t.PurchaseDetails == nil {
		t.PurchaseDetails = domain.Document{}
	}
	m.tickets[t.ID] = &t
	return &t
}

func (m *mockTicketsRepo) sorted() []domain.Ticket {
	out := make([]domain.Ticket, 0, len(m.tickets))
	for _, t := range m.tickets {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *mockTicketsRepo) Create(_ context.Context, in *domain.CreateTicket) (*domain.Ticket, error) {
	if m.err != nil {
		return nil, m.err
	}
	details := in.PurchaseDetails
	if details == nil {
		details = domain.Document{}
	}
	return m.add(domain.Ticket{
		VisitorID:       in.VisitorID,
		Scope:           in.Scope,
		PurchasedAt:     time.Now(),
		VisitDate:       in.VisitDate,
		Category:        in.Category,
		PurchaseDetails: details,
	}), nil
}

func (m *mockTicketsRepo) ListAll(context.Context) ([]domain.Ticket, error) {
	return m.sorted(), m.err
}

func (m *mockTicketsRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	if m.err != nil {
		return nil, m.err
	}
	t, ok := m.tickets[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *mockTicketsRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := m.tickets[id]; !ok {
		return false, m.err
	}
	delete(m.tickets, id)
	return true, nil
}

func (m *mockTicketsRepo) Counts(context.Context) (int64, int64, error) {
	var used int64
	for _, t := range m.tickets {
		if t.Used {
			used++
		}
	}
	return int64(len(m.tickets)), used, m.err
}

func (m *mockTicketsRepo) MarkUsed(_ context.Context, id int64) (bool, error) {
	t, ok := m.tickets[id]
	if !ok {
		return false, m.err
	}
	now := time.Now()
	t.Used = true
	t.UsedAt = &now
	return true, nil
}

func (m *mockTicketsRepo) ByVisitor(_ context.Context, visitorID int64) ([]domain.Ticket, error) {
	out := make([]domain.Ticket, 0)
	for _, t := range m.sorted() {
		if t.VisitorID == visitorID {
			out = append(out, t)
		}
	}
	return out, m.err
}

func (m *mockTicketsRepo) ByAttraction(_ context.Context, attractionID int64) ([]domain.Ticket, error) {
	out := make([]domain.Ticket, 0)
	for _, t := range m.sorted() {
		if id, ok := t.Scope.AttractionID(); ok && id == attractionID {
			out = append(out, t)
		}
	}
	return out, m.err
}

func (m *mockTicketsRepo) VisitorsWithTicketFor(context.Context, int64) ([]domain.Visitor, error) {
	return m.visitorsFor, m.err
}

func (m *mockTicketsRepo) SchoolTicketsUnder(_ context.Context, price float64) ([]domain.Ticket, error) {
	out := make([]domain.Ticket, 0)
	for _, t := range m.sorted() {
		if p, ok := t.Price(); ok && t.Category == domain.CategorySchool && p < price {
			out = append(out, t)
		}
	}
	return out, m.err
}

func (m *mockTicketsRepo) WithDiscount(_ context.Context, discount string) ([]domain.Ticket, error) {
	out := make([]domain.Ticket, 0)
	for _, t := range m.sorted() {
		for _, d := range t.Discounts() {
			if d == discount {
				out = append(out, t)
				break
			}
		}
	}
	return out, m.err
}

func (m *mockTicketsRepo) ChangePrice(_ context.Context, id int64, newPrice float64) (bool, error) {
	t, ok := m.tickets[id]
	if !ok {
		return false, m.err
	}
	t.PurchaseDetails[domain.PurchasePrice] = newPrice
	return true, nil
}

type mockReports struct {
	compatible []domain.Attraction
	topSelling []domain.AttractionSales
	ranked     []domain.VisitorTicketCount
	spenders   []domain.VisitorSpend
	summary    *domain.ParkSummary
	err        error
}

func (m *mockReports) CompatibleAttractions(context.Context, int64) ([]domain.Attraction, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.compatible, nil
}

func (m *mockReports) TopSellingAttractions(context.Context, int) ([]domain.AttractionSales, error) {
	return m.topSelling, m.err
}

func (m *mockReports) VisitorsRankedByTickets(context.Context) ([]domain.VisitorTicketCount, error) {
	return m.ranked, m.err
}

func (m *mockReports) BigSpenders(context.Context, float64) ([]domain.VisitorSpend, error) {
	return m.spenders, m.err
}

func (m *mockReports) ParkSummary(context.Context) (*domain.ParkSummary, error) {
	return m.summary, m.err
}
