package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lunapark/parkops/internal/domain"
	"github.com/lunapark/parkops/internal/repo/postgres"
	"github.com/lunapark/parkops/internal/service"
)

// Stubs embed the repo interface and override only what a test exercises.

type stubVisitors struct {
	postgres.VisitorsRepo
	count     int64
	ranked    []domain.VisitorTicketCount
	spenders  []domain.VisitorSpend
	gotAmount float64
}

func (s *stubVisitors) Count(context.Context) (int64, error) { return s.count, nil }

func (s *stubVisitors) RankedByTicketCount(context.Context) ([]domain.VisitorTicketCount, error) {
	return s.ranked, nil
}

func (s *stubVisitors) SpentMoreThan(_ context.Context, amount float64) ([]domain.VisitorSpend, error) {
	s.gotAmount = amount
	return s.spenders, nil
}

type stubAttractions struct {
	postgres.AttractionsRepo
	count      int64
	active     []domain.Attraction
	topSelling []domain.AttractionSales
	compatible []domain.Attraction
	compatErr  error
	gotLimit   int
}

func (s *stubAttractions) Count(context.Context) (int64, error) { return s.count, nil }

func (s *stubAttractions) ListActive(context.Context) ([]domain.Attraction, error) {
	return s.active, nil
}

func (s *stubAttractions) TopSelling(_ context.Context, limit int) ([]domain.AttractionSales, error) {
	s.gotLimit = limit
	return s.topSelling, nil
}

func (s *stubAttractions) CompatibleForVisitor(context.Context, int64) ([]domain.Attraction, error) {
	return s.compatible, s.compatErr
}

type stubTickets struct {
	postgres.TicketsRepo
	total int64
	used  int64
}

func (s *stubTickets) Counts(context.Context) (int64, int64, error) {
	return s.total, s.used, nil
}

func TestCompatibleAttractionsUnknownVisitor(t *testing.T) {
	attractions := &stubAttractions{compatErr: domain.ErrMissingReference}
	svc := service.NewReportService(&stubVisitors{}, attractions, &stubTickets{})

	_, err := svc.CompatibleAttractions(context.Background(), 99)
	if !errors.Is(err, domain.ErrMissingReference) {
		t.Errorf("expected ErrMissingReference through the wrap, got %v", err)
	}
}

func TestCompatibleAttractionsDelegates(t *testing.T) {
	attractions := &stubAttractions{compatible: []domain.Attraction{{ID: 1, Name: "Lazy River"}}}
	svc := service.NewReportService(&stubVisitors{}, attractions, &stubTickets{})

	got, err := svc.CompatibleAttractions(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "Lazy River" {
		t.Errorf("unexpected attractions: %+v", got)
	}
}

func TestBigSpendersPassesThreshold(t *testing.T) {
	visitors := &stubVisitors{spenders: []domain.VisitorSpend{{TotalSpent: 110}}}
	svc := service.NewReportService(visitors, &stubAttractions{}, &stubTickets{})

	got, err := svc.BigSpenders(context.Background(), 100)
	if err != nil {
		t.Fatal(err)
	}
	if visitors.gotAmount != 100 {
		t.Errorf("threshold not forwarded: %v", visitors.gotAmount)
	}
	if len(got) != 1 || got[0].TotalSpent != 110 {
		t.Errorf("unexpected spenders: %+v", got)
	}
}

func TestTopSellingForwardsLimit(t *testing.T) {
	attractions := &stubAttractions{topSelling: []domain.AttractionSales{{TicketsSold: 5}}}
	svc := service.NewReportService(&stubVisitors{}, attractions, &stubTickets{})

	if _, err := svc.TopSellingAttractions(context.Background(), 2); err != nil {
		t.Fatal(err)
	}
	if attractions.gotLimit != 2 {
		t.Errorf("limit not forwarded: %d", attractions.gotLimit)
	}
}

func TestParkSummary(t *testing.T) {
	visitors := &stubVisitors{count: 10}
	attractions := &stubAttractions{
		count:  4,
		active: []domain.Attraction{{ID: 1}, {ID: 2}, {ID: 3}},
	}
	tickets := &stubTickets{total: 25, used: 7}
	svc := service.NewReportService(visitors, attractions, tickets)

	summary, err := svc.ParkSummary(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := domain.ParkSummary{
		Visitors:          10,
		Attractions:       4,
		ActiveAttractions: 3,
		TicketsSold:       25,
		TicketsUsed:       7,
	}
	if *summary != want {
		t.Errorf("summary = %+v, want %+v", *summary, want)
	}
}
