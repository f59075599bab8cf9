package service

import (
	"context"
	"fmt"

	"github.com/lunapark/parkops/internal/domain"
	"github.com/lunapark/parkops/internal/repo/postgres"
	"github.com/lunapark/parkops/pkg/logger"
)

// ReportService composes the access components into the park's business
// reports. It holds no state of its own.
type ReportService interface {
	CompatibleAttractions(ctx context.Context, visitorID int64) ([]domain.Attraction, error)
	TopSellingAttractions(ctx context.Context, limit int) ([]domain.AttractionSales, error)
	VisitorsRankedByTickets(ctx context.Context) ([]domain.VisitorTicketCount, error)
	BigSpenders(ctx context.Context, minSpent float64) ([]domain.VisitorSpend, error)
	ParkSummary(ctx context.Context) (*domain.ParkSummary, error)
}

type reportService struct {
	visitors    postgres.VisitorsRepo
	attractions postgres.AttractionsRepo
	tickets     postgres.TicketsRepo
}

func NewReportService(
	visitors postgres.VisitorsRepo,
	attractions postgres.AttractionsRepo,
	tickets postgres.TicketsRepo,
) ReportService {
	return &reportService{
		visitors:    visitors,
		attractions: attractions,
		tickets:     tickets,
	}
}

func (s *reportService) CompatibleAttractions(ctx context.Context, visitorID int64) ([]domain.Attraction, error) {
	attractions, err := s.attractions.CompatibleForVisitor(ctx, visitorID)
	if err != nil {
		return nil, fmt.Errorf("compatible attractions for visitor %d: %w", visitorID, err)
	}
	return attractions, nil
}

func (s *reportService) TopSellingAttractions(ctx context.Context, limit int) ([]domain.AttractionSales, error) {
	sales, err := s.attractions.TopSelling(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("top selling attractions: %w", err)
	}
	return sales, nil
}

func (s *reportService) VisitorsRankedByTickets(ctx context.Context) ([]domain.VisitorTicketCount, error) {
	ranked, err := s.visitors.RankedByTicketCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("visitors ranked by tickets: %w", err)
	}
	return ranked, nil
}

func (s *reportService) BigSpenders(ctx context.Context, minSpent float64) ([]domain.VisitorSpend, error) {
	spenders, err := s.visitors.SpentMoreThan(ctx, minSpent)
	if err != nil {
		return nil, fmt.Errorf("visitors spending over %.2f: %w", minSpent, err)
	}
	return spenders, nil
}

func (s *reportService) ParkSummary(ctx context.Context) (*domain.ParkSummary, error) {
	visitors, err := s.visitors.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count visitors: %w", err)
	}

	attractions, err := s.attractions.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count attractions: %w", err)
	}

	active, err := s.attractions.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active attractions: %w", err)
	}

	tickets, used, err := s.tickets.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count tickets: %w", err)
	}

	summary := &domain.ParkSummary{
		Visitors:          visitors,
		Attractions:       attractions,
		ActiveAttractions: int64(len(active)),
		TicketsSold:       tickets,
		TicketsUsed:       used,
	}

	logger.DebugContext(ctx, "Park summary computed",
		"visitors", summary.Visitors,
		"attractions", summary.Attractions,
		"tickets_sold", summary.TicketsSold,
	)
	return summary, nil
}

var _ ReportService = (*reportService)(nil)
