package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lunapark/parkops/internal/domain"
)

type TicketsRepo interface {
	Create(ctx context.Context, in *domain.CreateTicket) (*domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Counts(ctx context.Context) (total, used int64, err error)
	MarkUsed(ctx context.Context, id int64) (bool, error)
	ByVisitor(ctx context.Context, visitorID int64) ([]domain.Ticket, error)
	ByAttraction(ctx context.Context, attractionID int64) ([]domain.Ticket, error)
	VisitorsWithTicketFor(ctx context.Context, attractionID int64) ([]domain.Visitor, error)
	SchoolTicketsUnder(ctx context.Context, price float64) ([]domain.Ticket, error)
	WithDiscount(ctx context.Context, discount string) ([]domain.Ticket, error)
	ChangePrice(ctx context.Context, id int64, newPrice float64) (bool, error)
}

type ticketsRepo struct{ pool *pgxpool.Pool }

func NewTicketsRepo(pool *pgxpool.Pool) TicketsRepo {
	return &ticketsRepo{pool: pool}
}

const ticketCols = `id, visitor_id, attraction_id, purchased_at, visit_date, category, purchase_details, used, used_at`

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	var ref *int64
	err := row.Scan(&t.ID, &t.VisitorID, &ref, &t.PurchasedAt, &t.VisitDate,
		&t.Category, &t.PurchaseDetails, &t.Used, &t.UsedAt)
	if err != nil {
		return nil, err
	}
	t.Scope = domain.ScopeFromRef(ref)
	return &t, nil
}

func collectTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	defer rows.Close()
	ts := make([]domain.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		ts = append(ts, *t)
	}
	return ts, rows.Err()
}

func (r *ticketsRepo) Create(ctx context.Context, in *domain.CreateTicket) (*domain.Ticket, error) {
	const q = `INSERT INTO tickets (visitor_id, attraction_id, visit_date, category, purchase_details)
VALUES ($1,$2,$3,$4,$5)
RETURNING ` + ticketCols

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	details := in.PurchaseDetails
	if details == nil {
		details = domain.Document{}
	}

	t, err := scanTicket(r.pool.QueryRow(ctx, q,
		in.VisitorID, in.Scope.Ref(), in.VisitDate, string(in.Category), details))
	if err != nil {
		return nil, wrapConstraint(err)
	}
	return t, nil
}

func (r *ticketsRepo) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	const q = `SELECT ` + ticketCols + ` FROM tickets ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return collectTickets(rows)
}

func (r *ticketsRepo) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	const q = `SELECT ` + ticketCols + ` FROM tickets WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	t, err := scanTicket(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return t, err
}

func (r *ticketsRepo) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM tickets WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *ticketsRepo) Counts(ctx context.Context) (total, used int64, err error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	err = r.pool.QueryRow(ctx, `SELECT COUNT(*), COUNT(*) FILTER (WHERE used) FROM tickets`).
		Scan(&total, &used)
	return total, used, err
}

// MarkUsed stamps the ticket as used. The flag and the timestamp change in
// one statement, so used=true is never visible without a usage time.
// Re-marking an already used ticket refreshes the timestamp and succeeds.
func (r *ticketsRepo) MarkUsed(ctx context.Context, id int64) (bool, error) {
	const q = `UPDATE tickets SET used=TRUE, used_at=now() WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *ticketsRepo) ByVisitor(ctx context.Context, visitorID int64) ([]domain.Ticket, error) {
	const q = `SELECT ` + ticketCols + ` FROM tickets WHERE visitor_id=$1 ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, visitorID)
	if err != nil {
		return nil, err
	}
	return collectTickets(rows)
}

func (r *ticketsRepo) ByAttraction(ctx context.Context, attractionID int64) ([]domain.Ticket, error) {
	const q = `SELECT ` + ticketCols + ` FROM tickets WHERE attraction_id=$1 ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, attractionID)
	if err != nil {
		return nil, err
	}
	return collectTickets(rows)
}

// VisitorsWithTicketFor lists everyone who can enter the attraction: holders
// of a ticket scoped to it plus holders of general admission. EXISTS keeps
// each visitor listed once however many tickets they hold.
func (r *ticketsRepo) VisitorsWithTicketFor(ctx context.Context, attractionID int64) ([]domain.Visitor, error) {
	const q = `SELECT ` + visitorCols + ` FROM visitors v
WHERE EXISTS (
	SELECT 1 FROM tickets t
	WHERE t.visitor_id = v.id
	  AND (t.attraction_id = $1 OR t.attraction_id IS NULL)
)
ORDER BY v.id`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, attractionID)
	if err != nil {
		return nil, err
	}
	return collectVisitors(rows)
}

func (r *ticketsRepo) SchoolTicketsUnder(ctx context.Context, price float64) ([]domain.Ticket, error) {
	const q = `SELECT ` + ticketCols + ` FROM tickets
WHERE category = 'school'
  AND (purchase_details->>'price')::float8 < $1
ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, price)
	if err != nil {
		return nil, err
	}
	return collectTickets(rows)
}

// WithDiscount uses jsonb element membership over discounts_applied rather
// than a text scan of the serialized array.
func (r *ticketsRepo) WithDiscount(ctx context.Context, discount string) ([]domain.Ticket, error) {
	const q = `SELECT ` + ticketCols + ` FROM tickets
WHERE purchase_details->'discounts_applied' ? $1
ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, discount)
	if err != nil {
		return nil, err
	}
	return collectTickets(rows)
}

// ChangePrice rewrites only the price key of the purchase document, leaving
// discounts, services and payment method untouched.
func (r *ticketsRepo) ChangePrice(ctx context.Context, id int64, newPrice float64) (bool, error) {
	const q = `UPDATE tickets
SET purchase_details = jsonb_set(COALESCE(purchase_details, '{}'::jsonb), '{price}', to_jsonb($2::float8))
WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id, newPrice)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

var _ TicketsRepo = (*ticketsRepo)(nil)
