package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lunapark/parkops/internal/domain"
)

type VisitorsRepo interface {
	Create(ctx context.Context, in *domain.CreateVisitor) (*domain.Visitor, error)
	ListAll(ctx context.Context) ([]domain.Visitor, error)
	GetByID(ctx context.Context, id int64) (*domain.Visitor, error)
	GetByEmail(ctx context.Context, email string) (*domain.Visitor, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
	ListByFavoriteType(ctx context.Context, t domain.AttractionType) ([]domain.Visitor, error)
	ListWithRestriction(ctx context.Context, restriction string) ([]domain.Visitor, error)
	RemoveRestriction(ctx context.Context, id int64, restriction string) (bool, error)
	AppendVisitHistory(ctx context.Context, id int64, date time.Time, attractionIDs []int64) (bool, error)
	RankedByTicketCount(ctx context.Context) ([]domain.VisitorTicketCount, error)
	SpentMoreThan(ctx context.Context, amount float64) ([]domain.VisitorSpend, error)
}

type visitorsRepo struct{ pool *pgxpool.Pool }

func NewVisitorsRepo(pool *pgxpool.Pool) VisitorsRepo {
	return &visitorsRepo{pool: pool}
}

const visitorCols = `id, name, email, height, registered_at, preferences`

func scanVisitor(row pgx.Row) (*domain.Visitor, error) {
	var v domain.Visitor
	err := row.Scan(&v.ID, &v.Name, &v.Email, &v.Height, &v.RegisteredAt, &v.Preferences)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func collectVisitors(rows pgx.Rows) ([]domain.Visitor, error) {
	defer rows.Close()
	vs := make([]domain.Visitor, 0)
	for rows.Next() {
		v, err := scanVisitor(rows)
		if err != nil {
			return nil, err
		}
		vs = append(vs, *v)
	}
	return vs, rows.Err()
}

func (r *visitorsRepo) Create(ctx context.Context, in *domain.CreateVisitor) (*domain.Visitor, error) {
	const q = `INSERT INTO visitors (name, email, height, preferences)
VALUES ($1,$2,$3,$4)
RETURNING ` + visitorCols

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	prefs := in.Preferences
	if prefs == nil {
		prefs = domain.Document{}
	}

	v, err := scanVisitor(r.pool.QueryRow(ctx, q, in.Name, in.Email, in.Height, prefs))
	if err != nil {
		return nil, wrapConstraint(err)
	}
	return v, nil
}

func (r *visitorsRepo) ListAll(ctx context.Context) ([]domain.Visitor, error) {
	const q = `SELECT ` + visitorCols + ` FROM visitors ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return collectVisitors(rows)
}

func (r *visitorsRepo) GetByID(ctx context.Context, id int64) (*domain.Visitor, error) {
	const q = `SELECT ` + visitorCols + ` FROM visitors WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	v, err := scanVisitor(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return v, err
}

func (r *visitorsRepo) GetByEmail(ctx context.Context, email string) (*domain.Visitor, error) {
	const q = `SELECT ` + visitorCols + ` FROM visitors WHERE email=$1`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	v, err := scanVisitor(r.pool.QueryRow(ctx, q, email))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return v, err
}

// Delete removes the visitor. Owned tickets go with it via ON DELETE CASCADE.
func (r *visitorsRepo) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM visitors WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *visitorsRepo) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM visitors`).Scan(&n)
	return n, err
}

// ListByFavoriteType matches the stored favorite_type exactly, case-sensitive.
// Visitors whose preferences lack the key never match.
func (r *visitorsRepo) ListByFavoriteType(ctx context.Context, t domain.AttractionType) ([]domain.Visitor, error) {
	const q = `SELECT ` + visitorCols + ` FROM visitors
WHERE preferences->>'favorite_type' = $1
ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, string(t))
	if err != nil {
		return nil, err
	}
	return collectVisitors(rows)
}

// ListWithRestriction uses jsonb element membership, so "mareos" does not
// match inside a longer token the way a text scan would.
func (r *visitorsRepo) ListWithRestriction(ctx context.Context, restriction string) ([]domain.Visitor, error) {
	const q = `SELECT ` + visitorCols + ` FROM visitors
WHERE preferences->'restrictions' ? $1
ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, restriction)
	if err != nil {
		return nil, err
	}
	return collectVisitors(rows)
}

func (r *visitorsRepo) updatePreferences(ctx context.Context, id int64, prefs domain.Document) (bool, error) {
	const q = `UPDATE visitors SET preferences=$2 WHERE id=$1`
	ct, err := r.pool.Exec(ctx, q, id, prefs)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// RemoveRestriction drops one occurrence of the restriction from the
// visitor's preferences. Returns false without writing when the visitor is
// unknown or the restriction is not present. The read-modify-write is
// last-writer-wins under concurrent updates to the same row.
func (r *visitorsRepo) RemoveRestriction(ctx context.Context, id int64, restriction string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	v, err := r.GetByID(ctx, id)
	if err != nil || v == nil {
		return false, err
	}

	prefs := v.Preferences
	if prefs == nil {
		return false, nil
	}
	restrictions := prefs.StringSlice(domain.PrefRestrictions)

	idx := -1
	for i, s := range restrictions {
		if s == restriction {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	prefs[domain.PrefRestrictions] = append(restrictions[:idx], restrictions[idx+1:]...)
	return r.updatePreferences(ctx, id, prefs)
}

// AppendVisitHistory adds one entry to the visit history, never touching
// prior entries.
func (r *visitorsRepo) AppendVisitHistory(ctx context.Context, id int64, date time.Time, attractionIDs []int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	v, err := r.GetByID(ctx, id)
	if err != nil || v == nil {
		return false, err
	}

	prefs := v.Preferences
	if prefs == nil {
		prefs = domain.Document{}
	}

	history, _ := prefs.Array(domain.PrefVisitHistory)
	prefs[domain.PrefVisitHistory] = append(history, domain.VisitEntry{
		Date:          date.Format("2006-01-02"),
		AttractionIDs: attractionIDs,
	})

	return r.updatePreferences(ctx, id, prefs)
}

// RankedByTicketCount lists every visitor with how many tickets they hold,
// most first. Visitors with no tickets appear with a zero count.
func (r *visitorsRepo) RankedByTicketCount(ctx context.Context) ([]domain.VisitorTicketCount, error) {
	const q = `SELECT v.id, v.name, v.email, v.height, v.registered_at, v.preferences,
COUNT(t.id) AS ticket_count
FROM visitors v
LEFT JOIN tickets t ON t.visitor_id = v.id
GROUP BY v.id
ORDER BY ticket_count DESC`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.VisitorTicketCount, 0)
	for rows.Next() {
		var vc domain.VisitorTicketCount
		if err := rows.Scan(&vc.ID, &vc.Name, &vc.Email, &vc.Height, &vc.RegisteredAt, &vc.Preferences, &vc.TicketCount); err != nil {
			return nil, err
		}
		out = append(out, vc)
	}
	return out, rows.Err()
}

// SpentMoreThan totals the price field of each visitor's purchase documents
// and keeps those strictly above amount. Visitors without tickets never
// appear; tickets without a price contribute nothing to the sum.
func (r *visitorsRepo) SpentMoreThan(ctx context.Context, amount float64) ([]domain.VisitorSpend, error) {
	const q = `SELECT v.id, v.name, v.email, v.height, v.registered_at, v.preferences,
SUM((t.purchase_details->>'price')::float8) AS total_spent
FROM visitors v
JOIN tickets t ON t.visitor_id = v.id
GROUP BY v.id
HAVING SUM((t.purchase_details->>'price')::float8) > $1
ORDER BY total_spent DESC`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, amount)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.VisitorSpend, 0)
	for rows.Next() {
		var vs domain.VisitorSpend
		if err := rows.Scan(&vs.ID, &vs.Name, &vs.Email, &vs.Height, &vs.RegisteredAt, &vs.Preferences, &vs.TotalSpent); err != nil {
			return nil, err
		}
		out = append(out, vs)
	}
	return out, rows.Err()
}

var _ VisitorsRepo = (*visitorsRepo)(nil)
