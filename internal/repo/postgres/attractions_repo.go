package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lunapark/parkops/internal/domain"
)

type AttractionsRepo interface {
	Create(ctx context.Context, in *domain.CreateAttraction) (*domain.Attraction, error)
	ListAll(ctx context.Context) ([]domain.Attraction, error)
	ListActive(ctx context.Context) ([]domain.Attraction, error)
	GetByID(ctx context.Context, id int64) (*domain.Attraction, error)
	SetActive(ctx context.Context, id int64, active bool) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
	ListByMinIntensity(ctx context.Context, threshold int) ([]domain.Attraction, error)
	ListByMinDuration(ctx context.Context, seconds int) ([]domain.Attraction, error)
	ListWithFeatures(ctx context.Context, features []string) ([]domain.Attraction, error)
	ListWithMaintenance(ctx context.Context) ([]domain.Attraction, error)
	AddFeature(ctx context.Context, id int64, feature string) (bool, error)
	TopSelling(ctx context.Context, limit int) ([]domain.AttractionSales, error)
	CompatibleForVisitor(ctx context.Context, visitorID int64) ([]domain.Attraction, error)
}

type attractionsRepo struct{ pool *pgxpool.Pool }

func NewAttractionsRepo(pool *pgxpool.Pool) AttractionsRepo {
	return &attractionsRepo{pool: pool}
}

const attractionCols = `id, name, type, min_height, active, inaugurated_on, details`

func scanAttraction(row pgx.Row) (*domain.Attraction, error) {
	var a domain.Attraction
	err := row.Scan(&a.ID, &a.Name, &a.Type, &a.MinHeight, &a.Active, &a.InauguratedOn, &a.Details)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func collectAttractions(rows pgx.Rows) ([]domain.Attraction, error) {
	defer rows.Close()
	as := make([]domain.Attraction, 0)
	for rows.Next() {
		a, err := scanAttraction(rows)
		if err != nil {
			return nil, err
		}
		as = append(as, *a)
	}
	return as, rows.Err()
}

func (r *attractionsRepo) Create(ctx context.Context, in *domain.CreateAttraction) (*domain.Attraction, error) {
	const q = `INSERT INTO attractions (name, type, min_height, details)
VALUES ($1,$2,$3,$4)
RETURNING ` + attractionCols

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	details := in.Details
	if details == nil {
		details = domain.Document{}
	}

	a, err := scanAttraction(r.pool.QueryRow(ctx, q, in.Name, string(in.Type), in.MinHeight, details))
	if err != nil {
		return nil, wrapConstraint(err)
	}
	return a, nil
}

func (r *attractionsRepo) ListAll(ctx context.Context) ([]domain.Attraction, error) {
	const q = `SELECT ` + attractionCols + ` FROM attractions ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return collectAttractions(rows)
}

func (r *attractionsRepo) ListActive(ctx context.Context) ([]domain.Attraction, error) {
	const q = `SELECT ` + attractionCols + ` FROM attractions WHERE active ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return collectAttractions(rows)
}

func (r *attractionsRepo) GetByID(ctx context.Context, id int64) (*domain.Attraction, error) {
	const q = `SELECT ` + attractionCols + ` FROM attractions WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	a, err := scanAttraction(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// SetActive toggles operation without deleting the row, so a ride under
// repair keeps its identity and its tickets.
func (r *attractionsRepo) SetActive(ctx context.Context, id int64, active bool) (bool, error) {
	const q = `UPDATE attractions SET active=$2 WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id, active)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// Delete removes the row. Tickets that referenced it fall back to NULL scope
// via ON DELETE SET NULL and stay with their visitors.
func (r *attractionsRepo) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM attractions WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *attractionsRepo) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM attractions`).Scan(&n)
	return n, err
}

// ListByMinIntensity keeps attractions whose details carry an intensity at or
// above threshold. Rows without the field are excluded by the NULL cast.
func (r *attractionsRepo) ListByMinIntensity(ctx context.Context, threshold int) ([]domain.Attraction, error) {
	const q = `SELECT ` + attractionCols + ` FROM attractions
WHERE (details->>'intensity')::int >= $1
ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, threshold)
	if err != nil {
		return nil, err
	}
	return collectAttractions(rows)
}

func (r *attractionsRepo) ListByMinDuration(ctx context.Context, seconds int) ([]domain.Attraction, error) {
	const q = `SELECT ` + attractionCols + ` FROM attractions
WHERE (details->>'duration_seconds')::int >= $1
ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, seconds)
	if err != nil {
		return nil, err
	}
	return collectAttractions(rows)
}

// ListWithFeatures returns attractions whose features array contains every
// requested feature. jsonb @> on arrays gives the all-of semantics in one
// structural check.
func (r *attractionsRepo) ListWithFeatures(ctx context.Context, features []string) ([]domain.Attraction, error) {
	wanted, err := json.Marshal(features)
	if err != nil {
		return nil, err
	}

	const q = `SELECT ` + attractionCols + ` FROM attractions
WHERE details->'features' @> $1::jsonb
ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, string(wanted))
	if err != nil {
		return nil, err
	}
	return collectAttractions(rows)
}

// ListWithMaintenance returns attractions with at least one scheduled
// maintenance window. A missing schedule.maintenance key and an empty list
// both fail the predicate.
func (r *attractionsRepo) ListWithMaintenance(ctx context.Context) ([]domain.Attraction, error) {
	const q = `SELECT ` + attractionCols + ` FROM attractions
WHERE jsonb_typeof(details#>'{schedule,maintenance}') = 'array'
  AND jsonb_array_length(details#>'{schedule,maintenance}') > 0
ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return collectAttractions(rows)
}

// AddFeature appends the feature to the details document unless it is
// already listed. Returns false without writing when the attraction is
// unknown or the feature is present. Last-writer-wins under concurrency.
func (r *attractionsRepo) AddFeature(ctx context.Context, id int64, feature string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	a, err := r.GetByID(ctx, id)
	if err != nil || a == nil {
		return false, err
	}

	details := a.Details
	if details == nil {
		details = domain.Document{}
	}
	features := details.StringSlice(domain.DetailFeatures)
	for _, f := range features {
		if f == feature {
			return false, nil
		}
	}
	details[domain.DetailFeatures] = append(features, feature)

	const q = `UPDATE attractions SET details=$2 WHERE id=$1`
	ct, err := r.pool.Exec(ctx, q, id, details)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

const (
	defaultTopLimit = 5
	maxTopLimit     = 100
)

// clampLimit bounds a requested row cap: non-positive requests fall back to
// the default page size, anything above the maximum is capped there. A valid
// limit in between is honored as given.
func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultTopLimit
	}
	if limit > maxTopLimit {
		return maxTopLimit
	}
	return limit
}

// TopSelling ranks attractions by tickets sold against them, returning at
// most limit rows (capped at 100). General admission tickets carry no
// attraction and count for nobody.
func (r *attractionsRepo) TopSelling(ctx context.Context, limit int) ([]domain.AttractionSales, error) {
	limit = clampLimit(limit)
	const q = `SELECT a.id, a.name, a.type, a.min_height, a.active, a.inaugurated_on, a.details,
COUNT(t.id) AS tickets_sold
FROM attractions a
JOIN tickets t ON t.attraction_id = a.id
GROUP BY a.id
ORDER BY tickets_sold DESC
LIMIT $1`
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.AttractionSales, 0, limit)
	for rows.Next() {
		var as domain.AttractionSales
		if err := rows.Scan(&as.ID, &as.Name, &as.Type, &as.MinHeight, &as.Active, &as.InauguratedOn, &as.Details, &as.TicketsSold); err != nil {
			return nil, err
		}
		out = append(out, as)
	}
	return out, rows.Err()
}

// CompatibleForVisitor returns the active attractions the visitor is tall
// enough for, narrowed to their favorite type when one is set. A visitor with
// no recorded height qualifies for nothing. Unknown visitor ids surface as
// ErrMissingReference so callers can tell them from an empty match.
func (r *attractionsRepo) CompatibleForVisitor(ctx context.Context, visitorID int64) ([]domain.Attraction, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var height *int
	var prefs domain.Document
	err := r.pool.QueryRow(ctx, `SELECT height, preferences FROM visitors WHERE id=$1`, visitorID).
		Scan(&height, &prefs)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrMissingReference
	}
	if err != nil {
		return nil, err
	}
	if height == nil {
		return []domain.Attraction{}, nil
	}

	q := `SELECT ` + attractionCols + ` FROM attractions
WHERE active AND min_height <= $1`
	args := []any{*height}

	if fav, ok := prefs.String(domain.PrefFavoriteType); ok && fav != "" {
		q += ` AND type = $2`
		args = append(args, fav)
	}
	q += ` ORDER BY id`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectAttractions(rows)
}

var _ AttractionsRepo = (*attractionsRepo)(nil)
