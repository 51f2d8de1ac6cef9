package listing

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/karthikkarki2001-ops/bolt64/internal/workflow"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const listingCols = `
id, therapist_id, therapist_name, therapist_email, COALESCE(specialization,''),
COALESCE(license_number,''), hourly_rate::text, status, COALESCE(availability,'{}'),
created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*Listing, error) {
	var l Listing
	var rate string
	if err := row.Scan(
		&l.ID, &l.TherapistID, &l.TherapistName, &l.TherapistEmail, &l.Specialization,
		&l.LicenseNumber, &rate, &l.Status, &l.Availability,
		&l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if d, err := decimal.NewFromString(rate); err == nil {
		l.HourlyRate = d
	}
	return &l, nil
}

func (r *Repository) GetByTherapist(ctx context.Context, therapistID string) (*Listing, error) {
	const q = `SELECT ` + listingCols + ` FROM listings WHERE therapist_id = $1`
	l, err := scanListing(r.db.QueryRow(ctx, q, therapistID))
	if err != nil {
		return nil, storeErr("get listing", err)
	}
	return l, nil
}

func (r *Repository) List(ctx context.Context, status workflow.ApprovalStatus) ([]Listing, error) {
	const q = `
SELECT ` + listingCols + `
FROM listings
WHERE ($1 = '' OR status = $1)
ORDER BY created_at DESC
`
	rows, err := r.db.Query(ctx, q, string(status))
	if err != nil {
		return nil, storeErr("list listings", err)
	}
	defer rows.Close()

	var out []Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, storeErr("list listings", err)
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func (r *Repository) Put(ctx context.Context, l *Listing) error {
	if l.ID == "" {
		const q = `
INSERT INTO listings (therapist_id, therapist_name, therapist_email, specialization,
                      license_number, hourly_rate, status, availability)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at, updated_at
`
		if err := r.db.QueryRow(ctx, q,
			l.TherapistID, l.TherapistName, l.TherapistEmail, l.Specialization,
			l.LicenseNumber, l.HourlyRate, string(l.Status), l.Availability,
		).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return storeErr("insert listing", err)
		}
		return nil
	}

	const q = `
UPDATE listings
SET therapist_name = $2, therapist_email = $3, specialization = $4, license_number = $5,
    hourly_rate = $6, status = $7, availability = $8, updated_at = NOW()
WHERE id = $1
RETURNING updated_at
`
	if err := r.db.QueryRow(ctx, q,
		l.ID, l.TherapistName, l.TherapistEmail, l.Specialization, l.LicenseNumber,
		l.HourlyRate, string(l.Status), l.Availability,
	).Scan(&l.UpdatedAt); err != nil {
		return storeErr("update listing", err)
	}
	return nil
}

func (r *Repository) DeleteByTherapist(ctx context.Context, therapistID string) error {
	const q = `DELETE FROM listings WHERE therapist_id = $1`
	tag, err := r.db.Exec(ctx, q, therapistID)
	if err != nil {
		return storeErr("delete listing", err)
	}
	if tag.RowsAffected() == 0 {
		return workflow.E(workflow.KindNotFound, "listing not found")
	}
	return nil
}

func storeErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return workflow.E(workflow.KindNotFound, "listing not found")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return workflow.Wrap(workflow.KindStoreUnavailable, "listing already exists for therapist", err)
	}
	if workflow.KindOf(err) != "" {
		return err
	}
	return workflow.Wrap(workflow.KindStoreUnavailable, op, err)
}
