package booking

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karthikkarki2001-ops/bolt64/internal/workflow"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const bookingCols = `
id, patient_id, patient_name, therapist_id, therapist_name, date, time, type, status,
COALESCE(meeting_link,''), COALESCE(notes,''), COALESCE(amount,''), created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.PatientID, &b.PatientName, &b.TherapistID, &b.TherapistName,
		&b.Date, &b.Time, &b.Type, &b.Status,
		&b.MeetingLink, &b.Notes, &b.Amount, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, storeErr("get booking", err)
	}
	return b, nil
}

func (r *Repository) ListForUser(ctx context.Context, userID string) ([]Booking, error) {
	const q = `
SELECT ` + bookingCols + `
FROM bookings
WHERE patient_id = $1 OR therapist_id = $1
ORDER BY date DESC, time DESC
`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, storeErr("list bookings", err)
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, storeErr("list bookings", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *Repository) Put(ctx context.Context, b *Booking) error {
	if b.ID == "" {
		const q = `
INSERT INTO bookings (patient_id, patient_name, therapist_id, therapist_name,
                      date, time, type, status, meeting_link, notes, amount)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id, created_at, updated_at
`
		if err := r.db.QueryRow(ctx, q,
			b.PatientID, b.PatientName, b.TherapistID, b.TherapistName,
			b.Date, b.Time, b.Type, string(b.Status), b.MeetingLink, b.Notes, b.Amount,
		).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return storeErr("insert booking", err)
		}
		return nil
	}

	const q = `
UPDATE bookings
SET date = $2, time = $3, type = $4, status = $5, meeting_link = $6, notes = $7,
    amount = $8, updated_at = NOW()
WHERE id = $1
RETURNING updated_at
`
	if err := r.db.QueryRow(ctx, q,
		b.ID, b.Date, b.Time, b.Type, string(b.Status), b.MeetingLink, b.Notes, b.Amount,
	).Scan(&b.UpdatedAt); err != nil {
		return storeErr("update booking", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM bookings WHERE id = $1`
	tag, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return storeErr("delete booking", err)
	}
	if tag.RowsAffected() == 0 {
		return workflow.E(workflow.KindNotFound, "booking not found")
	}
	return nil
}

func storeErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return workflow.E(workflow.KindNotFound, "booking not found")
	}
	if workflow.KindOf(err) != "" {
		return err
	}
	return workflow.Wrap(workflow.KindStoreUnavailable, op, err)
}
