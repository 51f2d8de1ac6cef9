package account

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/karthikkarki2001-ops/bolt64/internal/workflow"
	"github.com/karthikkarki2001-ops/bolt64/pkg/db"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const accountCols = `
id, email, name, password_hash, role, COALESCE(status,''), COALESCE(age,0),
COALESCE(phone,''), COALESCE(bio,''), COALESCE(location,''), COALESCE(specialization,''),
COALESCE(experience,''), COALESCE(license_number,''), hourly_rate::text,
COALESCE(availability,'{}'), created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*Account, error) {
	var a Account
	var status, rate string
	if err := row.Scan(
		&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Role, &status, &a.Age,
		&a.Phone, &a.Bio, &a.Location, &a.Specialization,
		&a.Experience, &a.LicenseNumber, &rate,
		&a.Availability, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	a.Status = workflow.ApprovalStatus(status)
	if d, err := decimal.NewFromString(rate); err == nil {
		a.HourlyRate = d
	}
	return &a, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Account, error) {
	const q = `SELECT ` + accountCols + ` FROM accounts WHERE id = $1`
	a, err := scanAccount(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, storeErr("get account", err)
	}
	return a, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	const q = `SELECT ` + accountCols + ` FROM accounts WHERE email = $1`
	a, err := scanAccount(r.db.QueryRow(ctx, q, email))
	if err != nil {
		return nil, storeErr("get account by email", err)
	}
	return a, nil
}

func (r *Repository) List(ctx context.Context) ([]Account, error) {
	const q = `SELECT ` + accountCols + ` FROM accounts ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, storeErr("list accounts", err)
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, storeErr("list accounts", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *Repository) Put(ctx context.Context, a *Account) error {
	if a.ID == "" {
		const q = `
INSERT INTO accounts (email, name, password_hash, role, status, age, phone, bio, location,
                      specialization, experience, license_number, hourly_rate, availability)
VALUES ($1, $2, $3, $4, NULLIF($5,''), $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING id, created_at, updated_at
`
		if err := r.db.QueryRow(ctx, q,
			a.Email, a.Name, a.PasswordHash, string(a.Role), string(a.Status), a.Age,
			a.Phone, a.Bio, a.Location, a.Specialization, a.Experience, a.LicenseNumber,
			a.HourlyRate, a.Availability,
		).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return storeErr("insert account", err)
		}
		return nil
	}

	const q = `
UPDATE accounts
SET email = $2, name = $3, password_hash = $4, role = $5, status = NULLIF($6,''),
    age = $7, phone = $8, bio = $9, location = $10, specialization = $11,
    experience = $12, license_number = $13, hourly_rate = $14, availability = $15,
    updated_at = NOW()
WHERE id = $1
RETURNING updated_at
`
	if err := r.db.QueryRow(ctx, q,
		a.ID, a.Email, a.Name, a.PasswordHash, string(a.Role), string(a.Status),
		a.Age, a.Phone, a.Bio, a.Location, a.Specialization,
		a.Experience, a.LicenseNumber, a.HourlyRate, a.Availability,
	).Scan(&a.UpdatedAt); err != nil {
		return storeErr("update account", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM accounts WHERE id = $1`
	tag, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return storeErr("delete account", err)
	}
	if tag.RowsAffected() == 0 {
		return workflow.E(workflow.KindNotFound, "account not found")
	}
	return nil
}

// SetStatusWithListing applies an approval transition to the account and its
// listing in one transaction. The lifecycle prefers this over its compensating
// write sequence when the store offers it.
func (r *Repository) SetStatusWithListing(ctx context.Context, id string, next workflow.ApprovalStatus) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		const qLock = `SELECT role, COALESCE(status,'') FROM accounts WHERE id = $1 FOR UPDATE`
		var role, status string
		if err := tx.QueryRow(ctx, qLock, id).Scan(&role, &status); err != nil {
			return storeErr("lock account", err)
		}
		if Role(role) != RoleTherapist {
			return workflow.E(workflow.KindInvalidRole, "status transitions apply to therapist accounts only")
		}
		if !workflow.CanTransitionApproval(workflow.ApprovalStatus(status), next) {
			return workflow.E(workflow.KindInvalidTransition, "approval transition not permitted")
		}

		const qAccount = `UPDATE accounts SET status = $2, updated_at = NOW() WHERE id = $1`
		if _, err := tx.Exec(ctx, qAccount, id, string(next)); err != nil {
			return storeErr("update account status", err)
		}

		// Zero rows is fine here: the listing may not exist yet.
		const qListing = `UPDATE listings SET status = $2, updated_at = NOW() WHERE therapist_id = $1`
		if _, err := tx.Exec(ctx, qListing, id, string(next)); err != nil {
			return storeErr("update listing status", err)
		}
		return nil
	})
}

// DeleteWithListing removes the account and its listing as one transaction.
func (r *Repository) DeleteWithListing(ctx context.Context, id string) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		const qListing = `DELETE FROM listings WHERE therapist_id = $1`
		if _, err := tx.Exec(ctx, qListing, id); err != nil {
			return storeErr("delete listing", err)
		}
		const qAccount = `DELETE FROM accounts WHERE id = $1`
		tag, err := tx.Exec(ctx, qAccount, id)
		if err != nil {
			return storeErr("delete account", err)
		}
		if tag.RowsAffected() == 0 {
			return workflow.E(workflow.KindNotFound, "account not found")
		}
		return nil
	})
}

func storeErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return workflow.E(workflow.KindNotFound, "account not found")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return workflow.E(workflow.KindDuplicateEmail, "email already registered")
	}
	if workflow.KindOf(err) != "" {
		return err
	}
	return workflow.Wrap(workflow.KindStoreUnavailable, op, err)
}
