package account

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/karthikkarki2001-ops/bolt64/internal/listing"
	"github.com/karthikkarki2001-ops/bolt64/internal/workflow"
)

// Lifecycle owns the account state machine: registration, the admin approval
// workflow for therapists, profile updates, and deletion. It is the sole
// writer of a listing's status field, keeping it equal to the account's.
type Lifecycle struct {
	accounts Store
	listings listing.Store
	log      *zap.Logger
}

func NewLifecycle(accounts Store, listings listing.Store, log *zap.Logger) *Lifecycle {
	if log == nil {
		log = zap.NewNop()
	}
	return &Lifecycle{accounts: accounts, listings: listings, log: log}
}

// approvalSyncStore is an optional store capability: apply an approval
// transition to the account and its listing atomically. The Postgres
// repository implements it; when absent, SetStatus falls back to a
// compensating write sequence.
type approvalSyncStore interface {
	SetStatusWithListing(ctx context.Context, id string, next workflow.ApprovalStatus) error
}

// cascadeDeleteStore is the matching optional capability for deletion.
type cascadeDeleteStore interface {
	DeleteWithListing(ctx context.Context, id string) error
}

// Register creates the account. Patients and admins are active immediately;
// therapists start pending and get a pending service listing created from
// their profile in the same logical operation.
func (l *Lifecycle) Register(ctx context.Context, a *Account) (*Account, error) {
	if _, err := l.accounts.GetByEmail(ctx, a.Email); err == nil {
		return nil, workflow.E(workflow.KindDuplicateEmail, "email already registered")
	} else if workflow.KindOf(err) != workflow.KindNotFound {
		return nil, err
	}

	switch a.Role {
	case RoleTherapist:
		a.Status = workflow.StatusPending
	default:
		a.Status = workflow.StatusApproved
	}

	if err := l.accounts.Put(ctx, a); err != nil {
		return nil, err
	}

	if a.Role == RoleTherapist {
		lst := &listing.Listing{
			TherapistID:    a.ID,
			TherapistName:  a.Name,
			TherapistEmail: a.Email,
			Specialization: a.Specialization,
			LicenseNumber:  a.LicenseNumber,
			HourlyRate:     a.HourlyRate,
			Status:         workflow.StatusPending,
			Availability:   a.Availability,
		}
		if err := l.listings.Put(ctx, lst); err != nil {
			// Roll the registration back rather than leave a therapist
			// without a listing.
			if derr := l.accounts.Delete(ctx, a.ID); derr != nil {
				l.log.Error("listing create failed and account rollback failed",
					zap.String("account_id", a.ID), zap.Error(derr))
			}
			return nil, err
		}
	}

	l.log.Info("account registered",
		zap.String("account_id", a.ID), zap.String("role", string(a.Role)))
	return a, nil
}

// SetStatus applies an approval transition to a therapist account and its
// listing, both-or-neither. When the store cannot do this atomically, the
// order is: validate, write account, write listing, and on listing failure
// restore the account to its prior record.
func (l *Lifecycle) SetStatus(ctx context.Context, id string, next workflow.ApprovalStatus) (*Account, error) {
	cur, err := l.accounts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur.Role != RoleTherapist {
		return nil, workflow.E(workflow.KindInvalidRole, "status transitions apply to therapist accounts only")
	}
	if !workflow.CanTransitionApproval(cur.Status, next) {
		return nil, workflow.E(workflow.KindInvalidTransition, "approval transition not permitted")
	}

	if s, ok := l.accounts.(approvalSyncStore); ok {
		if err := s.SetStatusWithListing(ctx, id, next); err != nil {
			return nil, err
		}
		cur.Status = next
		l.log.Info("approval status changed",
			zap.String("account_id", id), zap.String("status", string(next)))
		return cur, nil
	}

	prev := *cur
	cur.Status = next
	if err := l.accounts.Put(ctx, cur); err != nil {
		return nil, err
	}

	lst, err := l.listings.GetByTherapist(ctx, id)
	switch {
	case err == nil:
		lst.Status = next
		if err := l.listings.Put(ctx, lst); err != nil {
			// Compensate: the listing write failed, so restore the account
			// rather than leave the pair inconsistent.
			if rerr := l.accounts.Put(ctx, &prev); rerr != nil {
				l.log.Error("listing write failed and account restore failed",
					zap.String("account_id", id), zap.Error(rerr))
			}
			return nil, err
		}
	case workflow.IsKind(err, workflow.KindNotFound):
		// No listing yet; the account alone carries the status.
	default:
		if rerr := l.accounts.Put(ctx, &prev); rerr != nil {
			l.log.Error("listing read failed and account restore failed",
				zap.String("account_id", id), zap.Error(rerr))
		}
		return nil, err
	}

	l.log.Info("approval status changed",
		zap.String("account_id", id), zap.String("status", string(next)))
	return cur, nil
}

// Delete removes the account and, for therapists, its listing as one logical
// unit. Historical bookings are left untouched.
func (l *Lifecycle) Delete(ctx context.Context, id string) error {
	cur, err := l.accounts.Get(ctx, id)
	if err != nil {
		return err
	}

	if s, ok := l.accounts.(cascadeDeleteStore); ok {
		return s.DeleteWithListing(ctx, id)
	}

	if cur.Role == RoleTherapist {
		if err := l.listings.DeleteByTherapist(ctx, id); err != nil && !workflow.IsKind(err, workflow.KindNotFound) {
			return err
		}
	}
	return l.accounts.Delete(ctx, id)
}

func (l *Lifecycle) Get(ctx context.Context, id string) (*Account, error) {
	return l.accounts.Get(ctx, id)
}

func (l *Lifecycle) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return l.accounts.GetByEmail(ctx, email)
}

func (l *Lifecycle) List(ctx context.Context) ([]Account, error) {
	return l.accounts.List(ctx)
}

// ProfileUpdate carries optional profile changes. Nil fields are unchanged.
// Status is deliberately absent: approval moves only through SetStatus.
type ProfileUpdate struct {
	Name           *string
	Age            *int
	Phone          *string
	Bio            *string
	Location       *string
	Specialization *string
	Experience     *string
	LicenseNumber  *string
	HourlyRate     *decimal.Decimal
	Availability   *[]string
}

// UpdateProfile applies profile changes and refreshes the denormalized copy
// on the therapist's listing when one exists.
func (l *Lifecycle) UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (*Account, error) {
	cur, err := l.accounts.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		cur.Name = *p.Name
	}
	if p.Age != nil {
		cur.Age = *p.Age
	}
	if p.Phone != nil {
		cur.Phone = *p.Phone
	}
	if p.Bio != nil {
		cur.Bio = *p.Bio
	}
	if p.Location != nil {
		cur.Location = *p.Location
	}
	if p.Specialization != nil {
		cur.Specialization = *p.Specialization
	}
	if p.Experience != nil {
		cur.Experience = *p.Experience
	}
	if p.LicenseNumber != nil {
		cur.LicenseNumber = *p.LicenseNumber
	}
	if p.HourlyRate != nil {
		cur.HourlyRate = *p.HourlyRate
	}
	if p.Availability != nil {
		cur.Availability = *p.Availability
	}

	if err := l.accounts.Put(ctx, cur); err != nil {
		return nil, err
	}

	if cur.Role == RoleTherapist {
		lst, err := l.listings.GetByTherapist(ctx, id)
		switch {
		case err == nil:
			lst.TherapistName = cur.Name
			lst.Specialization = cur.Specialization
			lst.LicenseNumber = cur.LicenseNumber
			lst.HourlyRate = cur.HourlyRate
			lst.Availability = cur.Availability
			if err := l.listings.Put(ctx, lst); err != nil {
				return nil, err
			}
		case workflow.IsKind(err, workflow.KindNotFound):
		default:
			return nil, err
		}
	}

	return cur, nil
}
