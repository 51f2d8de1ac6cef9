package booking

import (
	"context"

	"go.uber.org/zap"

	"github.com/karthikkarki2001-ops/bolt64/internal/listing"
	"github.com/karthikkarki2001-ops/bolt64/internal/workflow"
)

// Lifecycle owns the booking state machine: creation against an approved
// therapist listing, the confirmed -> completed/cancelled transitions, and the
// derived per-user read model.
type Lifecycle struct {
	bookings Store
	listings listing.Store
	log      *zap.Logger
}

func NewLifecycle(bookings Store, listings listing.Store, log *zap.Logger) *Lifecycle {
	if log == nil {
		log = zap.NewNop()
	}
	return &Lifecycle{bookings: bookings, listings: listings, log: log}
}

// Create books a session. The therapist's listing must exist and be approved;
// a missing listing counts as not approved. The booking starts confirmed, with
// the therapist's display name and rate filled from the listing when absent.
func (l *Lifecycle) Create(ctx context.Context, b *Booking) (*Booking, error) {
	lst, err := l.listings.GetByTherapist(ctx, b.TherapistID)
	if err != nil {
		if workflow.IsKind(err, workflow.KindNotFound) {
			return nil, workflow.E(workflow.KindTherapistNotApproved, "therapist has no approved service listing")
		}
		return nil, err
	}
	if lst.Status != workflow.StatusApproved {
		return nil, workflow.E(workflow.KindTherapistNotApproved, "therapist is not approved for booking")
	}

	b.Status = StatusConfirmed
	if b.TherapistName == "" {
		b.TherapistName = lst.TherapistName
	}
	if b.Amount == "" && !lst.HourlyRate.IsZero() {
		b.Amount = "$" + lst.HourlyRate.String()
	}

	if err := l.bookings.Put(ctx, b); err != nil {
		return nil, err
	}
	l.log.Info("booking created",
		zap.String("booking_id", b.ID),
		zap.String("patient_id", b.PatientID),
		zap.String("therapist_id", b.TherapistID))
	return b, nil
}

// Transition applies complete or cancel. Terminal bookings refuse further
// transitions and are left untouched.
func (l *Lifecycle) Transition(ctx context.Context, id string, event Event) (*Booking, error) {
	b, err := l.bookings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status.Terminal() {
		return nil, workflow.E(workflow.KindInvalidTransition, "booking is already "+string(b.Status))
	}

	b.Status = event.target()
	if err := l.bookings.Put(ctx, b); err != nil {
		return nil, err
	}
	l.log.Info("booking transitioned",
		zap.String("booking_id", b.ID), zap.String("status", string(b.Status)))
	return b, nil
}

// Reschedule moves a confirmed booking to a new date/time and optionally a new
// meeting link. Terminal bookings are immutable apart from notes.
func (l *Lifecycle) Reschedule(ctx context.Context, id, date, timeOfDay, meetingLink string) (*Booking, error) {
	b, err := l.bookings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status.Terminal() {
		return nil, workflow.E(workflow.KindInvalidTransition, "booking is already "+string(b.Status))
	}

	if date != "" {
		b.Date = date
	}
	if timeOfDay != "" {
		b.Time = timeOfDay
	}
	if meetingLink != "" {
		b.MeetingLink = meetingLink
	}
	if err := l.bookings.Put(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// AnnotateNotes attaches supplementary notes. Allowed in any state, including
// completed.
func (l *Lifecycle) AnnotateNotes(ctx context.Context, id, notes string) (*Booking, error) {
	b, err := l.bookings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Notes = notes
	if err := l.bookings.Put(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (l *Lifecycle) Get(ctx context.Context, id string) (*Booking, error) {
	return l.bookings.Get(ctx, id)
}

// ListForUser returns every booking where the user is either participant,
// most recent first (date desc, time desc).
func (l *Lifecycle) ListForUser(ctx context.Context, userID string) ([]Booking, error) {
	return l.bookings.ListForUser(ctx, userID)
}

// Delete is admin/test cleanup only; normal flows end bookings via Transition.
func (l *Lifecycle) Delete(ctx context.Context, id string) error {
	return l.bookings.Delete(ctx, id)
}
