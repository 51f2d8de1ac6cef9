package booking_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/karthikkarki2001-ops/bolt64/internal/booking"
	"github.com/karthikkarki2001-ops/bolt64/internal/listing"
	"github.com/karthikkarki2001-ops/bolt64/internal/memstore"
	"github.com/karthikkarki2001-ops/bolt64/internal/workflow"
)

func newLifecycle(t *testing.T, status workflow.ApprovalStatus) (*booking.Lifecycle, *memstore.Bookings, *listing.Listing) {
	t.Helper()
	bookings := memstore.NewBookings()
	listings := memstore.NewListings()
	lst := &listing.Listing{
		TherapistID:   "ther-1",
		TherapistName: "Dr. Sarah Smith",
		HourlyRate:    decimal.NewFromInt(120),
		Status:        status,
	}
	if err := listings.Put(context.Background(), lst); err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	return booking.NewLifecycle(bookings, listings, nil), bookings, lst
}

func confirmedBooking() *booking.Booking {
	return &booking.Booking{
		PatientID:   "pat-1",
		TherapistID: "ther-1",
		Date:        "2026-09-10",
		Time:        "10:00",
		Type:        "video",
	}
}

func TestCreate_RequiresApprovedListing(t *testing.T) {
	l, _, _ := newLifecycle(t, workflow.StatusPending)

	_, err := l.Create(context.Background(), confirmedBooking())
	if !workflow.IsKind(err, workflow.KindTherapistNotApproved) {
		t.Fatalf("expected TherapistNotApproved for pending listing, got %v", err)
	}
}

func TestCreate_MissingListing(t *testing.T) {
	l := booking.NewLifecycle(memstore.NewBookings(), memstore.NewListings(), nil)

	_, err := l.Create(context.Background(), confirmedBooking())
	if !workflow.IsKind(err, workflow.KindTherapistNotApproved) {
		t.Fatalf("expected TherapistNotApproved for missing listing, got %v", err)
	}
}

func TestCreate_StartsConfirmedWithListingDefaults(t *testing.T) {
	l, _, lst := newLifecycle(t, workflow.StatusApproved)

	b, err := l.Create(context.Background(), confirmedBooking())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Status != booking.StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", b.Status)
	}
	if b.TherapistName != lst.TherapistName {
		t.Fatalf("therapist name not filled from listing: %q", b.TherapistName)
	}
	if b.Amount != "$120" {
		t.Fatalf("amount not filled from listing rate: %q", b.Amount)
	}
}

func TestTransition_CompleteThenCancel(t *testing.T) {
	l, bookings, _ := newLifecycle(t, workflow.StatusApproved)
	ctx := context.Background()

	b, err := l.Create(ctx, confirmedBooking())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := l.Transition(ctx, b.ID, booking.EventComplete); err != nil {
		t.Fatalf("complete: %v", err)
	}

	for _, ev := range []booking.Event{booking.EventComplete, booking.EventCancel} {
		_, err := l.Transition(ctx, b.ID, ev)
		if !workflow.IsKind(err, workflow.KindInvalidTransition) {
			t.Fatalf("expected InvalidTransition on %s after completion, got %v", ev, err)
		}
	}

	got, err := bookings.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != booking.StatusCompleted {
		t.Fatalf("terminal status mutated: %s", got.Status)
	}
}

func TestTransition_CancelIsTerminal(t *testing.T) {
	l, _, _ := newLifecycle(t, workflow.StatusApproved)
	ctx := context.Background()

	b, err := l.Create(ctx, confirmedBooking())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := l.Transition(ctx, b.ID, booking.EventCancel); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := l.Transition(ctx, b.ID, booking.EventComplete); !workflow.IsKind(err, workflow.KindInvalidTransition) {
		t.Fatalf("expected InvalidTransition after cancel, got %v", err)
	}
}

func TestTransition_NotFound(t *testing.T) {
	l, _, _ := newLifecycle(t, workflow.StatusApproved)
	_, err := l.Transition(context.Background(), "missing", booking.EventComplete)
	if !workflow.IsKind(err, workflow.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestReschedule_TerminalIsImmutable(t *testing.T) {
	l, bookings, _ := newLifecycle(t, workflow.StatusApproved)
	ctx := context.Background()

	b, err := l.Create(ctx, confirmedBooking())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := l.Transition(ctx, b.ID, booking.EventComplete); err != nil {
		t.Fatalf("complete: %v", err)
	}

	_, err = l.Reschedule(ctx, b.ID, "2026-09-20", "14:00", "")
	if !workflow.IsKind(err, workflow.KindInvalidTransition) {
		t.Fatalf("expected InvalidTransition, got %v", err)
	}
	got, err := bookings.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Date != "2026-09-10" || got.Time != "10:00" {
		t.Fatalf("completed booking rescheduled: %s %s", got.Date, got.Time)
	}
}

func TestAnnotateNotes_AllowedAfterCompletion(t *testing.T) {
	l, _, _ := newLifecycle(t, workflow.StatusApproved)
	ctx := context.Background()

	b, err := l.Create(ctx, confirmedBooking())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := l.Transition(ctx, b.ID, booking.EventComplete); err != nil {
		t.Fatalf("complete: %v", err)
	}

	got, err := l.AnnotateNotes(ctx, b.ID, "good progress on sleep routine")
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if got.Notes != "good progress on sleep routine" {
		t.Fatalf("notes not saved: %q", got.Notes)
	}
	if got.Status != booking.StatusCompleted {
		t.Fatalf("annotating changed status: %s", got.Status)
	}
}

func TestListForUser_MostRecentFirst(t *testing.T) {
	l, _, _ := newLifecycle(t, workflow.StatusApproved)
	ctx := context.Background()

	seed := []struct{ date, tm string }{
		{"2026-09-01", "09:00"},
		{"2026-09-02", "10:00"},
		{"2026-09-02", "08:00"},
		{"2026-08-15", "16:00"},
	}
	for _, s := range seed {
		b := confirmedBooking()
		b.Date, b.Time = s.date, s.tm
		if _, err := l.Create(ctx, b); err != nil {
			t.Fatalf("create %s %s: %v", s.date, s.tm, err)
		}
	}

	// A booking for someone else must not appear.
	other := confirmedBooking()
	other.PatientID = "pat-2"
	other.Date = "2026-09-03"
	if _, err := l.Create(ctx, other); err != nil {
		t.Fatalf("create other: %v", err)
	}

	got, err := l.ListForUser(ctx, "pat-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []struct{ date, tm string }{
		{"2026-09-02", "10:00"},
		{"2026-09-02", "08:00"},
		{"2026-09-01", "09:00"},
		{"2026-08-15", "16:00"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d bookings, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Date != w.date || got[i].Time != w.tm {
			t.Fatalf("position %d: expected %s %s, got %s %s", i, w.date, w.tm, got[i].Date, got[i].Time)
		}
	}

	therapistSide, err := l.ListForUser(ctx, "ther-1")
	if err != nil {
		t.Fatalf("list therapist: %v", err)
	}
	if len(therapistSide) != 5 {
		t.Fatalf("therapist should see both patients' bookings, got %d", len(therapistSide))
	}
}
