package account_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/karthikkarki2001-ops/bolt64/internal/account"
	"github.com/karthikkarki2001-ops/bolt64/internal/listing"
	"github.com/karthikkarki2001-ops/bolt64/internal/memstore"
	"github.com/karthikkarki2001-ops/bolt64/internal/workflow"
)

func newLifecycle() (*account.Lifecycle, *memstore.Accounts, *memstore.Listings) {
	accounts := memstore.NewAccounts()
	listings := memstore.NewListings()
	return account.NewLifecycle(accounts, listings, nil), accounts, listings
}

func registerTherapist(t *testing.T, l *account.Lifecycle) *account.Account {
	t.Helper()
	a, err := l.Register(context.Background(), &account.Account{
		Email:          "dr@example.com",
		Name:           "Dr. Sarah Smith",
		PasswordHash:   "x",
		Role:           account.RoleTherapist,
		Specialization: "Anxiety",
		LicenseNumber:  "PSY-1",
		HourlyRate:     decimal.NewFromInt(120),
	})
	if err != nil {
		t.Fatalf("register therapist: %v", err)
	}
	return a
}

func TestRegister_TherapistStartsPendingWithListing(t *testing.T) {
	l, _, listings := newLifecycle()
	a := registerTherapist(t, l)

	if a.Status != workflow.StatusPending {
		t.Fatalf("expected pending account, got %s", a.Status)
	}
	lst, err := listings.GetByTherapist(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("expected listing: %v", err)
	}
	if lst.Status != workflow.StatusPending {
		t.Fatalf("expected pending listing, got %s", lst.Status)
	}
	if lst.TherapistName != a.Name || !lst.HourlyRate.Equal(a.HourlyRate) {
		t.Fatalf("listing denormalized copy does not match account")
	}
}

func TestRegister_PatientIsActiveWithoutListing(t *testing.T) {
	l, _, listings := newLifecycle()
	a, err := l.Register(context.Background(), &account.Account{
		Email: "pat@example.com", Name: "John", PasswordHash: "x", Role: account.RolePatient,
	})
	if err != nil {
		t.Fatalf("register patient: %v", err)
	}
	if a.Status != workflow.StatusApproved {
		t.Fatalf("expected active patient, got %s", a.Status)
	}
	if _, err := listings.GetByTherapist(context.Background(), a.ID); !workflow.IsKind(err, workflow.KindNotFound) {
		t.Fatalf("expected no listing for patient, got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	l, _, _ := newLifecycle()
	registerTherapist(t, l)

	_, err := l.Register(context.Background(), &account.Account{
		Email: "dr@example.com", Name: "Other", PasswordHash: "x", Role: account.RolePatient,
	})
	if !workflow.IsKind(err, workflow.KindDuplicateEmail) {
		t.Fatalf("expected DuplicateEmail, got %v", err)
	}
}

func TestSetStatus_SyncsListing(t *testing.T) {
	l, accounts, listings := newLifecycle()
	a := registerTherapist(t, l)
	ctx := context.Background()

	moves := []workflow.ApprovalStatus{
		workflow.StatusApproved,
		workflow.StatusRejected,
		workflow.StatusApproved, // re-review
	}
	for _, next := range moves {
		if _, err := l.SetStatus(ctx, a.ID, next); err != nil {
			t.Fatalf("SetStatus(%s): %v", next, err)
		}
		got, err := accounts.Get(ctx, a.ID)
		if err != nil {
			t.Fatalf("get account: %v", err)
		}
		lst, err := listings.GetByTherapist(ctx, a.ID)
		if err != nil {
			t.Fatalf("get listing: %v", err)
		}
		if got.Status != next || lst.Status != next {
			t.Fatalf("after SetStatus(%s): account %s, listing %s", next, got.Status, lst.Status)
		}
	}
}

func TestSetStatus_NonTherapistFailsUnchanged(t *testing.T) {
	l, accounts, _ := newLifecycle()
	ctx := context.Background()

	for _, role := range []account.Role{account.RolePatient, account.RoleAdmin} {
		a, err := l.Register(ctx, &account.Account{
			Email: string(role) + "@example.com", Name: "X", PasswordHash: "x", Role: role,
		})
		if err != nil {
			t.Fatalf("register %s: %v", role, err)
		}

		_, err = l.SetStatus(ctx, a.ID, workflow.StatusRejected)
		if !workflow.IsKind(err, workflow.KindInvalidRole) {
			t.Fatalf("expected InvalidRole for %s, got %v", role, err)
		}
		got, err := accounts.Get(ctx, a.ID)
		if err != nil {
			t.Fatalf("get account: %v", err)
		}
		if got.Status != workflow.StatusApproved {
			t.Fatalf("%s account mutated by failed SetStatus: %s", role, got.Status)
		}
	}
}

func TestSetStatus_NotFound(t *testing.T) {
	l, _, _ := newLifecycle()
	_, err := l.SetStatus(context.Background(), "missing", workflow.StatusApproved)
	if !workflow.IsKind(err, workflow.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestSetStatus_InvalidTransition(t *testing.T) {
	l, _, _ := newLifecycle()
	a := registerTherapist(t, l)
	ctx := context.Background()

	if _, err := l.SetStatus(ctx, a.ID, workflow.StatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	_, err := l.SetStatus(ctx, a.ID, workflow.StatusPending)
	if !workflow.IsKind(err, workflow.KindInvalidTransition) {
		t.Fatalf("expected InvalidTransition, got %v", err)
	}
}

// failingListings injects a write failure to exercise the compensation path.
type failingListings struct {
	*memstore.Listings
	failPut bool
}

func (f *failingListings) Put(ctx context.Context, l *listing.Listing) error {
	if f.failPut {
		return workflow.E(workflow.KindStoreUnavailable, "injected listing write failure")
	}
	return f.Listings.Put(ctx, l)
}

func TestSetStatus_CompensatesWhenListingWriteFails(t *testing.T) {
	accounts := memstore.NewAccounts()
	listings := &failingListings{Listings: memstore.NewListings()}
	l := account.NewLifecycle(accounts, listings, nil)
	ctx := context.Background()

	a, err := l.Register(ctx, &account.Account{
		Email: "dr@example.com", Name: "Dr", PasswordHash: "x", Role: account.RoleTherapist,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	listings.failPut = true
	_, err = l.SetStatus(ctx, a.ID, workflow.StatusApproved)
	if !workflow.IsKind(err, workflow.KindStoreUnavailable) {
		t.Fatalf("expected StoreUnavailable, got %v", err)
	}

	got, err := accounts.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if got.Status != workflow.StatusPending {
		t.Fatalf("account not restored after listing failure: %s", got.Status)
	}
	lst, err := listings.Listings.GetByTherapist(ctx, a.ID)
	if err != nil {
		t.Fatalf("get listing: %v", err)
	}
	if lst.Status != workflow.StatusPending {
		t.Fatalf("listing mutated despite injected failure: %s", lst.Status)
	}
}

func TestDelete_CascadesListing(t *testing.T) {
	l, accounts, listings := newLifecycle()
	a := registerTherapist(t, l)
	ctx := context.Background()

	if err := l.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := accounts.Get(ctx, a.ID); !workflow.IsKind(err, workflow.KindNotFound) {
		t.Fatalf("expected account gone, got %v", err)
	}
	if _, err := listings.GetByTherapist(ctx, a.ID); !workflow.IsKind(err, workflow.KindNotFound) {
		t.Fatalf("expected listing gone, got %v", err)
	}

	if err := l.Delete(ctx, a.ID); !workflow.IsKind(err, workflow.KindNotFound) {
		t.Fatalf("expected NotFound on second delete, got %v", err)
	}
}

func TestUpdateProfile_RefreshesListingCopy(t *testing.T) {
	l, _, listings := newLifecycle()
	a := registerTherapist(t, l)
	ctx := context.Background()

	name := "Dr. Sarah Smith-Jones"
	rate := decimal.NewFromInt(150)
	if _, err := l.UpdateProfile(ctx, a.ID, account.ProfileUpdate{
		Name:       &name,
		HourlyRate: &rate,
	}); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	lst, err := listings.GetByTherapist(ctx, a.ID)
	if err != nil {
		t.Fatalf("get listing: %v", err)
	}
	if lst.TherapistName != name {
		t.Fatalf("listing name not refreshed: %s", lst.TherapistName)
	}
	if !lst.HourlyRate.Equal(rate) {
		t.Fatalf("listing rate not refreshed: %s", lst.HourlyRate)
	}
	if lst.Status != workflow.StatusPending {
		t.Fatalf("profile update must not touch status, got %s", lst.Status)
	}
}
