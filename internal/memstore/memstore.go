// Package memstore provides in-memory implementations of the account, listing
// and booking stores. The lifecycle managers run against these in tests and in
// local development without Postgres; semantics (typed not-found errors, id
// assignment, list ordering) match the pgx repositories.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/karthikkarki2001-ops/bolt64/internal/account"
	"github.com/karthikkarki2001-ops/bolt64/internal/booking"
	"github.com/karthikkarki2001-ops/bolt64/internal/listing"
	"github.com/karthikkarki2001-ops/bolt64/internal/workflow"
)

type Accounts struct {
	mu   sync.RWMutex
	byID map[string]account.Account
}

func NewAccounts() *Accounts {
	return &Accounts{byID: make(map[string]account.Account)}
}

func (s *Accounts) Get(ctx context.Context, id string) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, workflow.E(workflow.KindNotFound, "account not found")
	}
	return &a, nil
}

func (s *Accounts) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.byID {
		if strings.EqualFold(a.Email, email) {
			a := a
			return &a, nil
		}
	}
	return nil, workflow.E(workflow.KindNotFound, "account not found")
}

func (s *Accounts) List(ctx context.Context) ([]account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]account.Account, 0, len(s.byID))
	for _, a := range s.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Accounts) Put(ctx context.Context, a *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if a.ID == "" {
		for _, existing := range s.byID {
			if strings.EqualFold(existing.Email, a.Email) {
				return workflow.E(workflow.KindDuplicateEmail, "email already registered")
			}
		}
		a.ID = uuid.NewString()
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	s.byID[a.ID] = *a
	return nil
}

func (s *Accounts) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return workflow.E(workflow.KindNotFound, "account not found")
	}
	delete(s.byID, id)
	return nil
}

type Listings struct {
	mu          sync.RWMutex
	byTherapist map[string]listing.Listing
}

func NewListings() *Listings {
	return &Listings{byTherapist: make(map[string]listing.Listing)}
}

func (s *Listings) GetByTherapist(ctx context.Context, therapistID string) (*listing.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.byTherapist[therapistID]
	if !ok {
		return nil, workflow.E(workflow.KindNotFound, "listing not found")
	}
	return &l, nil
}

func (s *Listings) List(ctx context.Context, status workflow.ApprovalStatus) ([]listing.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]listing.Listing, 0, len(s.byTherapist))
	for _, l := range s.byTherapist {
		if status != "" && l.Status != status {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Listings) Put(ctx context.Context, l *listing.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if l.ID == "" {
		l.ID = uuid.NewString()
		l.CreatedAt = now
	}
	l.UpdatedAt = now
	s.byTherapist[l.TherapistID] = *l
	return nil
}

func (s *Listings) DeleteByTherapist(ctx context.Context, therapistID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byTherapist[therapistID]; !ok {
		return workflow.E(workflow.KindNotFound, "listing not found")
	}
	delete(s.byTherapist, therapistID)
	return nil
}

type Bookings struct {
	mu   sync.RWMutex
	byID map[string]booking.Booking
}

func NewBookings() *Bookings {
	return &Bookings{byID: make(map[string]booking.Booking)}
}

func (s *Bookings) Get(ctx context.Context, id string) (*booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.byID[id]
	if !ok {
		return nil, workflow.E(workflow.KindNotFound, "booking not found")
	}
	return &b, nil
}

func (s *Bookings) ListForUser(ctx context.Context, userID string) ([]booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []booking.Booking
	for _, b := range s.byID {
		if b.PatientID == userID || b.TherapistID == userID {
			out = append(out, b)
		}
	}
	// Date then time, both descending; the string formats sort chronologically.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Time > out[j].Time
	})
	return out, nil
}

func (s *Bookings) Put(ctx context.Context, b *booking.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if b.ID == "" {
		b.ID = uuid.NewString()
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	s.byID[b.ID] = *b
	return nil
}

func (s *Bookings) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return workflow.E(workflow.KindNotFound, "booking not found")
	}
	delete(s.byID, id)
	return nil
}
