package listing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/karthikkarki2001-ops/bolt64/internal/workflow"
)

// Listing is the public-facing projection of a therapist account used for
// discovery and booking. One per therapist, keyed by TherapistID. Name,
// specialization and rate are denormalized copies refreshed by the account
// lifecycle, which is also the sole writer of Status once the listing exists.
type Listing struct {
	ID             string                  `json:"id"`
	TherapistID    string                  `json:"therapistId"`
	TherapistName  string                  `json:"therapistName"`
	TherapistEmail string                  `json:"therapistEmail"`
	Specialization string                  `json:"specialization"`
	LicenseNumber  string                  `json:"licenseNumber"`
	HourlyRate     decimal.Decimal         `json:"hourlyRate"`
	Status         workflow.ApprovalStatus `json:"status"`
	Availability   []string                `json:"availability,omitempty"`
	CreatedAt      time.Time               `json:"createdAt"`
	UpdatedAt      time.Time               `json:"updatedAt"`
}

// Store is the persistence capability set for listings. Absent records are
// workflow.KindNotFound, infrastructure faults workflow.KindStoreUnavailable.
type Store interface {
	GetByTherapist(ctx context.Context, therapistID string) (*Listing, error)
	// List returns all listings, or only those in the given status when it is
	// non-empty.
	List(ctx context.Context, status workflow.ApprovalStatus) ([]Listing, error)
	// Put inserts when ID is empty (assigning one) and updates otherwise.
	Put(ctx context.Context, l *Listing) error
	DeleteByTherapist(ctx context.Context, therapistID string) error
}
