package account

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/karthikkarki2001-ops/bolt64/internal/workflow"
)

type Role string

const (
	RolePatient   Role = "patient"
	RoleTherapist Role = "therapist"
	RoleAdmin     Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePatient, RoleTherapist, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role: %s", s)
	}
}

type Account struct {
	ID           string                  `json:"id"`
	Email        string                  `json:"email"`
	Name         string                  `json:"name"`
	PasswordHash string                  `json:"-"`
	Role         Role                    `json:"role"`
	// Status is meaningful only for therapists. Patients and admins are
	// implicitly active and carry StatusApproved internally.
	Status       workflow.ApprovalStatus `json:"status,omitempty"`

	Age            int             `json:"age,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Bio            string          `json:"bio,omitempty"`
	Location       string          `json:"location,omitempty"`
	Specialization string          `json:"specialization,omitempty"`
	Experience     string          `json:"experience,omitempty"`
	LicenseNumber  string          `json:"licenseNumber,omitempty"`
	HourlyRate     decimal.Decimal `json:"hourlyRate"`
	Availability   []string        `json:"availability,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store is the persistence capability set the lifecycle needs for accounts.
// Implementations report absent records as workflow.KindNotFound and
// infrastructure faults as workflow.KindStoreUnavailable.
type Store interface {
	Get(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	List(ctx context.Context) ([]Account, error)
	// Put inserts when ID is empty (assigning one) and updates otherwise.
	Put(ctx context.Context, a *Account) error
	Delete(ctx context.Context, id string) error
}
