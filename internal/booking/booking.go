package booking

import (
	"context"
	"fmt"
	"time"
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusConfirmed, StatusCompleted, StatusCancelled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown booking status: %s", s)
	}
}

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Event is a lifecycle command against a confirmed booking.
type Event string

const (
	EventComplete Event = "complete"
	EventCancel   Event = "cancel"
)

func ParseEvent(s string) (Event, error) {
	switch Event(s) {
	case EventComplete, EventCancel:
		return Event(s), nil
	default:
		return "", fmt.Errorf("unknown booking event: %s", s)
	}
}

func (e Event) target() Status {
	if e == EventComplete {
		return StatusCompleted
	}
	return StatusCancelled
}

// Booking is a scheduled session between a patient and a therapist. Names are
// denormalized for display; participant ids are plain strings with no cascade,
// so historical bookings survive account deletion. Date and Time are kept as
// strings (YYYY-MM-DD, HH:MM) whose lexicographic order is chronological.
type Booking struct {
	ID            string    `json:"id"`
	PatientID     string    `json:"patientId"`
	PatientName   string    `json:"patientName"`
	TherapistID   string    `json:"therapistId"`
	TherapistName string    `json:"therapistName"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Type          string    `json:"type"`
	Status        Status    `json:"status"`
	MeetingLink   string    `json:"meetingLink,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	Amount        string    `json:"amount,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Store is the persistence capability set for bookings. ListForUser must
// return rows ordered by (date desc, time desc); clients and tests rely on
// that ordering being deterministic.
type Store interface {
	Get(ctx context.Context, id string) (*Booking, error)
	ListForUser(ctx context.Context, userID string) ([]Booking, error)
	// Put inserts when ID is empty (assigning one) and updates otherwise.
	Put(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id string) error
}
