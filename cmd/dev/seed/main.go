// Seeds a development database with demo accounts, listings and bookings:
// one patient, one approved therapist, one pending therapist, one admin, and
// a small booking history for the patient.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/karthikkarki2001-ops/bolt64/internal/account"
	"github.com/karthikkarki2001-ops/bolt64/internal/booking"
	"github.com/karthikkarki2001-ops/bolt64/internal/listing"
	"github.com/karthikkarki2001-ops/bolt64/internal/workflow"
	"github.com/karthikkarki2001-ops/bolt64/pkg/config"
	"github.com/karthikkarki2001-ops/bolt64/pkg/db"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.Open(ctx, cfg)
	if err != nil {
		fail("db open: %v", err)
	}
	defer pool.Close()

	accounts := account.NewRepository(pool)
	listings := listing.NewRepository(pool)
	bookings := booking.NewRepository(pool)
	accountLifecycle := account.NewLifecycle(accounts, listings, nil)
	bookingLifecycle := booking.NewLifecycle(bookings, listings, nil)

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		fail("hash password: %v", err)
	}

	patient, err := accountLifecycle.Register(ctx, &account.Account{
		Email:        "patient@example.com",
		Name:         "John Doe",
		PasswordHash: string(hash),
		Role:         account.RolePatient,
		Age:          28,
	})
	if err != nil {
		fail("seed patient: %v", err)
	}

	therapist, err := accountLifecycle.Register(ctx, &account.Account{
		Email:          "therapist@example.com",
		Name:           "Dr. Sarah Smith",
		PasswordHash:   string(hash),
		Role:           account.RoleTherapist,
		Specialization: "Anxiety & Depression",
		Experience:     "8 years",
		LicenseNumber:  "PSY-12345",
		HourlyRate:     decimal.NewFromInt(120),
		Availability:   []string{"Mon 9-17", "Wed 9-17", "Fri 9-13"},
	})
	if err != nil {
		fail("seed therapist: %v", err)
	}
	if _, err := accountLifecycle.SetStatus(ctx, therapist.ID, workflow.StatusApproved); err != nil {
		fail("approve therapist: %v", err)
	}

	if _, err := accountLifecycle.Register(ctx, &account.Account{
		Email:          "pending-therapist@example.com",
		Name:           "Dr. Alan Reed",
		PasswordHash:   string(hash),
		Role:           account.RoleTherapist,
		Specialization: "Trauma",
		LicenseNumber:  "PSY-67890",
		HourlyRate:     decimal.NewFromInt(95),
	}); err != nil {
		fail("seed pending therapist: %v", err)
	}

	if _, err := accountLifecycle.Register(ctx, &account.Account{
		Email:        "admin@example.com",
		Name:         "Admin",
		PasswordHash: string(hash),
		Role:         account.RoleAdmin,
	}); err != nil {
		fail("seed admin: %v", err)
	}

	past, err := bookingLifecycle.Create(ctx, &booking.Booking{
		PatientID:   patient.ID,
		PatientName: patient.Name,
		TherapistID: therapist.ID,
		Date:        "2026-08-20",
		Time:        "10:00",
		Type:        "video",
	})
	if err != nil {
		fail("seed booking: %v", err)
	}
	if _, err := bookingLifecycle.Transition(ctx, past.ID, booking.EventComplete); err != nil {
		fail("complete booking: %v", err)
	}

	if _, err := bookingLifecycle.Create(ctx, &booking.Booking{
		PatientID:   patient.ID,
		PatientName: patient.Name,
		TherapistID: therapist.ID,
		Date:        "2026-09-15",
		Time:        "14:00",
		Type:        "video",
		MeetingLink: "https://meet.example.com/mindcare-demo",
	}); err != nil {
		fail("seed upcoming booking: %v", err)
	}

	fmt.Println("seed data created")
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
