package auth

import (
	"testing"
	"time"
)

func TestSignAndVerifyToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tok, err := SignToken("test-secret", "acct-1", "therapist", time.Hour, now)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	id, err := VerifyToken(tok, "test-secret", now.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.AccountID != "acct-1" {
		t.Fatalf("expected acct-1, got %q", id.AccountID)
	}
	if id.Role != "therapist" {
		t.Fatalf("expected therapist role, got %q", id.Role)
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tok, err := SignToken("test-secret", "acct-1", "patient", time.Hour, now)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := VerifyToken(tok, "test-secret", now.Add(2*time.Hour)); err == nil {
		t.Fatalf("expected expiry error")
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tok, err := SignToken("test-secret", "acct-1", "patient", time.Hour, now)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := VerifyToken(tok, "other-secret", now); err == nil {
		t.Fatalf("expected signature error")
	}
}
