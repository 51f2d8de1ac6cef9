package workflow

import "testing"

func TestCanTransitionApproval(t *testing.T) {
	cases := []struct {
		from, to ApprovalStatus
		want     bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusApproved, StatusRejected, true},
		{StatusRejected, StatusApproved, true},
		{StatusApproved, StatusPending, false},
		{StatusRejected, StatusPending, false},
		{StatusApproved, StatusApproved, false},
	}
	for _, c := range cases {
		if got := CanTransitionApproval(c.from, c.to); got != c.want {
			t.Fatalf("CanTransitionApproval(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestParseApprovalStatus_Unknown(t *testing.T) {
	if _, err := ParseApprovalStatus("archived"); err == nil {
		t.Fatalf("expected error")
	}
}
