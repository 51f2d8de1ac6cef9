package workflow

import "fmt"

// ApprovalStatus is the review state of a therapist account and of its public
// service listing. The two must always agree; the account lifecycle is the
// sole writer of the listing copy.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

func ParseApprovalStatus(s string) (ApprovalStatus, error) {
	switch ApprovalStatus(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return ApprovalStatus(s), nil
	default:
		return "", fmt.Errorf("unknown approval status: %s", s)
	}
}

var allowedApprovalTransitions = map[ApprovalStatus]map[ApprovalStatus]bool{
	StatusPending:  {StatusApproved: true, StatusRejected: true},
	StatusApproved: {StatusRejected: true},
	StatusRejected: {StatusApproved: true}, // re-review is permitted
}

func CanTransitionApproval(from, to ApprovalStatus) bool {
	m, ok := allowedApprovalTransitions[from]
	if !ok {
		return false
	}
	return m[to]
}
