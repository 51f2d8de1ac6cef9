package workflow

import (
	"errors"
	"fmt"
)

// Kind classifies a workflow failure so transport layers can map it to a
// stable response without inspecting message text.
type Kind string

const (
	KindNotFound             Kind = "NOT_FOUND"
	KindDuplicateEmail       Kind = "DUPLICATE_EMAIL"
	KindInvalidRole          Kind = "INVALID_ROLE"
	KindInvalidTransition    Kind = "INVALID_TRANSITION"
	KindTherapistNotApproved Kind = "THERAPIST_NOT_APPROVED"
	KindStoreUnavailable     Kind = "STORE_UNAVAILABLE"
)

// Error is a typed workflow failure. Callers branch on Kind via KindOf, never
// on the message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes errors.Is match two workflow errors of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a cause, typically a store/driver error surfaced as
// KindStoreUnavailable.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or "" when err is not a workflow error.
func KindOf(err error) Kind {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
