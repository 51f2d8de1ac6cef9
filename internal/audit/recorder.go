// Package audit records admin and lifecycle actions: approval transitions,
// account deletions, booking terminal transitions. Entries are advisory; a
// failed insert is logged, never surfaced to the caller.
package audit

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Action string

const (
	ActionAccountRegistered Action = "ACCOUNT_REGISTERED"
	ActionStatusChanged     Action = "APPROVAL_STATUS_CHANGED"
	ActionAccountDeleted    Action = "ACCOUNT_DELETED"
	ActionBookingCreated    Action = "BOOKING_CREATED"
	ActionBookingCompleted  Action = "BOOKING_COMPLETED"
	ActionBookingCancelled  Action = "BOOKING_CANCELLED"
	ActionBookingDeleted    Action = "BOOKING_DELETED"
)

type Entry struct {
	ID        string `json:"id"`
	Actor     string `json:"actor"`
	Action    Action `json:"action"`
	SubjectID string `json:"subjectId"`
	Metadata  any    `json:"metadata,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// Recorder writes audit entries. A nil *Recorder is a no-op, so callers never
// guard for it.
type Recorder struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRecorder(db *pgxpool.Pool, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{db: db, log: log}
}

func (r *Recorder) Record(ctx context.Context, actor string, action Action, subjectID string, metadata any) {
	if r == nil || r.db == nil {
		return
	}
	var s *string
	if metadata != nil {
		b, _ := json.Marshal(metadata)
		str := string(b)
		s = &str
	}
	const q = `
INSERT INTO audit_logs (actor, action, subject_id, metadata)
VALUES ($1, $2, $3, CAST($4 AS jsonb))
`
	if _, err := r.db.Exec(ctx, q, actor, string(action), subjectID, s); err != nil {
		r.log.Warn("audit insert failed",
			zap.String("action", string(action)), zap.Error(err))
	}
}

func (r *Recorder) ListBySubject(ctx context.Context, subjectID string) ([]Entry, error) {
	if r == nil || r.db == nil {
		return nil, nil
	}
	const q = `
SELECT id, actor, action, subject_id, COALESCE(metadata, '{}'::jsonb), created_at::text
FROM audit_logs
WHERE subject_id = $1
ORDER BY created_at DESC
`
	rows, err := r.db.Query(ctx, q, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.SubjectID, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
