package booking

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/karthikkarki2001-ops/bolt64/internal/api"
	"github.com/karthikkarki2001-ops/bolt64/internal/audit"
)

type Handlers struct {
	Lifecycle *Lifecycle
	Audit     *audit.Recorder
}

// List returns the caller's bookings, or another user's when userId is given
// (the admin surface passes it; ordinary callers default to themselves).
func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		if id := api.IdentityFromContext(r.Context()); id != nil {
			userID = id.AccountID
		}
	}
	if userID == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing userId")
		return
	}

	items, err := h.Lifecycle.ListForUser(r.Context(), userID)
	if err != nil {
		api.WriteWorkflowError(w, err)
		return
	}
	if items == nil {
		items = []Booking{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

type CreateRequest struct {
	TherapistID string `json:"therapistId"`
	PatientName string `json:"patientName"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Type        string `json:"type"`
	Amount      string `json:"amount,omitempty"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	id := api.IdentityFromContext(r.Context())
	if id == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if req.TherapistID == "" || req.Date == "" || req.Time == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "therapistId, date and time are required")
		return
	}

	b := &Booking{
		PatientID:   id.AccountID,
		PatientName: req.PatientName,
		TherapistID: req.TherapistID,
		Date:        req.Date,
		Time:        req.Time,
		Type:        req.Type,
		Amount:      req.Amount,
	}
	if _, err := h.Lifecycle.Create(r.Context(), b); err != nil {
		api.WriteWorkflowError(w, err)
		return
	}
	h.Audit.Record(r.Context(), id.AccountID, audit.ActionBookingCreated, b.ID,
		map[string]any{"therapistId": b.TherapistID, "date": b.Date, "time": b.Time})

	api.WriteJSON(w, http.StatusCreated, b)
}

type PatchStatusRequest struct {
	Event string `json:"event"`
}

// PatchStatus applies a lifecycle event: complete or cancel.
func (h Handlers) PatchStatus(w http.ResponseWriter, r *http.Request) {
	var req PatchStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	event, err := ParseEvent(req.Event)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid event")
		return
	}

	b, err := h.Lifecycle.Transition(r.Context(), chi.URLParam(r, "id"), event)
	if err != nil {
		api.WriteWorkflowError(w, err)
		return
	}
	action := audit.ActionBookingCancelled
	if event == EventComplete {
		action = audit.ActionBookingCompleted
	}
	h.Audit.Record(r.Context(), actorID(r), action, b.ID, nil)

	api.WriteJSON(w, http.StatusOK, b)
}

type UpdateRequest struct {
	Date        string  `json:"date,omitempty"`
	Time        string  `json:"time,omitempty"`
	MeetingLink string  `json:"meetingLink,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// Update handles reschedules and note annotations. Notes are accepted in any
// state; date/time/link changes only before the booking is terminal.
func (h Handlers) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	var (
		b   *Booking
		err error
	)
	if req.Date != "" || req.Time != "" || req.MeetingLink != "" {
		b, err = h.Lifecycle.Reschedule(r.Context(), id, req.Date, req.Time, req.MeetingLink)
		if err != nil {
			api.WriteWorkflowError(w, err)
			return
		}
	}
	if req.Notes != nil {
		b, err = h.Lifecycle.AnnotateNotes(r.Context(), id, *req.Notes)
		if err != nil {
			api.WriteWorkflowError(w, err)
			return
		}
	}
	if b == nil {
		b, err = h.Lifecycle.Get(r.Context(), id)
		if err != nil {
			api.WriteWorkflowError(w, err)
			return
		}
	}

	api.WriteJSON(w, http.StatusOK, b)
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Lifecycle.Delete(r.Context(), id); err != nil {
		api.WriteWorkflowError(w, err)
		return
	}
	h.Audit.Record(r.Context(), actorID(r), audit.ActionBookingDeleted, id, nil)

	api.WriteJSON(w, http.StatusOK, map[string]any{"message": "booking deleted successfully"})
}

// Metrics returns the derived summary for one user's bookings.
func (h Handlers) Metrics(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		if id := api.IdentityFromContext(r.Context()); id != nil {
			userID = id.AccountID
		}
	}
	if userID == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing userId")
		return
	}

	items, err := h.Lifecycle.ListForUser(r.Context(), userID)
	if err != nil {
		api.WriteWorkflowError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, ComputeMetrics(items))
}

func actorID(r *http.Request) string {
	if id := api.IdentityFromContext(r.Context()); id != nil {
		return id.AccountID
	}
	return ""
}
