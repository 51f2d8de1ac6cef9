package api

import (
	"encoding/json"
	"net/http"

	"github.com/karthikkarki2001-ops/bolt64/internal/workflow"
)

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(ErrorEnvelope{
		Error: APIError{Code: code, Message: message},
	})
}

// WriteWorkflowError maps a typed workflow failure to a stable HTTP response.
// Non-workflow errors are reported as INTERNAL without leaking their text.
func WriteWorkflowError(w http.ResponseWriter, err error) {
	kind := workflow.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	WriteError(w, status, string(kind), err.Error())
}

var statusByKind = map[workflow.Kind]int{
	workflow.KindNotFound:             http.StatusNotFound,
	workflow.KindDuplicateEmail:       http.StatusConflict,
	workflow.KindInvalidRole:          http.StatusUnprocessableEntity,
	workflow.KindInvalidTransition:    http.StatusConflict,
	workflow.KindTherapistNotApproved: http.StatusUnprocessableEntity,
	workflow.KindStoreUnavailable:     http.StatusServiceUnavailable,
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
