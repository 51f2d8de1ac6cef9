package account

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/karthikkarki2001-ops/bolt64/internal/api"
	"github.com/karthikkarki2001-ops/bolt64/internal/audit"
	"github.com/karthikkarki2001-ops/bolt64/internal/auth"
	"github.com/karthikkarki2001-ops/bolt64/internal/listing"
	"github.com/karthikkarki2001-ops/bolt64/internal/workflow"
)

type Handlers struct {
	Lifecycle   *Lifecycle
	Audit       *audit.Recorder
	Cache       *listing.Cache
	TokenSecret string
	TokenTTL    time.Duration
}

// view is the account as returned to clients: no password hash, and no
// approval status for roles that don't carry one.
func view(a *Account) Account {
	v := *a
	v.PasswordHash = ""
	if v.Role != RoleTherapist {
		v.Status = ""
	}
	return v
}

type RegisterRequest struct {
	Email          string          `json:"email"`
	Password       string          `json:"password"`
	Name           string          `json:"name"`
	Role           string          `json:"role"`
	Age            int             `json:"age,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Bio            string          `json:"bio,omitempty"`
	Location       string          `json:"location,omitempty"`
	Specialization string          `json:"specialization,omitempty"`
	Experience     string          `json:"experience,omitempty"`
	LicenseNumber  string          `json:"licenseNumber,omitempty"`
	HourlyRate     decimal.Decimal `json:"hourlyRate,omitempty"`
	Availability   []string        `json:"availability,omitempty"`
}

func (h Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" || req.Name == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "email, password and name are required")
		return
	}
	role, err := ParseRole(req.Role)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid role")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	a := &Account{
		Email:          req.Email,
		Name:           req.Name,
		PasswordHash:   string(hash),
		Role:           role,
		Age:            req.Age,
		Phone:          req.Phone,
		Bio:            req.Bio,
		Location:       req.Location,
		Specialization: req.Specialization,
		Experience:     req.Experience,
		LicenseNumber:  req.LicenseNumber,
		HourlyRate:     req.HourlyRate,
		Availability:   req.Availability,
	}
	if _, err := h.Lifecycle.Register(r.Context(), a); err != nil {
		api.WriteWorkflowError(w, err)
		return
	}
	h.Audit.Record(r.Context(), a.ID, audit.ActionAccountRegistered, a.ID,
		map[string]any{"role": a.Role})
	if a.Role == RoleTherapist {
		h.Cache.Invalidate(r.Context())
	}

	token, err := auth.SignToken(h.TokenSecret, a.ID, string(a.Role), h.TokenTTL, time.Now())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	api.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"token":   token,
		"user":    view(a),
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

func (h Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	a, err := h.Lifecycle.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if workflow.IsKind(err, workflow.KindNotFound) {
			api.WriteError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials")
			return
		}
		api.WriteWorkflowError(w, err)
		return
	}
	if req.Role != "" && string(a.Role) != req.Role {
		api.WriteError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS",
			"this account is not registered as a "+req.Role)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)); err != nil {
		api.WriteError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials")
		return
	}

	token, err := auth.SignToken(h.TokenSecret, a.ID, string(a.Role), h.TokenTTL, time.Now())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
		"user":    view(a),
	})
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Lifecycle.List(r.Context())
	if err != nil {
		api.WriteWorkflowError(w, err)
		return
	}
	items := make([]Account, 0, len(accounts))
	for i := range accounts {
		items = append(items, view(&accounts[i]))
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.Lifecycle.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteWorkflowError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, view(a))
}

type UpdateUserRequest struct {
	// Status routes through the approval state machine; everything else is a
	// plain profile update.
	Status *string `json:"status,omitempty"`

	Name           *string          `json:"name,omitempty"`
	Age            *int             `json:"age,omitempty"`
	Phone          *string          `json:"phone,omitempty"`
	Bio            *string          `json:"bio,omitempty"`
	Location       *string          `json:"location,omitempty"`
	Specialization *string          `json:"specialization,omitempty"`
	Experience     *string          `json:"experience,omitempty"`
	LicenseNumber  *string          `json:"licenseNumber,omitempty"`
	HourlyRate     *decimal.Decimal `json:"hourlyRate,omitempty"`
	Availability   *[]string        `json:"availability,omitempty"`
}

func (h Handlers) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	if req.Status != nil {
		next, err := workflow.ParseApprovalStatus(*req.Status)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid status")
			return
		}
		if _, err := h.Lifecycle.SetStatus(r.Context(), id, next); err != nil {
			api.WriteWorkflowError(w, err)
			return
		}
		h.Audit.Record(r.Context(), actorID(r), audit.ActionStatusChanged, id,
			map[string]any{"status": next})
		h.Cache.Invalidate(r.Context())
	}

	a, err := h.Lifecycle.UpdateProfile(r.Context(), id, ProfileUpdate{
		Name:           req.Name,
		Age:            req.Age,
		Phone:          req.Phone,
		Bio:            req.Bio,
		Location:       req.Location,
		Specialization: req.Specialization,
		Experience:     req.Experience,
		LicenseNumber:  req.LicenseNumber,
		HourlyRate:     req.HourlyRate,
		Availability:   req.Availability,
	})
	if err != nil {
		api.WriteWorkflowError(w, err)
		return
	}
	if a.Role == RoleTherapist {
		h.Cache.Invalidate(r.Context())
	}

	api.WriteJSON(w, http.StatusOK, view(a))
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Lifecycle.Delete(r.Context(), id); err != nil {
		api.WriteWorkflowError(w, err)
		return
	}
	h.Audit.Record(r.Context(), actorID(r), audit.ActionAccountDeleted, id, nil)
	h.Cache.Invalidate(r.Context())

	api.WriteJSON(w, http.StatusOK, map[string]any{"message": "user deleted successfully"})
}

// AuditTrail lists recorded actions against an account.
func (h Handlers) AuditTrail(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Audit.ListBySubject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": entries})
}

func actorID(r *http.Request) string {
	if id := api.IdentityFromContext(r.Context()); id != nil {
		return id.AccountID
	}
	return ""
}
