package listing

import (
	"net/http"

	"github.com/karthikkarki2001-ops/bolt64/internal/api"
	"github.com/karthikkarki2001-ops/bolt64/internal/workflow"
)

type Handlers struct {
	Listings Store
	Cache    *Cache
}

// List serves the public therapist directory, optionally filtered by status.
// Results are cached per-status when a cache is configured.
func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	statusParam := r.URL.Query().Get("status")
	var status workflow.ApprovalStatus
	if statusParam != "" {
		parsed, err := workflow.ParseApprovalStatus(statusParam)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid status filter")
			return
		}
		status = parsed
	}

	cacheKey := statusParam
	if items, ok := h.Cache.Get(r.Context(), cacheKey); ok {
		api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
		return
	}

	items, err := h.Listings.List(r.Context(), status)
	if err != nil {
		api.WriteWorkflowError(w, err)
		return
	}
	if items == nil {
		items = []Listing{}
	}
	h.Cache.Set(r.Context(), cacheKey, items)

	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}
