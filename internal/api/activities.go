package api

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/realdesk/pkg/types"
)

type activitiesHandler struct {
	log types.ActivityLog
	zl  *zap.Logger
}

// list serves GET /api/activities?limit=N. Without limit every entry is
// returned.
func (h activitiesHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	acts, err := h.log.List(r.Context(), limit)
	if err != nil {
		writeFailure(w, r, h.zl, "Error fetching activities", err)
		return
	}
	writeJSON(w, http.StatusOK, acts)
}
