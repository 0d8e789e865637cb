package api

import (
	"net/http"
	"time"

	"github.com/erazemk/zaloga/internal/analysis"
	"github.com/erazemk/zaloga/internal/store"
)

// ReportsHandler serves the dashboard and analysis figures.
type ReportsHandler struct {
	Store    *store.Store
	Location *time.Location
}

// Dashboard handles GET /api/dashboard.
func (h *ReportsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	items, activities, err := h.Store.Snapshot(r.Context())
	if err != nil {
		storeError(w, err, "", "dashboard")
		return
	}
	jsonResponse(w, http.StatusOK, analysis.BuildDashboard(items, activities, user.ID))
}

// Analysis handles GET /api/analysis.
func (h *ReportsHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	items, activities, err := h.Store.Snapshot(r.Context())
	if err != nil {
		storeError(w, err, "", "analysis")
		return
	}
	now := h.Store.Now().In(h.Location)
	jsonResponse(w, http.StatusOK, analysis.BuildAnalysis(items, activities, user.ID, now))
}
