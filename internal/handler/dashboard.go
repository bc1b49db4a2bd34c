// Package handler contains the HTTP handlers for the admin API.
package handler

import (
	"net/http"

	"github.com/mrcars/backend/internal/dashboard"
)

// DashboardHandler serves the assembled dashboard view.
type DashboardHandler struct {
	view *dashboard.View
}

func NewDashboardHandler(view *dashboard.View) *DashboardHandler {
	return &DashboardHandler{view: view}
}

type dashboardResponse struct {
	Phase    dashboard.Phase    `json:"phase"`
	Snapshot dashboard.Snapshot `json:"snapshot"`
}

// Get returns the latest published snapshot without triggering a reload.
// A view that has never loaded reports the loading phase with an empty
// snapshot.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap, phase := h.view.Current()
	WriteJSON(w, http.StatusOK, dashboardResponse{Phase: phase, Snapshot: snap})
}

// Refresh runs the full load procedure and returns the fresh snapshot.
// Individual query failures degrade to zero values rather than failing
// the request.
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	snap := h.view.Refresh(r.Context())
	WriteJSON(w, http.StatusOK, dashboardResponse{Phase: dashboard.PhaseReady, Snapshot: snap})
}
