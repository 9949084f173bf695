package handlers

import (
	"net/http"

	"licenseserver/models"
	"licenseserver/services"
)

// DashboardHandler serves the memoized admin overview.
type DashboardHandler struct {
	dashboard services.DashboardService
}

// NewDashboardHandler creates the handler for the dashboard.
func NewDashboardHandler(dashboard services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats returns aggregate counts for the admin overview
// @Summary Dashboard statistics
// @Description Returns license, customer and validation aggregates; results are cached briefly and invalidated on mutations
// @Tags admin - dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=services.DashboardStats} "Statistics"
// @Failure 500 {object} models.APIResponse "Server error"
// @Router /api/admin/dashboard [get]
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute statistics", nil)
		return
	}

	writeJSON(w, http.StatusOK, models.SuccessResponse("Statistics retrieved", stats))
}
