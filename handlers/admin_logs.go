package handlers

import (
	"net/http"
	"strconv"

	"licenseserver/models"
	"licenseserver/services"
)

// LogHandler exposes the validation audit log and admin activity log.
type LogHandler struct {
	audit  services.AuditService
	admins services.AdminService
}

// NewLogHandler creates the handler for log browsing.
func NewLogHandler(audit services.AuditService, admins services.AdminService) *LogHandler {
	return &LogHandler{audit: audit, admins: admins}
}

// ListValidations returns validation log entries
// @Summary List validation logs
// @Tags admin - logs
// @Produce json
// @Security BearerAuth
// @Param license_id query string false "Filter by license"
// @Param domain query string false "Filter by domain"
// @Param valid query bool false "Filter by outcome"
// @Param limit query int false "Max entries (default 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} models.APIResponse "Validation logs"
// @Router /api/admin/logs/validations [get]
func (h *LogHandler) ListValidations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.ValidationLogFilter{
		LicenseID: q.Get("license_id"),
		Domain:    q.Get("domain"),
	}
	if raw := q.Get("valid"); raw != "" {
		if valid, err := strconv.ParseBool(raw); err == nil {
			filter.OnlyValid = &valid
		}
	}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	entries, err := h.audit.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list validation logs", nil)
		return
	}

	writeJSON(w, http.StatusOK, models.SuccessResponse("Validation logs retrieved", entries))
}

// ListActivity returns admin activity entries
// @Summary List admin activity
// @Tags admin - logs
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max entries (default 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} models.APIResponse "Admin activity"
// @Router /api/admin/logs/activity [get]
func (h *LogHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.admins.ListActivity(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list admin activity", nil)
		return
	}

	writeJSON(w, http.StatusOK, models.SuccessResponse("Admin activity retrieved", entries))
}
