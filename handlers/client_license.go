package handlers

import (
	"net/http"
	"strings"

	"licenseserver/logger"
	"licenseserver/middleware"
	"licenseserver/models"
	"licenseserver/services"
)

// ValidationHandler exposes the public license validation endpoint.
type ValidationHandler struct {
	validator services.ValidationService
}

// NewValidationHandler creates the handler for the public validation API.
func NewValidationHandler(validator services.ValidationService) *ValidationHandler {
	return &ValidationHandler{validator: validator}
}

// Validate validates a license key for a domain and product
// @Summary Validate a license
// @Description Checks a license key against a domain and product and returns a signed entitlement on success
// @Tags client
// @Accept json
// @Produce json
// @Param request body models.ValidateRequest true "Validation request"
// @Success 200 {object} models.EntitlementResponse "Validation outcome"
// @Failure 400 {object} models.APIResponse "Missing or malformed fields"
// @Failure 429 {object} models.APIResponse "Rate limit exceeded"
// @Failure 500 {object} models.APIResponse "Server error"
// @Router /api/v1/validate [post]
func (h *ValidationHandler) Validate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.RequestID(r.Context())

	var req models.ValidateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	req.LicenseKey = strings.TrimSpace(req.LicenseKey)
	req.Domain = strings.ToLower(strings.TrimSpace(req.Domain))
	req.ProductSlug = strings.TrimSpace(req.ProductSlug)

	// Malformed requests are rejected before the engine runs, so they never
	// reach the audit log.
	if req.LicenseKey == "" || req.Domain == "" || req.ProductSlug == "" {
		writeError(w, http.StatusBadRequest, "license_key, domain and product_slug are required", nil)
		return
	}

	result, err := h.validator.Validate(r.Context(), req,
		middleware.GetClientIP(r), r.UserAgent())
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id":  requestID,
			"license_key": req.LicenseKey,
			"error":       err.Error(),
		}).Error("Validation failed")

		writeError(w, http.StatusInternalServerError, "Validation failed", nil)
		return
	}

	logger.WithFields(map[string]interface{}{
		"request_id":  requestID,
		"license_key": req.LicenseKey,
		"domain":      req.Domain,
		"valid":       result.Valid,
		"reason":      result.Reason,
	}).Info("License validation")

	// Decided outcomes, valid or not, are 200; the body carries the verdict.
	if result.Valid {
		writeJSON(w, http.StatusOK, result.Response)
		return
	}

	writeJSON(w, http.StatusOK, models.ValidateFailure{Valid: false, Message: result.Message})
}
