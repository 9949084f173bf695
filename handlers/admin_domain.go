package handlers

import (
	"fmt"
	"net/http"

	"licenseserver/middleware"
	"licenseserver/models"
	"licenseserver/services"
)

// DomainHandler owns admin management of domain bindings.
type DomainHandler struct {
	domains services.DomainService
	admins  services.AdminService
}

// NewDomainHandler creates the handler for domain binding management.
func NewDomainHandler(domains services.DomainService, admins services.AdminService) *DomainHandler {
	return &DomainHandler{domains: domains, admins: admins}
}

// List returns the bindings of one license
// @Summary List domain bindings
// @Tags admin - domains
// @Produce json
// @Security BearerAuth
// @Param id path string true "License ID"
// @Success 200 {object} models.APIResponse "Domain bindings"
// @Failure 500 {object} models.APIResponse "Server error"
// @Router /api/admin/licenses/{id}/domains [get]
func (h *DomainHandler) List(w http.ResponseWriter, r *http.Request) {
	licenseID := r.PathValue("id")

	bindings, err := h.domains.ListFor(r.Context(), licenseID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list domains", nil)
		return
	}

	writeJSON(w, http.StatusOK, models.SuccessResponse("Domains retrieved", bindings))
}

// Unbind releases a domain slot
// @Summary Unbind a domain
// @Description Removes a domain binding, freeing the slot for another domain
// @Tags admin - domains
// @Produce json
// @Security BearerAuth
// @Param domainId path string true "Domain binding ID"
// @Success 200 {object} models.APIResponse "Domain unbound"
// @Failure 404 {object} models.APIResponse "Binding not found"
// @Failure 500 {object} models.APIResponse "Server error"
// @Router /api/admin/domains/{domainId} [delete]
func (h *DomainHandler) Unbind(w http.ResponseWriter, r *http.Request) {
	domainID := r.PathValue("domainId")

	err := h.domains.Unbind(r.Context(), domainID)
	if err == services.ErrDomainNotFound {
		writeError(w, http.StatusNotFound, "Domain binding not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to unbind domain", nil)
		return
	}

	h.admins.RecordActivity(r.Context(), middleware.AdminID(r.Context()), middleware.Username(r.Context()),
		models.AdminActionDomainUnbind, fmt.Sprintf("Unbound domain binding %s", domainID))

	writeJSON(w, http.StatusOK, models.SuccessResponse("Domain unbound", nil))
}

// Verify flags a binding as manually verified
// @Summary Set domain verification
// @Description Marks a binding as verified or unverified; the flag is informational and does not gate validation
// @Tags admin - domains
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param domainId path string true "Domain binding ID"
// @Param request body models.VerifyDomainRequest true "Verification flag"
// @Success 200 {object} models.APIResponse "Verification updated"
// @Failure 404 {object} models.APIResponse "Binding not found"
// @Failure 500 {object} models.APIResponse "Server error"
// @Router /api/admin/domains/{domainId}/verify [put]
func (h *DomainHandler) Verify(w http.ResponseWriter, r *http.Request) {
	domainID := r.PathValue("domainId")

	var req models.VerifyDomainRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.domains.SetVerified(r.Context(), domainID, req.Verified)
	if err == services.ErrDomainNotFound {
		writeError(w, http.StatusNotFound, "Domain binding not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update verification", nil)
		return
	}

	h.admins.RecordActivity(r.Context(), middleware.AdminID(r.Context()), middleware.Username(r.Context()),
		models.AdminActionDomainVerify, fmt.Sprintf("Set verified=%t on binding %s", req.Verified, domainID))

	writeJSON(w, http.StatusOK, models.SuccessResponse("Verification updated", nil))
}
