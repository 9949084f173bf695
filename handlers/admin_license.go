package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"licenseserver/logger"
	"licenseserver/middleware"
	"licenseserver/models"
	"licenseserver/services"
)

// LicenseHandler owns the admin license CRUD endpoints.
type LicenseHandler struct {
	licenses services.LicenseService
	domains  services.DomainService
	admins   services.AdminService
}

// NewLicenseHandler creates the handler for admin license management.
func NewLicenseHandler(licenses services.LicenseService, domains services.DomainService, admins services.AdminService) *LicenseHandler {
	return &LicenseHandler{licenses: licenses, domains: domains, admins: admins}
}

// licenseDetail combines a license with its current domain bindings.
type licenseDetail struct {
	models.License
	Domains []models.DomainBinding `json:"domains"`
}

// Create issues a new license
// @Summary Issue a license
// @Description Creates a license for a customer under a plan; the key is generated when omitted
// @Tags admin - licenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateLicenseRequest true "License data"
// @Success 201 {object} models.APIResponse{data=models.License} "License issued"
// @Failure 400 {object} models.APIResponse "Malformed request"
// @Failure 409 {object} models.APIResponse "License key already exists"
// @Failure 500 {object} models.APIResponse "Server error"
// @Router /api/admin/licenses [post]
func (h *LicenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLicenseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.CustomerID == "" || req.PlanID == "" {
		writeError(w, http.StatusBadRequest, "customer_id and plan_id are required", nil)
		return
	}

	license, err := h.licenses.Create(r.Context(), req)
	switch err {
	case nil:
	case services.ErrPlanNotFound:
		writeError(w, http.StatusBadRequest, "Plan not found", nil)
		return
	case services.ErrInvalidLicenseKey:
		writeError(w, http.StatusBadRequest, "License key format is invalid", nil)
		return
	case services.ErrLicenseKeyTaken:
		writeError(w, http.StatusConflict, "License key already exists", nil)
		return
	default:
		logger.WithFields(map[string]interface{}{
			"request_id": middleware.RequestID(r.Context()),
			"error":      err.Error(),
		}).Error("Failed to create license")

		writeError(w, http.StatusInternalServerError, "Failed to create license", nil)
		return
	}

	h.admins.RecordActivity(r.Context(), middleware.AdminID(r.Context()), middleware.Username(r.Context()),
		models.AdminActionLicenseCreate, fmt.Sprintf("Issued license %s", license.ID))

	writeJSON(w, http.StatusCreated, models.SuccessResponse("License issued", license))
}

// List returns licenses with paging and optional filters
// @Summary List licenses
// @Tags admin - licenses
// @Produce json
// @Security BearerAuth
// @Param customer_id query string false "Filter by customer"
// @Param plan_id query string false "Filter by plan"
// @Param status query string false "Filter by status"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} models.PaginatedResponse "Licenses"
// @Failure 500 {object} models.APIResponse "Server error"
// @Router /api/admin/licenses [get]
func (h *LicenseHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	filter := services.LicenseFilter{
		CustomerID: q.Get("customer_id"),
		PlanID:     q.Get("plan_id"),
		Status:     q.Get("status"),
		Page:       page,
		PageSize:   pageSize,
	}

	licenses, total, err := h.licenses.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list licenses", nil)
		return
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 200 {
		filter.PageSize = 20
	}

	totalPages := int(total) / filter.PageSize
	if int(total)%filter.PageSize != 0 {
		totalPages++
	}

	writeJSON(w, http.StatusOK, models.PaginatedResponse{
		Status:  "success",
		Message: "Licenses retrieved",
		Data:    licenses,
		Meta: models.Pagination{
			Page:       filter.Page,
			PageSize:   filter.PageSize,
			TotalPages: totalPages,
			TotalCount: int(total),
		},
	})
}

// Get returns one license with its domain bindings
// @Summary Get a license
// @Tags admin - licenses
// @Produce json
// @Security BearerAuth
// @Param id path string true "License ID"
// @Success 200 {object} models.APIResponse "License detail"
// @Failure 404 {object} models.APIResponse "License not found"
// @Failure 500 {object} models.APIResponse "Server error"
// @Router /api/admin/licenses/{id} [get]
func (h *LicenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	license, err := h.licenses.GetByID(r.Context(), id)
	if err == services.ErrLicenseNotFound {
		writeError(w, http.StatusNotFound, "License not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load license", nil)
		return
	}

	domains, err := h.domains.ListFor(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load domains", nil)
		return
	}

	writeJSON(w, http.StatusOK, models.SuccessResponse("License retrieved", licenseDetail{
		License: *license,
		Domains: domains,
	}))
}

// Update mutates a license
// @Summary Update a license
// @Tags admin - licenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "License ID"
// @Param request body models.UpdateLicenseRequest true "Fields to update"
// @Success 200 {object} models.APIResponse{data=models.License} "License updated"
// @Failure 400 {object} models.APIResponse "Malformed request"
// @Failure 404 {object} models.APIResponse "License not found"
// @Failure 500 {object} models.APIResponse "Server error"
// @Router /api/admin/licenses/{id} [put]
func (h *LicenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req models.UpdateLicenseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	license, err := h.licenses.Update(r.Context(), id, req)
	switch err {
	case nil:
	case services.ErrLicenseNotFound:
		writeError(w, http.StatusNotFound, "License not found", nil)
		return
	case services.ErrPlanNotFound:
		writeError(w, http.StatusBadRequest, "Plan not found", nil)
		return
	default:
		writeError(w, http.StatusBadRequest, "Failed to update license", err)
		return
	}

	h.admins.RecordActivity(r.Context(), middleware.AdminID(r.Context()), middleware.Username(r.Context()),
		models.AdminActionLicenseUpdate, fmt.Sprintf("Updated license %s", id))

	writeJSON(w, http.StatusOK, models.SuccessResponse("License updated", license))
}

// Delete removes a license with its bindings and logs
// @Summary Delete a license
// @Tags admin - licenses
// @Produce json
// @Security BearerAuth
// @Param id path string true "License ID"
// @Success 200 {object} models.APIResponse "License deleted"
// @Failure 404 {object} models.APIResponse "License not found"
// @Failure 500 {object} models.APIResponse "Server error"
// @Router /api/admin/licenses/{id} [delete]
func (h *LicenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.licenses.Delete(r.Context(), id)
	if err == services.ErrLicenseNotFound {
		writeError(w, http.StatusNotFound, "License not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete license", nil)
		return
	}

	h.admins.RecordActivity(r.Context(), middleware.AdminID(r.Context()), middleware.Username(r.Context()),
		models.AdminActionLicenseDelete, fmt.Sprintf("Deleted license %s", id))

	writeJSON(w, http.StatusOK, models.SuccessResponse("License deleted", nil))
}
