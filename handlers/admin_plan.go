package handlers

import (
	"net/http"

	"licenseserver/models"
	"licenseserver/services"
)

// PlanHandler owns the admin plan endpoints.
type PlanHandler struct {
	plans services.PlanService
}

// NewPlanHandler creates the handler for plan management.
func NewPlanHandler(plans services.PlanService) *PlanHandler {
	return &PlanHandler{plans: plans}
}

// Create registers a plan under a product
// @Summary Create a plan
// @Tags admin - plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreatePlanRequest true "Plan data"
// @Success 201 {object} models.APIResponse{data=models.Plan} "Plan created"
// @Failure 400 {object} models.APIResponse "Malformed request"
// @Failure 404 {object} models.APIResponse "Product not found"
// @Router /api/admin/plans [post]
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePlanRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.ProductID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "product_id and name are required", nil)
		return
	}

	plan, err := h.plans.Create(r.Context(), req)
	if err == services.ErrProductNotFound {
		writeError(w, http.StatusNotFound, "Product not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to create plan", err)
		return
	}

	writeJSON(w, http.StatusCreated, models.SuccessResponse("Plan created", plan))
}

// List returns plans, optionally filtered by product
// @Summary List plans
// @Tags admin - plans
// @Produce json
// @Security BearerAuth
// @Param product_id query string false "Filter by product"
// @Success 200 {object} models.APIResponse "Plans"
// @Router /api/admin/plans [get]
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	plans, err := h.plans.ListByProduct(r.Context(), r.URL.Query().Get("product_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list plans", nil)
		return
	}

	writeJSON(w, http.StatusOK, models.SuccessResponse("Plans retrieved", plans))
}

// Get returns one plan
// @Summary Get a plan
// @Tags admin - plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} models.APIResponse{data=models.Plan} "Plan"
// @Failure 404 {object} models.APIResponse "Plan not found"
// @Router /api/admin/plans/{id} [get]
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	plan, err := h.plans.GetByID(r.Context(), r.PathValue("id"))
	if err == services.ErrPlanNotFound {
		writeError(w, http.StatusNotFound, "Plan not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load plan", nil)
		return
	}

	writeJSON(w, http.StatusOK, models.SuccessResponse("Plan retrieved", plan))
}

// Update mutates a plan
// @Summary Update a plan
// @Description Updates plan fields; lowering max_domains does not evict existing bindings
// @Tags admin - plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Param request body models.UpdatePlanRequest true "Fields to update"
// @Success 200 {object} models.APIResponse{data=models.Plan} "Plan updated"
// @Failure 404 {object} models.APIResponse "Plan not found"
// @Router /api/admin/plans/{id} [put]
func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePlanRequest
	if !decodeBody(w, r, &req) {
		return
	}

	plan, err := h.plans.Update(r.Context(), r.PathValue("id"), req)
	if err == services.ErrPlanNotFound {
		writeError(w, http.StatusNotFound, "Plan not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to update plan", err)
		return
	}

	writeJSON(w, http.StatusOK, models.SuccessResponse("Plan updated", plan))
}

// Delete removes a plan without licenses
// @Summary Delete a plan
// @Tags admin - plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} models.APIResponse "Plan deleted"
// @Failure 404 {object} models.APIResponse "Plan not found"
// @Failure 409 {object} models.APIResponse "Plan still has licenses"
// @Router /api/admin/plans/{id} [delete]
func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.plans.Delete(r.Context(), r.PathValue("id"))
	switch err {
	case nil:
	case services.ErrPlanNotFound:
		writeError(w, http.StatusNotFound, "Plan not found", nil)
		return
	case services.ErrPlanHasLicenses:
		writeError(w, http.StatusConflict, "Plan still has licenses", nil)
		return
	default:
		writeError(w, http.StatusInternalServerError, "Failed to delete plan", nil)
		return
	}

	writeJSON(w, http.StatusOK, models.SuccessResponse("Plan deleted", nil))
}
