package handlers

import (
	"net/http"
	"strconv"

	"licenseserver/models"
	"licenseserver/services"
)

// CustomerHandler owns the admin customer CRUD endpoints.
type CustomerHandler struct {
	customers services.CustomerService
}

// NewCustomerHandler creates the handler for customer management.
func NewCustomerHandler(customers services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// Create registers a customer
// @Summary Create a customer
// @Tags admin - customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateCustomerRequest true "Customer data"
// @Success 201 {object} models.APIResponse{data=models.Customer} "Customer created"
// @Failure 400 {object} models.APIResponse "Malformed request"
// @Failure 409 {object} models.APIResponse "Email already registered"
// @Failure 500 {object} models.APIResponse "Server error"
// @Router /api/admin/customers [post]
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCustomerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Name == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "name and email are required", nil)
		return
	}

	customer, err := h.customers.Create(r.Context(), req)
	if err == services.ErrCustomerEmailTaken {
		writeError(w, http.StatusConflict, "Email already registered", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create customer", nil)
		return
	}

	writeJSON(w, http.StatusCreated, models.SuccessResponse("Customer created", customer))
}

// List returns customers with paging
// @Summary List customers
// @Tags admin - customers
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} models.PaginatedResponse "Customers"
// @Failure 500 {object} models.APIResponse "Server error"
// @Router /api/admin/customers [get]
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	customers, total, err := h.customers.List(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list customers", nil)
		return
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	writeJSON(w, http.StatusOK, models.PaginatedResponse{
		Status:  "success",
		Message: "Customers retrieved",
		Data:    customers,
		Meta: models.Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
			TotalCount: int(total),
		},
	})
}

// Get returns one customer
// @Summary Get a customer
// @Tags admin - customers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Success 200 {object} models.APIResponse{data=models.Customer} "Customer"
// @Failure 404 {object} models.APIResponse "Customer not found"
// @Router /api/admin/customers/{id} [get]
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customers.GetByID(r.Context(), r.PathValue("id"))
	if err == services.ErrCustomerNotFound {
		writeError(w, http.StatusNotFound, "Customer not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load customer", nil)
		return
	}

	writeJSON(w, http.StatusOK, models.SuccessResponse("Customer retrieved", customer))
}

// Update mutates a customer
// @Summary Update a customer
// @Tags admin - customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Param request body models.UpdateCustomerRequest true "Fields to update"
// @Success 200 {object} models.APIResponse{data=models.Customer} "Customer updated"
// @Failure 404 {object} models.APIResponse "Customer not found"
// @Failure 409 {object} models.APIResponse "Email already registered"
// @Router /api/admin/customers/{id} [put]
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCustomerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	customer, err := h.customers.Update(r.Context(), r.PathValue("id"), req)
	switch err {
	case nil:
	case services.ErrCustomerNotFound:
		writeError(w, http.StatusNotFound, "Customer not found", nil)
		return
	case services.ErrCustomerEmailTaken:
		writeError(w, http.StatusConflict, "Email already registered", nil)
		return
	default:
		writeError(w, http.StatusInternalServerError, "Failed to update customer", nil)
		return
	}

	writeJSON(w, http.StatusOK, models.SuccessResponse("Customer updated", customer))
}

// Delete removes a customer without licenses
// @Summary Delete a customer
// @Tags admin - customers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Success 200 {object} models.APIResponse "Customer deleted"
// @Failure 404 {object} models.APIResponse "Customer not found"
// @Failure 409 {object} models.APIResponse "Customer still has licenses"
// @Router /api/admin/customers/{id} [delete]
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.customers.Delete(r.Context(), r.PathValue("id"))
	switch err {
	case nil:
	case services.ErrCustomerNotFound:
		writeError(w, http.StatusNotFound, "Customer not found", nil)
		return
	case services.ErrCustomerHasLicenses:
		writeError(w, http.StatusConflict, "Customer still has licenses", nil)
		return
	default:
		writeError(w, http.StatusInternalServerError, "Failed to delete customer", nil)
		return
	}

	writeJSON(w, http.StatusOK, models.SuccessResponse("Customer deleted", nil))
}
