package handlers

import (
	"net/http"

	"licenseserver/models"
	"licenseserver/services"
)

// ProductHandler owns the admin product catalog endpoints.
type ProductHandler struct {
	products services.ProductService
}

// NewProductHandler creates the handler for product management.
func NewProductHandler(products services.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// Create registers a product
// @Summary Create a product
// @Tags admin - products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateProductRequest true "Product data"
// @Success 201 {object} models.APIResponse{data=models.Product} "Product created"
// @Failure 400 {object} models.APIResponse "Malformed request or invalid slug"
// @Failure 409 {object} models.APIResponse "Slug already exists"
// @Router /api/admin/products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Name == "" || req.Slug == "" {
		writeError(w, http.StatusBadRequest, "name and slug are required", nil)
		return
	}

	product, err := h.products.Create(r.Context(), req)
	switch err {
	case nil:
	case services.ErrInvalidSlug:
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	case services.ErrProductSlugTaken:
		writeError(w, http.StatusConflict, "Product slug already exists", nil)
		return
	default:
		writeError(w, http.StatusInternalServerError, "Failed to create product", nil)
		return
	}

	writeJSON(w, http.StatusCreated, models.SuccessResponse("Product created", product))
}

// List returns every product
// @Summary List products
// @Tags admin - products
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse "Products"
// @Router /api/admin/products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list products", nil)
		return
	}

	writeJSON(w, http.StatusOK, models.SuccessResponse("Products retrieved", products))
}

// Get returns one product
// @Summary Get a product
// @Tags admin - products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} models.APIResponse{data=models.Product} "Product"
// @Failure 404 {object} models.APIResponse "Product not found"
// @Router /api/admin/products/{id} [get]
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetByID(r.Context(), r.PathValue("id"))
	if err == services.ErrProductNotFound {
		writeError(w, http.StatusNotFound, "Product not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load product", nil)
		return
	}

	writeJSON(w, http.StatusOK, models.SuccessResponse("Product retrieved", product))
}

// Update mutates a product
// @Summary Update a product
// @Tags admin - products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body models.UpdateProductRequest true "Fields to update"
// @Success 200 {object} models.APIResponse{data=models.Product} "Product updated"
// @Failure 404 {object} models.APIResponse "Product not found"
// @Failure 409 {object} models.APIResponse "Slug already exists"
// @Router /api/admin/products/{id} [put]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProductRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product, err := h.products.Update(r.Context(), r.PathValue("id"), req)
	switch err {
	case nil:
	case services.ErrProductNotFound:
		writeError(w, http.StatusNotFound, "Product not found", nil)
		return
	case services.ErrInvalidSlug:
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	case services.ErrProductSlugTaken:
		writeError(w, http.StatusConflict, "Product slug already exists", nil)
		return
	default:
		writeError(w, http.StatusInternalServerError, "Failed to update product", nil)
		return
	}

	writeJSON(w, http.StatusOK, models.SuccessResponse("Product updated", product))
}

// Delete removes a product without plans
// @Summary Delete a product
// @Tags admin - products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} models.APIResponse "Product deleted"
// @Failure 404 {object} models.APIResponse "Product not found"
// @Failure 409 {object} models.APIResponse "Product still has plans"
// @Router /api/admin/products/{id} [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.products.Delete(r.Context(), r.PathValue("id"))
	switch err {
	case nil:
	case services.ErrProductNotFound:
		writeError(w, http.StatusNotFound, "Product not found", nil)
		return
	case services.ErrProductHasPlans:
		writeError(w, http.StatusConflict, "Product still has plans", nil)
		return
	default:
		writeError(w, http.StatusInternalServerError, "Failed to delete product", nil)
		return
	}

	writeJSON(w, http.StatusOK, models.SuccessResponse("Product deleted", nil))
}
