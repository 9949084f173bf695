package handlers

import (
	"net/http"

	"licenseserver/logger"
	"licenseserver/middleware"
	"licenseserver/models"
	"licenseserver/services"
	"licenseserver/utils"
)

// AuthHandler owns admin authentication endpoints.
type AuthHandler struct {
	admins services.AdminService
}

// NewAuthHandler creates the handler for admin authentication.
func NewAuthHandler(admins services.AdminService) *AuthHandler {
	return &AuthHandler{admins: admins}
}

// Login authenticates an admin and issues a JWT
// @Summary Admin login
// @Description Authenticates an admin account and returns a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.APIResponse{data=models.LoginResponse} "Login successful"
// @Failure 400 {object} models.APIResponse "Malformed request"
// @Failure 401 {object} models.APIResponse "Invalid credentials"
// @Failure 500 {object} models.APIResponse "Server error"
// @Router /api/admin/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.RequestID(r.Context())

	var req models.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required", nil)
		return
	}

	admin, err := h.admins.Authenticate(r.Context(), req.Username, req.Password)
	if err == services.ErrInvalidCredentials {
		logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"username":   req.Username,
			"ip":         middleware.GetClientIP(r),
		}).Warn("Login failed")

		writeError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Login failed", nil)
		return
	}

	token, expiresAt, err := utils.GenerateToken(admin.ID, admin.Username)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"admin_id":   admin.ID,
			"error":      err.Error(),
		}).Error("Failed to generate JWT token")

		writeError(w, http.StatusInternalServerError, "Failed to generate token", nil)
		return
	}

	logger.WithFields(map[string]interface{}{
		"request_id": requestID,
		"admin_id":   admin.ID,
		"username":   admin.Username,
	}).Info("Login successful")

	h.admins.RecordActivity(r.Context(), admin.ID, admin.Username, models.AdminActionLogin, "Login successful")

	writeJSON(w, http.StatusOK, models.SuccessResponse("Login successful", models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Admin:     admin,
	}))
}

// ChangePassword rotates the authenticated admin's password
// @Summary Change admin password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ChangePasswordRequest true "Password change"
// @Success 200 {object} models.APIResponse "Password changed"
// @Failure 400 {object} models.APIResponse "Malformed request"
// @Failure 401 {object} models.APIResponse "Wrong current password"
// @Failure 500 {object} models.APIResponse "Server error"
// @Router /api/admin/password [put]
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.AdminID(r.Context())
	username := middleware.Username(r.Context())

	var req models.ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "current and new passwords are required", nil)
		return
	}
	if len(req.NewPassword) < 8 {
		writeError(w, http.StatusBadRequest, "new password must be at least 8 characters", nil)
		return
	}

	err := h.admins.ChangePassword(r.Context(), adminID, req.CurrentPassword, req.NewPassword)
	if err == services.ErrInvalidCredentials {
		writeError(w, http.StatusUnauthorized, "Current password is incorrect", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to change password", nil)
		return
	}

	h.admins.RecordActivity(r.Context(), adminID, username, models.AdminActionPasswordChange, "Password changed")

	writeJSON(w, http.StatusOK, models.SuccessResponse("Password changed", nil))
}
