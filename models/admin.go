package models

import "time"

// Admin is a back-office account.
type Admin struct {
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Password  string    `json:"-" db:"password"` // bcrypt hash, never serialized
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// LoginRequest authenticates an admin.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued JWT.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	Admin     *Admin `json:"admin"`
}

// ChangePasswordRequest rotates an admin password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// AdminActivityEntry records back-office mutations for display.
type AdminActivityEntry struct {
	ID        int64     `json:"id" db:"id"`
	AdminID   string    `json:"admin_id" db:"admin_id"`
	Username  string    `json:"username" db:"username"`
	Action    string    `json:"action" db:"action"`
	Details   string    `json:"details" db:"details"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Admin activity action constants
const (
	AdminActionLogin          = "login"
	AdminActionLicenseCreate  = "license_create"
	AdminActionLicenseUpdate  = "license_update"
	AdminActionLicenseDelete  = "license_delete"
	AdminActionDomainUnbind   = "domain_unbind"
	AdminActionDomainVerify   = "domain_verify"
	AdminActionExpirySweep    = "expiry_sweep"
	AdminActionLogCleanup     = "log_cleanup"
	AdminActionPasswordChange = "password_change"
)
