package models

import "time"

// License ties a customer to a plan through an opaque key and carries the
// state the validation engine mutates.
type License struct {
	ID              string     `json:"id" db:"id"`
	LicenseKey      string     `json:"license_key" db:"license_key"`
	CustomerID      string     `json:"customer_id" db:"customer_id"`
	PlanID          string     `json:"plan_id" db:"plan_id"`
	Status          string     `json:"status" db:"status"` // active, inactive, expired
	StartDate       time.Time  `json:"start_date" db:"start_date"`
	EndDate         *time.Time `json:"end_date" db:"end_date"` // nil = unlimited
	ValidationCount int64      `json:"validation_count" db:"validation_count"`
	LastValidation  *time.Time `json:"last_validation" db:"last_validation"`
	ExpiryNotified  bool       `json:"expiry_notified" db:"expiry_notified"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// LicenseStatus constants
const (
	LicenseStatusActive   = "active"
	LicenseStatusInactive = "inactive"
	LicenseStatusExpired  = "expired"
)

// CreateLicenseRequest issues a new license. Key and dates are optional; the
// key is generated when omitted and the end date is derived from the plan
// duration.
type CreateLicenseRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	PlanID     string `json:"plan_id" binding:"required"`
	LicenseKey string `json:"license_key"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Status     string `json:"status"`
}

// UpdateLicenseRequest mutates an issued license. Empty fields are left
// untouched.
type UpdateLicenseRequest struct {
	PlanID    string `json:"plan_id"`
	Status    string `json:"status"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// IsExpired reports whether the license end date has passed. Unlimited
// licenses never expire.
func (l *License) IsExpired() bool {
	if l.EndDate == nil {
		return false
	}
	return l.EndDate.Before(time.Now())
}

// IsActive reports whether the license can validate right now.
func (l *License) IsActive() bool {
	return l.Status == LicenseStatusActive && !l.IsExpired()
}
