package models

import "time"

// Validation outcome reason codes. The reason is recorded verbatim in the
// audit log and drives the client-facing message.
const (
	ValidationReasonValid           = "valid"
	ValidationReasonNotFound        = "not_found"
	ValidationReasonProductMismatch = "product_mismatch"
	ValidationReasonExpired         = "expired"
	ValidationReasonDomainCap       = "domain_cap_exceeded"
)

// ValidationLogEntry is the immutable audit record written exactly once per
// validation attempt. LicenseID is nil when no license matched the key; a
// magic sentinel ID is deliberately not used.
type ValidationLogEntry struct {
	ID        int64     `json:"id" db:"id"`
	LicenseID *string   `json:"license_id" db:"license_id"`
	Domain    string    `json:"domain" db:"domain"`
	IPAddress string    `json:"ip_address" db:"ip_address"`
	ClientID  string    `json:"client_id" db:"client_id"` // user agent or SDK identifier
	IsValid   bool      `json:"is_valid" db:"is_valid"`
	Reason    string    `json:"reason" db:"reason"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ValidationLogFilter narrows audit log listings in the admin API.
type ValidationLogFilter struct {
	LicenseID string
	Domain    string
	OnlyValid *bool
	Limit     int
	Offset    int
}
