package models

import "time"

// DomainBinding associates a license with a consuming deployment. Bindings
// are created automatically by the validation engine on first use, bounded by
// the plan's max_domains, and unique per (license, domain).
//
// Verified is informational: admins can flag a binding as verified for
// display, but the validation protocol does not require it.
type DomainBinding struct {
	ID        string    `json:"id" db:"id"`
	LicenseID string    `json:"license_id" db:"license_id"`
	Domain    string    `json:"domain" db:"domain"`
	Verified  bool      `json:"verified" db:"verified"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// UnbindDomainRequest releases a binding so the slot can be reused.
type UnbindDomainRequest struct {
	DomainID string `json:"domain_id" binding:"required"`
}

// VerifyDomainRequest toggles the informational verified flag.
type VerifyDomainRequest struct {
	DomainID string `json:"domain_id" binding:"required"`
	Verified bool   `json:"verified"`
}
