package models

// EntitlementResponse is the signed payload returned on a successful
// validation. It is a value object, never persisted server-side; clients cache
// it and verify the signature offline.
//
// The signature covers the canonical serialization of every field except
// Signature itself, so it must be computed before being attached.
type EntitlementResponse struct {
	Valid      bool     `json:"valid"`
	LicenseKey string   `json:"license_key"`
	ExpiresAt  *string  `json:"expires_at"` // nil = unlimited license
	Features   []string `json:"features"`
	Signature  string   `json:"signature,omitempty"`
}

// ValidateRequest is the body of the public validation endpoint. All three
// fields are required.
type ValidateRequest struct {
	LicenseKey  string `json:"license_key" binding:"required"`
	Domain      string `json:"domain" binding:"required"`
	ProductSlug string `json:"product_slug" binding:"required"`
}

// ValidateFailure is the body returned for every invalid outcome.
type ValidateFailure struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}
