package services

import (
	"context"
	"testing"
	"time"

	"licenseserver/models"
	"licenseserver/signing"
	"licenseserver/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidationService(t *testing.T, db SQLExecutor) (ValidationService, *signing.Signer) {
	t.Helper()

	signer, err := signing.New([]string{"test-signing-secret"})
	require.NoError(t, err)

	domains := NewDomainService(db)
	audit := NewAuditService(db)
	return NewValidationService(db, domains, audit, signer, nil), signer
}

func validate(t *testing.T, svc ValidationService, key, domain, slug string) ValidationResult {
	t.Helper()

	result, err := svc.Validate(context.Background(), models.ValidateRequest{
		LicenseKey:  key,
		Domain:      domain,
		ProductSlug: slug,
	}, "203.0.113.7", "test-agent")
	require.NoError(t, err)
	return result
}

func TestValidateUnknownKey(t *testing.T) {
	db := newTestDB(t)
	seedLicense(t, db, defaultFixtureOptions())
	svc, _ := newValidationService(t, db)

	result := validate(t, svc, "ZZZZ-ZZZZ-ZZZZ-ZZZZ", "example.com", "studio-app")

	assert.False(t, result.Valid)
	assert.Equal(t, models.ValidationReasonNotFound, result.Reason)
	assert.Nil(t, result.Response)

	// The log entry carries no license reference.
	assert.Equal(t, 1, countRows(t, db, "SELECT COUNT(*) FROM validation_logs"))
	assert.Equal(t, 1, countRows(t, db,
		"SELECT COUNT(*) FROM validation_logs WHERE license_id IS NULL AND reason = ?",
		models.ValidationReasonNotFound))
}

func TestValidateInactiveLicenseLooksUnknown(t *testing.T) {
	db := newTestDB(t)
	opts := defaultFixtureOptions()
	opts.Status = "inactive"
	f := seedLicense(t, db, opts)
	svc, _ := newValidationService(t, db)

	result := validate(t, svc, f.LicenseKey, "example.com", "studio-app")

	assert.False(t, result.Valid)
	assert.Equal(t, models.ValidationReasonNotFound, result.Reason)
}

func TestValidateProductMismatch(t *testing.T) {
	db := newTestDB(t)
	f := seedLicense(t, db, defaultFixtureOptions())
	svc, _ := newValidationService(t, db)

	result := validate(t, svc, f.LicenseKey, "example.com", "other-product")

	assert.False(t, result.Valid)
	assert.Equal(t, models.ValidationReasonProductMismatch, result.Reason)

	assert.Equal(t, 1, countRows(t, db,
		"SELECT COUNT(*) FROM validation_logs WHERE license_id = ? AND reason = ?",
		f.LicenseID, models.ValidationReasonProductMismatch))

	// A mismatch must not consume a domain slot.
	assert.Equal(t, 0, countRows(t, db, "SELECT COUNT(*) FROM license_domains"))
}

func TestValidateExpiredLicenseFlipsStatus(t *testing.T) {
	db := newTestDB(t)
	opts := defaultFixtureOptions()
	past := utils.NowUTC().Add(-24 * time.Hour)
	opts.EndDate = &past
	f := seedLicense(t, db, opts)
	svc, _ := newValidationService(t, db)

	result := validate(t, svc, f.LicenseKey, "example.com", "studio-app")

	assert.False(t, result.Valid)
	assert.Equal(t, models.ValidationReasonExpired, result.Reason)

	assert.Equal(t, 1, countRows(t, db,
		"SELECT COUNT(*) FROM licenses WHERE id = ? AND status = 'expired'", f.LicenseID))

	// The flipped status takes the license out of the active lookup, so the
	// next attempt reads as unknown.
	again := validate(t, svc, f.LicenseKey, "example.com", "studio-app")
	assert.Equal(t, models.ValidationReasonNotFound, again.Reason)
}

func TestValidateBindsDomainAndSigns(t *testing.T) {
	db := newTestDB(t)
	f := seedLicense(t, db, defaultFixtureOptions())
	svc, signer := newValidationService(t, db)

	result := validate(t, svc, f.LicenseKey, "example.com", "studio-app")

	require.True(t, result.Valid)
	assert.Equal(t, models.ValidationReasonValid, result.Reason)
	require.NotNil(t, result.Response)

	assert.Equal(t, f.LicenseKey, result.Response.LicenseKey)
	assert.Equal(t, []string{"export", "priority-support"}, result.Response.Features)
	require.NotNil(t, result.Response.ExpiresAt)
	assert.NotEmpty(t, result.Response.Signature)
	assert.True(t, signer.VerifyEntitlement(*result.Response))

	assert.Equal(t, 1, countRows(t, db,
		"SELECT COUNT(*) FROM license_domains WHERE license_id = ? AND domain = 'example.com'", f.LicenseID))
	assert.Equal(t, 1, countRows(t, db,
		"SELECT COUNT(*) FROM licenses WHERE id = ? AND validation_count = 1 AND last_validation IS NOT NULL", f.LicenseID))
}

func TestValidateDomainCap(t *testing.T) {
	db := newTestDB(t)
	f := seedLicense(t, db, defaultFixtureOptions()) // max_domains = 1
	svc, _ := newValidationService(t, db)

	first := validate(t, svc, f.LicenseKey, "a.example.com", "studio-app")
	require.True(t, first.Valid)

	second := validate(t, svc, f.LicenseKey, "b.example.com", "studio-app")
	assert.False(t, second.Valid)
	assert.Equal(t, models.ValidationReasonDomainCap, second.Reason)

	// The bound domain keeps validating.
	again := validate(t, svc, f.LicenseKey, "a.example.com", "studio-app")
	assert.True(t, again.Valid)

	assert.Equal(t, 1, countRows(t, db, "SELECT COUNT(*) FROM license_domains"))
	assert.Equal(t, 2, countRows(t, db,
		"SELECT COUNT(*) FROM licenses WHERE id = ? AND validation_count = 2", f.LicenseID))
}

func TestValidateWritesExactlyOneLogPerCall(t *testing.T) {
	db := newTestDB(t)
	f := seedLicense(t, db, defaultFixtureOptions())
	svc, _ := newValidationService(t, db)

	validate(t, svc, "ZZZZ-ZZZZ-ZZZZ-ZZZZ", "x.com", "studio-app") // not found
	validate(t, svc, f.LicenseKey, "x.com", "wrong-slug")          // mismatch
	validate(t, svc, f.LicenseKey, "x.com", "studio-app")          // valid
	validate(t, svc, f.LicenseKey, "y.com", "studio-app")          // cap exceeded

	assert.Equal(t, 4, countRows(t, db, "SELECT COUNT(*) FROM validation_logs"))
	assert.Equal(t, 1, countRows(t, db, "SELECT COUNT(*) FROM validation_logs WHERE is_valid = 1"))
}

func TestValidateUnlimitedLicenseHasNoExpiry(t *testing.T) {
	db := newTestDB(t)
	opts := defaultFixtureOptions()
	opts.EndDate = nil
	f := seedLicense(t, db, opts)
	svc, _ := newValidationService(t, db)

	result := validate(t, svc, f.LicenseKey, "example.com", "studio-app")

	require.True(t, result.Valid)
	assert.Nil(t, result.Response.ExpiresAt)
}
