package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"licenseserver/cache"
	"licenseserver/logger"
	"licenseserver/models"
	"licenseserver/signing"
	"licenseserver/utils"
)

// Client-facing messages for the invalid outcomes. The machine-readable
// reason codes live in models; these strings are what ends up in the JSON
// response body.
const (
	msgNotFound        = "Invalid license key"
	msgProductMismatch = "License not valid for this product"
	msgExpired         = "License has expired"
	msgDomainCap       = "Maximum number of domains reached"
	msgValid           = "License is valid"
)

// ValidationResult is the tagged outcome of a validation attempt. Expected
// domain conditions (not found, mismatch, expired, cap exceeded) are carried
// here, never as errors; the engine returns an error only for infrastructure
// faults.
type ValidationResult struct {
	Valid    bool
	Reason   string
	Message  string
	Response *models.EntitlementResponse
}

// ValidationService is the protocol core: it decides validity, performs the
// side effects (expiry transition, auto-binding, usage counters) and produces
// the signed entitlement response.
type ValidationService interface {
	Validate(ctx context.Context, req models.ValidateRequest, ipAddress, clientID string) (ValidationResult, error)
}

type validationService struct {
	db      SQLExecutor
	domains DomainService
	audit   AuditService
	signer  *signing.Signer
	store   cache.Store
	now     func() time.Time
}

// NewValidationService wires the engine to its collaborators.
func NewValidationService(db SQLExecutor, domains DomainService, audit AuditService, signer *signing.Signer, store cache.Store) ValidationService {
	return &validationService{
		db:      db,
		domains: domains,
		audit:   audit,
		signer:  signer,
		store:   store,
		now:     time.Now,
	}
}

// licenseRow is the joined license/plan/product snapshot the state machine
// evaluates.
type licenseRow struct {
	ID          string
	LicenseKey  string
	EndDate     *time.Time
	MaxDomains  int
	Features    []string
	ProductSlug string
}

// Validate runs the fixed-order state machine. Every path, valid or not,
// appends exactly one audit log entry before returning.
func (s *validationService) Validate(ctx context.Context, req models.ValidateRequest, ipAddress, clientID string) (ValidationResult, error) {
	// Step 1: look up the license by key with status = active. Inactive and
	// already-expired licenses fall through to "not found" on purpose: the
	// client learns nothing about keys it cannot use.
	license, err := s.lookupActiveLicense(ctx, req.LicenseKey)
	if err != nil {
		return ValidationResult{}, err
	}

	if license == nil {
		result := ValidationResult{Reason: models.ValidationReasonNotFound, Message: msgNotFound}
		if err := s.log(ctx, nil, req, ipAddress, clientID, result); err != nil {
			return ValidationResult{}, err
		}
		return result, nil
	}

	// Step 2: the license must belong to the requested product.
	if license.ProductSlug != req.ProductSlug {
		result := ValidationResult{Reason: models.ValidationReasonProductMismatch, Message: msgProductMismatch}
		if err := s.log(ctx, &license.ID, req, ipAddress, clientID, result); err != nil {
			return ValidationResult{}, err
		}
		return result, nil
	}

	// Step 3: a past end date expires the license right here. The stored
	// status is converged opportunistically; the cron sweep is a backstop,
	// not a prerequisite.
	if license.EndDate != nil && license.EndDate.Before(s.now()) {
		if err := s.markExpired(ctx, license.ID); err != nil {
			return ValidationResult{}, err
		}

		result := ValidationResult{Reason: models.ValidationReasonExpired, Message: msgExpired}
		if err := s.log(ctx, &license.ID, req, ipAddress, clientID, result); err != nil {
			return ValidationResult{}, err
		}
		return result, nil
	}

	// Step 4: self-service activation. A domain not yet bound is bound
	// automatically unless the plan's cap is already reached.
	bound, err := s.domains.IsBound(ctx, license.ID, req.Domain)
	if err != nil {
		return ValidationResult{}, err
	}

	if !bound {
		err := s.domains.Bind(ctx, license.ID, req.Domain, license.MaxDomains)
		if err == ErrDomainCapExceeded {
			result := ValidationResult{Reason: models.ValidationReasonDomainCap, Message: msgDomainCap}
			if logErr := s.log(ctx, &license.ID, req, ipAddress, clientID, result); logErr != nil {
				return ValidationResult{}, logErr
			}
			return result, nil
		}
		if err != nil {
			return ValidationResult{}, err
		}

		logger.WithFields(map[string]interface{}{
			"license_key": license.LicenseKey,
			"domain":      req.Domain,
		}).Info("Domain auto-bound to license")
	}

	// Step 5: all checks passed. Record usage and build the signed response.
	if err := s.recordSuccessfulValidation(ctx, license.ID); err != nil {
		return ValidationResult{}, err
	}

	response, err := s.buildEntitlement(license)
	if err != nil {
		return ValidationResult{}, err
	}

	result := ValidationResult{
		Valid:    true,
		Reason:   models.ValidationReasonValid,
		Message:  msgValid,
		Response: response,
	}
	if err := s.log(ctx, &license.ID, req, ipAddress, clientID, result); err != nil {
		return ValidationResult{}, err
	}

	return result, nil
}

func (s *validationService) lookupActiveLicense(ctx context.Context, key string) (*licenseRow, error) {
	var (
		row      licenseRow
		endDate  sql.NullString
		features string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT l.id, l.license_key, l.end_date, lp.max_domains, lp.features, p.slug
		FROM licenses l
		JOIN license_plans lp ON l.plan_id = lp.id
		JOIN products p ON lp.product_id = p.id
		WHERE l.license_key = ? AND l.status = ?`,
		key, models.LicenseStatusActive,
	).Scan(&row.ID, &row.LicenseKey, &endDate, &row.MaxDomains, &features, &row.ProductSlug)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query license: %w", err)
	}

	if endDate.Valid && endDate.String != "" {
		ts, err := utils.ParseDBDate(endDate.String)
		if err != nil {
			return nil, fmt.Errorf("corrupt end date on license %s: %w", row.ID, err)
		}
		row.EndDate = &ts
	}

	if err := json.Unmarshal([]byte(features), &row.Features); err != nil {
		logger.WithFields(map[string]interface{}{
			"license_id": row.ID,
			"error":      err.Error(),
		}).Warn("Failed to parse plan features, treating as empty")
		row.Features = nil
	}

	return &row, nil
}

func (s *validationService) markExpired(ctx context.Context, licenseID string) error {
	now := utils.FormatDateTimeForDB(s.now().UTC())
	_, err := s.db.ExecContext(ctx,
		"UPDATE licenses SET status = ?, updated_at = ? WHERE id = ?",
		models.LicenseStatusExpired, now, licenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to expire license: %w", err)
	}

	// The status flip changes what memoized dashboard reads would show.
	if s.store != nil {
		s.store.Delete(DashboardStatsCacheKey)
	}

	logger.WithFields(map[string]interface{}{
		"license_id": licenseID,
	}).Info("License marked expired during validation")

	return nil
}

func (s *validationService) recordSuccessfulValidation(ctx context.Context, licenseID string) error {
	now := utils.FormatDateTimeForDB(s.now().UTC())
	_, err := s.db.ExecContext(ctx, `
		UPDATE licenses
		SET validation_count = validation_count + 1, last_validation = ?
		WHERE id = ?`,
		now, licenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to update validation counters: %w", err)
	}
	return nil
}

func (s *validationService) buildEntitlement(license *licenseRow) (*models.EntitlementResponse, error) {
	var expiresAt *string
	if license.EndDate != nil {
		formatted := utils.FormatDateTimeForDB(*license.EndDate)
		expiresAt = &formatted
	}

	features := license.Features
	if features == nil {
		features = []string{}
	}

	response := &models.EntitlementResponse{
		Valid:      true,
		LicenseKey: license.LicenseKey,
		ExpiresAt:  expiresAt,
		Features:   features,
	}

	if err := s.signer.SignEntitlement(response); err != nil {
		return nil, fmt.Errorf("failed to sign entitlement: %w", err)
	}

	return response, nil
}

func (s *validationService) log(ctx context.Context, licenseID *string, req models.ValidateRequest, ipAddress, clientID string, result ValidationResult) error {
	return s.audit.Record(ctx, models.ValidationLogEntry{
		LicenseID: licenseID,
		Domain:    req.Domain,
		IPAddress: ipAddress,
		ClientID:  clientID,
		IsValid:   result.Valid,
		Reason:    result.Reason,
	})
}
