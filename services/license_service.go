package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"licenseserver/cache"
	"licenseserver/logger"
	"licenseserver/models"
	"licenseserver/utils"
)

var (
	// ErrLicenseNotFound is returned for lookups of unknown license ids.
	ErrLicenseNotFound = errors.New("license not found")
	// ErrLicenseKeyTaken is returned when a caller-supplied key already exists.
	ErrLicenseKeyTaken = errors.New("license key already exists")
	// ErrInvalidLicenseKey is returned when a caller-supplied key does not
	// match the XXXX-XXXX-XXXX-XXXX format.
	ErrInvalidLicenseKey = errors.New("license key format is invalid")
	// ErrPlanNotFound is returned when the referenced plan does not exist.
	ErrPlanNotFound = errors.New("plan not found")
)

// maxKeyAttempts bounds the generate-and-insert retry loop. With a 36^16 key
// space collisions are theoretical, but the loop must still terminate.
const maxKeyAttempts = 10

// LicenseFilter narrows List queries.
type LicenseFilter struct {
	CustomerID string
	PlanID     string
	Status     string
	Page       int
	PageSize   int
}

// LicenseService owns the issuance lifecycle: create with a unique generated
// key, read, update, and cascading delete.
type LicenseService interface {
	Create(ctx context.Context, req models.CreateLicenseRequest) (*models.License, error)
	GetByID(ctx context.Context, id string) (*models.License, error)
	GetByKey(ctx context.Context, key string) (*models.License, error)
	List(ctx context.Context, filter LicenseFilter) ([]models.License, int64, error)
	Update(ctx context.Context, id string, req models.UpdateLicenseRequest) (*models.License, error)
	// Delete removes the license together with its domain bindings and
	// validation logs in one transaction.
	Delete(ctx context.Context, id string) error

	// FindExpiringSoon returns active licenses whose end date falls within
	// the horizon and which have not been notified yet.
	FindExpiringSoon(ctx context.Context, within time.Duration) ([]models.License, error)
	MarkExpiryNotified(ctx context.Context, id string) error
	// ExpireOverdue flips every active license with a past end date to
	// expired and returns how many were flipped.
	ExpireOverdue(ctx context.Context) (int64, error)
}

type licenseService struct {
	db    SQLExecutor
	store cache.Store
}

// NewLicenseService creates the LicenseService implementation.
func NewLicenseService(db SQLExecutor, store cache.Store) LicenseService {
	return &licenseService{db: db, store: store}
}

func (s *licenseService) Create(ctx context.Context, req models.CreateLicenseRequest) (*models.License, error) {
	plan, err := s.loadPlan(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	now := utils.NowUTC()

	startDate := now
	if req.StartDate != "" {
		startDate, err = utils.ParseUserDate(req.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start date: %w", err)
		}
	}

	var endDate *time.Time
	switch {
	case req.EndDate != "":
		parsed, err := utils.ParseUserDate(req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end date: %w", err)
		}
		endDate = &parsed
	case plan.DurationDays > 0:
		derived := startDate.Add(time.Duration(plan.DurationDays) * 24 * time.Hour)
		endDate = &derived
	}

	status := req.Status
	if status == "" {
		status = models.LicenseStatusActive
	}
	if status != models.LicenseStatusActive && status != models.LicenseStatusInactive {
		return nil, fmt.Errorf("invalid license status: %s", status)
	}

	id, err := utils.GenerateID("lic")
	if err != nil {
		return nil, err
	}

	license := &models.License{
		ID:         id,
		CustomerID: req.CustomerID,
		PlanID:     req.PlanID,
		Status:     status,
		StartDate:  startDate,
		EndDate:    endDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if req.LicenseKey != "" {
		if !utils.IsValidLicenseKeyFormat(req.LicenseKey) {
			return nil, ErrInvalidLicenseKey
		}
		license.LicenseKey = strings.ToUpper(req.LicenseKey)
		if err := s.insert(ctx, license); err != nil {
			if isDuplicateKeyError(err) {
				return nil, ErrLicenseKeyTaken
			}
			return nil, err
		}
	} else if err := s.insertWithGeneratedKey(ctx, license); err != nil {
		return nil, err
	}

	s.invalidateDashboard()

	logger.WithFields(map[string]interface{}{
		"license_id":  license.ID,
		"customer_id": license.CustomerID,
		"plan_id":     license.PlanID,
	}).Info("License issued")

	return license, nil
}

// insertWithGeneratedKey retries key generation when the unique index rejects
// a collision. Uniqueness lives in the database, not in a pre-check.
func (s *licenseService) insertWithGeneratedKey(ctx context.Context, license *models.License) error {
	for attempt := 0; attempt < maxKeyAttempts; attempt++ {
		key, err := utils.GenerateLicenseKey()
		if err != nil {
			return err
		}

		license.LicenseKey = key
		err = s.insert(ctx, license)
		if err == nil {
			return nil
		}
		if !isDuplicateKeyError(err) {
			return err
		}
	}

	return fmt.Errorf("failed to generate a unique license key after %d attempts", maxKeyAttempts)
}

func (s *licenseService) insert(ctx context.Context, license *models.License) error {
	var endDate any
	if license.EndDate != nil {
		endDate = utils.FormatDateTimeForDB(*license.EndDate)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO licenses (id, license_key, customer_id, plan_id, status, start_date, end_date,
			validation_count, expiry_notified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?)`,
		license.ID, license.LicenseKey, license.CustomerID, license.PlanID, license.Status,
		utils.FormatDateTimeForDB(license.StartDate), endDate,
		utils.FormatDateTimeForDB(license.CreatedAt), utils.FormatDateTimeForDB(license.UpdatedAt),
	)
	if err != nil {
		// Duplicate-key detection matches on the wrapped message, so callers
		// can keep probing with isDuplicateKeyError.
		return fmt.Errorf("failed to insert license: %w", err)
	}
	return nil
}

const licenseColumns = `id, license_key, customer_id, plan_id, status, start_date, end_date,
	validation_count, last_validation, expiry_notified, created_at, updated_at`

func (s *licenseService) GetByID(ctx context.Context, id string) (*models.License, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+licenseColumns+" FROM licenses WHERE id = ?", id)
	return scanLicense(row)
}

func (s *licenseService) GetByKey(ctx context.Context, key string) (*models.License, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+licenseColumns+" FROM licenses WHERE license_key = ?", key)
	return scanLicense(row)
}

func (s *licenseService) List(ctx context.Context, filter LicenseFilter) ([]models.License, int64, error) {
	where := " WHERE 1=1"
	args := make([]any, 0)

	if filter.CustomerID != "" {
		where += " AND customer_id = ?"
		args = append(args, filter.CustomerID)
	}
	if filter.PlanID != "" {
		where += " AND plan_id = ?"
		args = append(args, filter.PlanID)
	}
	if filter.Status != "" {
		where += " AND status = ?"
		args = append(args, filter.Status)
	}

	var total int64
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM licenses"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count licenses: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}

	query := "SELECT " + licenseColumns + " FROM licenses" + where +
		" ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	licenses := make([]models.License, 0)
	for rows.Next() {
		license, err := scanLicenseRows(rows)
		if err != nil {
			return nil, 0, err
		}
		licenses = append(licenses, *license)
	}

	return licenses, total, rows.Err()
}

func (s *licenseService) Update(ctx context.Context, id string, req models.UpdateLicenseRequest) (*models.License, error) {
	license, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.PlanID != "" {
		if _, err := s.loadPlan(ctx, req.PlanID); err != nil {
			return nil, err
		}
		license.PlanID = req.PlanID
	}

	if req.Status != "" {
		switch req.Status {
		case models.LicenseStatusActive, models.LicenseStatusInactive, models.LicenseStatusExpired:
			license.Status = req.Status
		default:
			return nil, fmt.Errorf("invalid license status: %s", req.Status)
		}
	}

	if req.StartDate != "" {
		ts, err := utils.ParseUserDate(req.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start date: %w", err)
		}
		license.StartDate = ts
	}

	if req.EndDate != "" {
		ts, err := utils.ParseUserDate(req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end date: %w", err)
		}
		license.EndDate = &ts
		// A pushed-out end date means a renewed license may notify again.
		license.ExpiryNotified = false
	}

	license.UpdatedAt = utils.NowUTC()

	var endDate any
	if license.EndDate != nil {
		endDate = utils.FormatDateTimeForDB(*license.EndDate)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE licenses
		SET plan_id = ?, status = ?, start_date = ?, end_date = ?, expiry_notified = ?, updated_at = ?
		WHERE id = ?`,
		license.PlanID, license.Status, utils.FormatDateTimeForDB(license.StartDate), endDate,
		boolToInt(license.ExpiryNotified), utils.FormatDateTimeForDB(license.UpdatedAt), id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update license: %w", err)
	}

	s.invalidateDashboard()

	return license, nil
}

func (s *licenseService) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM license_domains WHERE license_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete domain bindings: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM validation_logs WHERE license_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete validation logs: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM licenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete license: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrLicenseNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	s.invalidateDashboard()

	logger.WithFields(map[string]interface{}{
		"license_id": id,
	}).Info("License deleted")

	return nil
}

func (s *licenseService) FindExpiringSoon(ctx context.Context, within time.Duration) ([]models.License, error) {
	now := utils.NowUTC()
	horizon := now.Add(within)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+licenseColumns+` FROM licenses
		WHERE status = ? AND expiry_notified = 0
		  AND end_date IS NOT NULL AND end_date != ''
		  AND end_date > ? AND end_date <= ?
		ORDER BY end_date ASC`,
		models.LicenseStatusActive,
		utils.FormatDateTimeForDB(now), utils.FormatDateTimeForDB(horizon),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	licenses := make([]models.License, 0)
	for rows.Next() {
		license, err := scanLicenseRows(rows)
		if err != nil {
			return nil, err
		}
		licenses = append(licenses, *license)
	}

	return licenses, rows.Err()
}

func (s *licenseService) MarkExpiryNotified(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE licenses SET expiry_notified = 1, updated_at = ? WHERE id = ?",
		utils.FormatDateTimeForDB(utils.NowUTC()), id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark expiry notified: %w", err)
	}
	return nil
}

func (s *licenseService) ExpireOverdue(ctx context.Context) (int64, error) {
	now := utils.FormatDateTimeForDB(utils.NowUTC())
	result, err := s.db.ExecContext(ctx, `
		UPDATE licenses SET status = ?, updated_at = ?
		WHERE status = ? AND end_date IS NOT NULL AND end_date != '' AND end_date < ?`,
		models.LicenseStatusExpired, now, models.LicenseStatusActive, now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to expire overdue licenses: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		s.invalidateDashboard()
	}

	return affected, nil
}

func (s *licenseService) loadPlan(ctx context.Context, planID string) (*models.Plan, error) {
	var plan models.Plan
	err := s.db.QueryRowContext(ctx,
		"SELECT id, product_id, duration_days, max_domains FROM license_plans WHERE id = ?",
		planID,
	).Scan(&plan.ID, &plan.ProductID, &plan.DurationDays, &plan.MaxDomains)
	if err == sql.ErrNoRows {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	return &plan, nil
}

func (s *licenseService) invalidateDashboard() {
	if s.store != nil {
		s.store.Delete(DashboardStatsCacheKey)
	}
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLicenseInto(scanner rowScanner) (*models.License, error) {
	var (
		license        models.License
		startDate      string
		endDate        sql.NullString
		lastValidation sql.NullString
		expiryNotified int
		createdAt      string
		updatedAt      string
	)

	err := scanner.Scan(&license.ID, &license.LicenseKey, &license.CustomerID, &license.PlanID,
		&license.Status, &startDate, &endDate, &license.ValidationCount, &lastValidation,
		&expiryNotified, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrLicenseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan license: %w", err)
	}

	if ts, err := utils.ParseDBDate(startDate); err == nil {
		license.StartDate = ts
	}
	if endDate.Valid && endDate.String != "" {
		if ts, err := utils.ParseDBDate(endDate.String); err == nil {
			license.EndDate = &ts
		}
	}
	if lastValidation.Valid && lastValidation.String != "" {
		if ts, err := utils.ParseDBDate(lastValidation.String); err == nil {
			license.LastValidation = &ts
		}
	}
	license.ExpiryNotified = expiryNotified != 0
	if ts, err := utils.ParseDBDate(createdAt); err == nil {
		license.CreatedAt = ts
	}
	if ts, err := utils.ParseDBDate(updatedAt); err == nil {
		license.UpdatedAt = ts
	}

	return &license, nil
}

func scanLicense(row *sql.Row) (*models.License, error) {
	return scanLicenseInto(row)
}

func scanLicenseRows(rows *sql.Rows) (*models.License, error) {
	return scanLicenseInto(rows)
}
