package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"licenseserver/logger"
	"licenseserver/models"
	"licenseserver/utils"
)

var (
	// ErrInvalidCredentials is returned for bad username/password pairs. The
	// same error covers unknown usernames so login does not leak which part
	// failed.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrAdminNotFound is returned for lookups of unknown admin ids.
	ErrAdminNotFound = errors.New("admin not found")
)

// AdminService authenticates back-office users and records their activity.
type AdminService interface {
	Authenticate(ctx context.Context, username, password string) (*models.Admin, error)
	GetByID(ctx context.Context, id string) (*models.Admin, error)
	ChangePassword(ctx context.Context, adminID, currentPassword, newPassword string) error

	RecordActivity(ctx context.Context, adminID, username, action, details string)
	ListActivity(ctx context.Context, limit, offset int) ([]models.AdminActivityEntry, error)
}

type adminService struct {
	db SQLExecutor
}

// NewAdminService creates the AdminService implementation.
func NewAdminService(db SQLExecutor) AdminService {
	return &adminService{db: db}
}

func (s *adminService) Authenticate(ctx context.Context, username, password string) (*models.Admin, error) {
	admin, err := s.getWhere(ctx, "username = ?", username)
	if err == ErrAdminNotFound {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !utils.CheckPassword(admin.Password, password) {
		return nil, ErrInvalidCredentials
	}

	return admin, nil
}

func (s *adminService) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	return s.getWhere(ctx, "id = ?", id)
}

func (s *adminService) getWhere(ctx context.Context, where string, arg any) (*models.Admin, error) {
	var (
		admin     models.Admin
		createdAt string
		updatedAt string
	)

	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, password, email, created_at, updated_at FROM admins WHERE "+where, arg,
	).Scan(&admin.ID, &admin.Username, &admin.Password, &admin.Email, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}

	if ts, err := utils.ParseDBDate(createdAt); err == nil {
		admin.CreatedAt = ts
	}
	if ts, err := utils.ParseDBDate(updatedAt); err == nil {
		admin.UpdatedAt = ts
	}

	return &admin, nil
}

func (s *adminService) ChangePassword(ctx context.Context, adminID, currentPassword, newPassword string) error {
	admin, err := s.GetByID(ctx, adminID)
	if err != nil {
		return err
	}

	if !utils.CheckPassword(admin.Password, currentPassword) {
		return ErrInvalidCredentials
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE admins SET password = ?, updated_at = ? WHERE id = ?",
		hash, utils.FormatDateTimeForDB(utils.NowUTC()), adminID,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// RecordActivity best-effort appends an admin activity entry. Activity logging
// must never fail the operation it describes, so errors are logged and
// swallowed.
func (s *adminService) RecordActivity(ctx context.Context, adminID, username, action, details string) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_activity_logs (admin_id, username, action, details, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		adminID, username, action, details, utils.FormatDateTimeForDB(utils.NowUTC()),
	)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"action": action,
			"error":  err.Error(),
		}).Warn("Failed to record admin activity")
	}
}

func (s *adminService) ListActivity(ctx context.Context, limit, offset int) ([]models.AdminActivityEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, admin_id, username, action, details, created_at
		FROM admin_activity_logs ORDER BY id DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.AdminActivityEntry, 0)
	for rows.Next() {
		var (
			entry     models.AdminActivityEntry
			details   sql.NullString
			createdAt string
		)
		if err := rows.Scan(&entry.ID, &entry.AdminID, &entry.Username, &entry.Action,
			&details, &createdAt); err != nil {
			return nil, err
		}
		entry.Details = details.String
		if ts, err := utils.ParseDBDate(createdAt); err == nil {
			entry.CreatedAt = ts
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
