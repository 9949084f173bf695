package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"licenseserver/models"
	"licenseserver/utils"
)

// minRetentionDays is the floor for log pruning. Shorter retention requests
// are raised to it so an operator typo cannot wipe the audit trail.
const minRetentionDays = 30

// AuditService owns the append-only validation log. Entries are written
// exactly once per validation attempt and are never mutated; the only removal
// path is the time-based retention sweep.
type AuditService interface {
	Record(ctx context.Context, entry models.ValidationLogEntry) error
	List(ctx context.Context, filter models.ValidationLogFilter) ([]models.ValidationLogEntry, error)
	PruneOlderThan(ctx context.Context, days int) (int64, error)
}

type auditService struct {
	db SQLExecutor
}

// NewAuditService creates the AuditService implementation.
func NewAuditService(db SQLExecutor) AuditService {
	return &auditService{db: db}
}

func (s *auditService) Record(ctx context.Context, entry models.ValidationLogEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = utils.NowUTC()
	}

	var licenseID sql.NullString
	if entry.LicenseID != nil {
		licenseID = sql.NullString{String: *entry.LicenseID, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO validation_logs (license_id, domain, ip_address, client_id, is_valid, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		licenseID, entry.Domain, entry.IPAddress, entry.ClientID,
		boolToInt(entry.IsValid), entry.Reason, utils.FormatDateTimeForDB(createdAt),
	)
	if err != nil {
		return fmt.Errorf("failed to record validation log: %w", err)
	}

	return nil
}

func (s *auditService) List(ctx context.Context, filter models.ValidationLogFilter) ([]models.ValidationLogEntry, error) {
	query := `SELECT id, license_id, domain, ip_address, client_id, is_valid, reason, created_at
		FROM validation_logs WHERE 1=1`
	args := make([]any, 0)

	if strings.TrimSpace(filter.LicenseID) != "" {
		query += " AND license_id = ?"
		args = append(args, filter.LicenseID)
	}

	if strings.TrimSpace(filter.Domain) != "" {
		query += " AND domain = ?"
		args = append(args, filter.Domain)
	}

	if filter.OnlyValid != nil {
		query += " AND is_valid = ?"
		args = append(args, boolToInt(*filter.OnlyValid))
	}

	query += " ORDER BY id DESC"

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query += " LIMIT ?"
	args = append(args, limit)

	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.ValidationLogEntry, 0)
	for rows.Next() {
		var (
			entry     models.ValidationLogEntry
			licenseID sql.NullString
			isValid   int
			createdAt string
		)
		if err := rows.Scan(&entry.ID, &licenseID, &entry.Domain, &entry.IPAddress,
			&entry.ClientID, &isValid, &entry.Reason, &createdAt); err != nil {
			return nil, err
		}

		if licenseID.Valid {
			entry.LicenseID = &licenseID.String
		}
		entry.IsValid = isValid != 0
		if ts, err := utils.ParseDBDate(createdAt); err == nil {
			entry.CreatedAt = ts
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (s *auditService) PruneOlderThan(ctx context.Context, days int) (int64, error) {
	if days < minRetentionDays {
		days = minRetentionDays
	}

	cutoff := utils.NowUTC().Add(-time.Duration(days) * 24 * time.Hour)
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM validation_logs WHERE created_at < ?",
		utils.FormatDateTimeForDB(cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune validation logs: %w", err)
	}

	return result.RowsAffected()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
