package services

import (
	"context"
	"errors"
	"fmt"

	"licenseserver/models"
	"licenseserver/utils"
)

var (
	// ErrDomainCapExceeded is returned when a license already occupies every
	// domain slot its plan allows.
	ErrDomainCapExceeded = errors.New("maximum number of domains reached")
	// ErrDomainNotFound is returned when a binding does not exist.
	ErrDomainNotFound = errors.New("domain binding not found")
)

// DomainService is the domain binding ledger: it tracks which domains have
// activated a license and enforces the per-license cap at creation time.
type DomainService interface {
	CountFor(ctx context.Context, licenseID string) (int, error)
	IsBound(ctx context.Context, licenseID, domain string) (bool, error)
	// Bind creates a binding unless the license already holds maxDomains.
	// The check and the insert run as one conditional statement, so two
	// concurrent validations racing toward the last slot cannot both win.
	Bind(ctx context.Context, licenseID, domain string, maxDomains int) error
	Unbind(ctx context.Context, domainID string) error
	SetVerified(ctx context.Context, domainID string, verified bool) error
	ListFor(ctx context.Context, licenseID string) ([]models.DomainBinding, error)
}

type domainService struct {
	db SQLExecutor
}

// NewDomainService creates the DomainService implementation.
func NewDomainService(db SQLExecutor) DomainService {
	return &domainService{db: db}
}

func (s *domainService) CountFor(ctx context.Context, licenseID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM license_domains WHERE license_id = ?", licenseID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count domains: %w", err)
	}
	return count, nil
}

func (s *domainService) IsBound(ctx context.Context, licenseID, domain string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM license_domains WHERE license_id = ? AND domain = ?",
		licenseID, domain,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check domain binding: %w", err)
	}
	return count > 0, nil
}

func (s *domainService) Bind(ctx context.Context, licenseID, domain string, maxDomains int) error {
	id, err := utils.GenerateID("dom")
	if err != nil {
		return err
	}

	now := utils.FormatDateTimeForDB(utils.NowUTC())

	// Conditional insert: the cap check and the insert are a single
	// statement, and the (license_id, domain) unique constraint backstops
	// a concurrent bind of the same domain.
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO license_domains (id, license_id, domain, verified, created_at)
		SELECT ?, ?, ?, 0, ?
		WHERE (SELECT COUNT(*) FROM license_domains WHERE license_id = ?) < ?`,
		id, licenseID, domain, now, licenseID, maxDomains,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			// Already bound by a concurrent request; the slot is taken by
			// this same domain, which is what the caller wanted.
			return nil
		}
		return fmt.Errorf("failed to bind domain: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read bind result: %w", err)
	}
	if affected == 0 {
		return ErrDomainCapExceeded
	}

	return nil
}

func (s *domainService) Unbind(ctx context.Context, domainID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM license_domains WHERE id = ?", domainID,
	)
	if err != nil {
		return fmt.Errorf("failed to unbind domain: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDomainNotFound
	}

	return nil
}

func (s *domainService) SetVerified(ctx context.Context, domainID string, verified bool) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE license_domains SET verified = ? WHERE id = ?",
		boolToInt(verified), domainID,
	)
	if err != nil {
		return fmt.Errorf("failed to update domain verification: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDomainNotFound
	}

	return nil
}

func (s *domainService) ListFor(ctx context.Context, licenseID string) ([]models.DomainBinding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, license_id, domain, verified, created_at
		FROM license_domains WHERE license_id = ? ORDER BY created_at ASC`,
		licenseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bindings := make([]models.DomainBinding, 0)
	for rows.Next() {
		var (
			binding   models.DomainBinding
			verified  int
			createdAt string
		)
		if err := rows.Scan(&binding.ID, &binding.LicenseID, &binding.Domain, &verified, &createdAt); err != nil {
			return nil, err
		}
		binding.Verified = verified != 0
		if ts, err := utils.ParseDBDate(createdAt); err == nil {
			binding.CreatedAt = ts
		}
		bindings = append(bindings, binding)
	}

	return bindings, rows.Err()
}
