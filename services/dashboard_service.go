package services

import (
	"context"
	"fmt"
	"time"

	"licenseserver/cache"
	"licenseserver/models"
	"licenseserver/utils"
)

// DashboardStatsCacheKey is the cache slot for memoized dashboard stats.
// Every mutation that changes what the dashboard would show deletes it.
const DashboardStatsCacheKey = "dashboard:stats"

// dashboardStatsTTL bounds staleness when no invalidating mutation occurs.
const dashboardStatsTTL = 5 * time.Minute

// DashboardStats is the aggregate snapshot shown on the admin landing page.
type DashboardStats struct {
	TotalLicenses     int64 `json:"total_licenses"`
	ActiveLicenses    int64 `json:"active_licenses"`
	ExpiredLicenses   int64 `json:"expired_licenses"`
	InactiveLicenses  int64 `json:"inactive_licenses"`
	TotalCustomers    int64 `json:"total_customers"`
	TotalProducts     int64 `json:"total_products"`
	BoundDomains      int64 `json:"bound_domains"`
	ValidationsToday  int64 `json:"validations_today"`
	FailedToday       int64 `json:"failed_today"`
	ExpiringThisWeek  int64 `json:"expiring_this_week"`
}

// DashboardService aggregates counts for the admin overview, memoizing the
// result between mutations.
type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
}

type dashboardService struct {
	db    SQLExecutor
	store cache.Store
}

// NewDashboardService creates the DashboardService implementation.
func NewDashboardService(db SQLExecutor, store cache.Store) DashboardService {
	return &dashboardService{db: db, store: store}
}

func (s *dashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	if s.store != nil {
		if cached, ok := s.store.Get(DashboardStatsCacheKey); ok {
			if stats, ok := cached.(*DashboardStats); ok {
				return stats, nil
			}
		}
	}

	stats := &DashboardStats{}
	now := utils.NowUTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAhead := now.Add(7 * 24 * time.Hour)

	counts := []struct {
		dest  *int64
		query string
		args  []any
	}{
		{&stats.TotalLicenses, "SELECT COUNT(*) FROM licenses", nil},
		{&stats.ActiveLicenses, "SELECT COUNT(*) FROM licenses WHERE status = ?", []any{models.LicenseStatusActive}},
		{&stats.ExpiredLicenses, "SELECT COUNT(*) FROM licenses WHERE status = ?", []any{models.LicenseStatusExpired}},
		{&stats.InactiveLicenses, "SELECT COUNT(*) FROM licenses WHERE status = ?", []any{models.LicenseStatusInactive}},
		{&stats.TotalCustomers, "SELECT COUNT(*) FROM customers", nil},
		{&stats.TotalProducts, "SELECT COUNT(*) FROM products", nil},
		{&stats.BoundDomains, "SELECT COUNT(*) FROM license_domains", nil},
		{&stats.ValidationsToday, "SELECT COUNT(*) FROM validation_logs WHERE created_at >= ?",
			[]any{utils.FormatDateTimeForDB(startOfDay)}},
		{&stats.FailedToday, "SELECT COUNT(*) FROM validation_logs WHERE created_at >= ? AND is_valid = 0",
			[]any{utils.FormatDateTimeForDB(startOfDay)}},
		{&stats.ExpiringThisWeek, `SELECT COUNT(*) FROM licenses
			WHERE status = ? AND end_date IS NOT NULL AND end_date != '' AND end_date > ? AND end_date <= ?`,
			[]any{models.LicenseStatusActive, utils.FormatDateTimeForDB(now), utils.FormatDateTimeForDB(weekAhead)}},
	}

	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
		}
	}

	if s.store != nil {
		s.store.Set(DashboardStatsCacheKey, stats, dashboardStatsTTL)
	}

	return stats, nil
}
