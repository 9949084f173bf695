package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"licenseserver/database"
	"licenseserver/utils"

	"github.com/stretchr/testify/require"
)

// newTestDB opens an isolated in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) SQLExecutor {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// A second pooled connection would see its own empty memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db, "sqlite"))

	return NewSQLExecutor(db)
}

// fixtures are the ids of a seeded customer/product/plan/license chain.
type fixtures struct {
	CustomerID string
	ProductID  string
	PlanID     string
	LicenseID  string
	LicenseKey string
}

type fixtureOptions struct {
	ProductSlug  string
	MaxDomains   int
	DurationDays int
	Features     string
	EndDate      *time.Time
	Status       string
}

func defaultFixtureOptions() fixtureOptions {
	end := utils.NowUTC().Add(365 * 24 * time.Hour)
	return fixtureOptions{
		ProductSlug:  "studio-app",
		MaxDomains:   1,
		DurationDays: 365,
		Features:     `["export","priority-support"]`,
		EndDate:      &end,
		Status:       "active",
	}
}

// seedLicense inserts one full chain and returns the ids.
func seedLicense(t *testing.T, db SQLExecutor, opts fixtureOptions) fixtures {
	t.Helper()

	ctx := context.Background()
	now := utils.FormatDateTimeForDB(utils.NowUTC())

	f := fixtures{
		CustomerID: "cus-test1",
		ProductID:  "prd-test1",
		PlanID:     "pln-test1",
		LicenseID:  "lic-test1",
		LicenseKey: "ABCD-1234-EFGH-5678",
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO customers (id, name, email, company, created_at, updated_at)
		 VALUES (?, 'Acme Corp', 'acme@example.com', 'Acme', ?, ?)`,
		f.CustomerID, now, now)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO products (id, name, slug, description, created_at, updated_at)
		 VALUES (?, 'Studio App', ?, '', ?, ?)`,
		f.ProductID, opts.ProductSlug, now, now)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO license_plans (id, product_id, name, duration_days, max_domains, price, features, created_at, updated_at)
		 VALUES (?, ?, 'Pro', ?, ?, 99.0, ?, ?, ?)`,
		f.PlanID, f.ProductID, opts.DurationDays, opts.MaxDomains, opts.Features, now, now)
	require.NoError(t, err)

	var endDate any
	if opts.EndDate != nil {
		endDate = utils.FormatDateTimeForDB(*opts.EndDate)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO licenses (id, license_key, customer_id, plan_id, status, start_date, end_date,
			validation_count, expiry_notified, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?)`,
		f.LicenseID, f.LicenseKey, f.CustomerID, f.PlanID, opts.Status, now, endDate, now, now)
	require.NoError(t, err)

	return f
}

// countRows is a small assertion helper.
func countRows(t *testing.T, db SQLExecutor, query string, args ...any) int {
	t.Helper()

	var count int
	require.NoError(t, db.QueryRowContext(context.Background(), query, args...).Scan(&count))
	return count
}
