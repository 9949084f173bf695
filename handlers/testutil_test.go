package handlers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"licenseserver/database"
	"licenseserver/services"
	"licenseserver/signing"
	"licenseserver/utils"

	"github.com/stretchr/testify/require"
)

const (
	testLicenseKey  = "ABCD-1234-EFGH-5678"
	testProductSlug = "studio-app"
	testLicenseID   = "lic-test1"
)

// testEnv wires real services over an in-memory SQLite database, mirroring
// the production composition in main.
type testEnv struct {
	db        services.SQLExecutor
	signer    *signing.Signer
	validator services.ValidationService
	admins    services.AdminService
	audit     services.AuditService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// A second pooled connection would see its own empty memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db, "sqlite"))

	executor := services.NewSQLExecutor(db)
	signer, err := signing.New([]string{"test-signing-secret"})
	require.NoError(t, err)

	domains := services.NewDomainService(executor)
	audit := services.NewAuditService(executor)

	return &testEnv{
		db:        executor,
		signer:    signer,
		validator: services.NewValidationService(executor, domains, audit, signer, nil),
		admins:    services.NewAdminService(executor),
		audit:     audit,
	}
}

// seedLicense inserts one customer/product/plan/license chain with a domain
// cap of maxDomains.
func (e *testEnv) seedLicense(t *testing.T, maxDomains int) {
	t.Helper()

	ctx := context.Background()
	now := utils.FormatDateTimeForDB(utils.NowUTC())
	end := utils.FormatDateTimeForDB(utils.NowUTC().Add(365 * 24 * time.Hour))

	stmts := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO customers (id, name, email, company, created_at, updated_at)
			VALUES ('cus-test1', 'Acme Corp', 'acme@example.com', 'Acme', ?, ?)`,
			[]any{now, now}},
		{`INSERT INTO products (id, name, slug, description, created_at, updated_at)
			VALUES ('prd-test1', 'Studio App', ?, '', ?, ?)`,
			[]any{testProductSlug, now, now}},
		{`INSERT INTO license_plans (id, product_id, name, duration_days, max_domains, price, features, created_at, updated_at)
			VALUES ('pln-test1', 'prd-test1', 'Pro', 365, ?, 99.0, '["export"]', ?, ?)`,
			[]any{maxDomains, now, now}},
		{`INSERT INTO licenses (id, license_key, customer_id, plan_id, status, start_date, end_date,
				validation_count, expiry_notified, created_at, updated_at)
			VALUES (?, ?, 'cus-test1', 'pln-test1', 'active', ?, ?, 0, 0, ?, ?)`,
			[]any{testLicenseID, testLicenseKey, now, end, now, now}},
	}

	for _, stmt := range stmts {
		_, err := e.db.ExecContext(ctx, stmt.query, stmt.args...)
		require.NoError(t, err)
	}
}

func (e *testEnv) seedAdmin(t *testing.T, username, password string) {
	t.Helper()

	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	now := utils.FormatDateTimeForDB(utils.NowUTC())
	_, err = e.db.ExecContext(context.Background(),
		`INSERT INTO admins (id, username, password, email, created_at, updated_at)
		 VALUES ('adm-test1', ?, ?, '', ?, ?)`,
		username, hash, now, now)
	require.NoError(t, err)
}

func (e *testEnv) countValidationLogs(t *testing.T) int {
	t.Helper()

	var count int
	require.NoError(t, e.db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM validation_logs").Scan(&count))
	return count
}
