package scheduler

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"licenseserver/database"
	"licenseserver/models"
	"licenseserver/services"
	"licenseserver/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db        services.SQLExecutor
	licenses  services.LicenseService
	audit     services.AuditService
	admins    services.AdminService
	scheduler *Scheduler
}

func newTestEnv(t *testing.T, retentionDays int) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// A second pooled connection would see its own empty memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db, "sqlite"))

	executor := services.NewSQLExecutor(db)
	licenses := services.NewLicenseService(executor, nil)
	audit := services.NewAuditService(executor)
	admins := services.NewAdminService(executor)

	return &testEnv{
		db:        executor,
		licenses:  licenses,
		audit:     audit,
		admins:    admins,
		scheduler: New(licenses, audit, admins, retentionDays),
	}
}

// seedLicense inserts a minimal chain with the given end date and returns the
// license id.
func (e *testEnv) seedLicense(t *testing.T, id, key string, endDate *time.Time) {
	t.Helper()

	ctx := context.Background()
	now := utils.FormatDateTimeForDB(utils.NowUTC())

	for _, stmt := range []struct {
		query string
		args  []any
	}{
		{`INSERT OR IGNORE INTO customers (id, name, email, company, created_at, updated_at)
			VALUES ('cus-1', 'Acme', 'acme@example.com', '', ?, ?)`, []any{now, now}},
		{`INSERT OR IGNORE INTO products (id, name, slug, description, created_at, updated_at)
			VALUES ('prd-1', 'Studio App', 'studio-app', '', ?, ?)`, []any{now, now}},
		{`INSERT OR IGNORE INTO license_plans (id, product_id, name, duration_days, max_domains, price, features, created_at, updated_at)
			VALUES ('pln-1', 'prd-1', 'Pro', 365, 1, 99.0, '[]', ?, ?)`, []any{now, now}},
	} {
		_, err := e.db.ExecContext(ctx, stmt.query, stmt.args...)
		require.NoError(t, err)
	}

	var end any
	if endDate != nil {
		end = utils.FormatDateTimeForDB(*endDate)
	}
	_, err := e.db.ExecContext(ctx,
		`INSERT INTO licenses (id, license_key, customer_id, plan_id, status, start_date, end_date,
			validation_count, expiry_notified, created_at, updated_at)
		 VALUES (?, ?, 'cus-1', 'pln-1', 'active', ?, ?, 0, 0, ?, ?)`,
		id, key, now, end, now, now)
	require.NoError(t, err)
}

func (e *testEnv) licenseStatus(t *testing.T, id string) string {
	t.Helper()

	var status string
	require.NoError(t, e.db.QueryRowContext(context.Background(),
		"SELECT status FROM licenses WHERE id = ?", id).Scan(&status))
	return status
}

func TestExpirySweep(t *testing.T) {
	env := newTestEnv(t, 90)

	overdue := utils.NowUTC().Add(-48 * time.Hour)
	soon := utils.NowUTC().Add(3 * 24 * time.Hour)
	env.seedLicense(t, "lic-overdue", "AAAA-1111-BBBB-2222", &overdue)
	env.seedLicense(t, "lic-soon", "CCCC-3333-DDDD-4444", &soon)
	env.seedLicense(t, "lic-unltd", "EEEE-5555-FFFF-6666", nil)

	env.scheduler.RunExpirySweep()

	assert.Equal(t, "expired", env.licenseStatus(t, "lic-overdue"))
	assert.Equal(t, "active", env.licenseStatus(t, "lic-soon"))
	assert.Equal(t, "active", env.licenseStatus(t, "lic-unltd"))

	// The sweep leaves an activity record attributed to the system.
	entries, err := env.admins.ListActivity(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.AdminActionExpirySweep, entries[0].Action)
	assert.Equal(t, "system", entries[0].AdminID)

	// The expiring-soon license was flagged exactly once.
	expiring, err := env.licenses.FindExpiringSoon(context.Background(), expiryNoticeHorizon)
	require.NoError(t, err)
	assert.Empty(t, expiring)

	// A second sweep finds nothing new and records nothing new.
	env.scheduler.RunExpirySweep()
	entries, err = env.admins.ListActivity(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLogCleanup(t *testing.T) {
	env := newTestEnv(t, 90)
	ctx := context.Background()

	old := utils.NowUTC().Add(-120 * 24 * time.Hour)
	require.NoError(t, env.audit.Record(ctx, models.ValidationLogEntry{
		Domain: "old.com", Reason: models.ValidationReasonValid, CreatedAt: old,
	}))
	require.NoError(t, env.audit.Record(ctx, models.ValidationLogEntry{
		Domain: "recent.com", Reason: models.ValidationReasonValid,
	}))

	env.scheduler.RunLogCleanup()

	remaining, err := env.audit.List(ctx, models.ValidationLogFilter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "recent.com", remaining[0].Domain)

	entries, err := env.admins.ListActivity(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.AdminActionLogCleanup, entries[0].Action)
}

func TestStartStop(t *testing.T) {
	env := newTestEnv(t, 90)

	env.scheduler.Start()
	env.scheduler.Stop()
}
