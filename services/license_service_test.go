package services

import (
	"context"
	"testing"
	"time"

	"licenseserver/models"
	"licenseserver/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLicenseGeneratesKeyAndEndDate(t *testing.T) {
	db := newTestDB(t)
	f := seedLicense(t, db, defaultFixtureOptions()) // plan duration 365 days
	svc := NewLicenseService(db, nil)

	license, err := svc.Create(context.Background(), models.CreateLicenseRequest{
		CustomerID: f.CustomerID,
		PlanID:     f.PlanID,
	})
	require.NoError(t, err)

	assert.True(t, utils.IsValidLicenseKeyFormat(license.LicenseKey))
	assert.Equal(t, models.LicenseStatusActive, license.Status)
	require.NotNil(t, license.EndDate)

	expected := license.StartDate.Add(365 * 24 * time.Hour)
	assert.WithinDuration(t, expected, *license.EndDate, time.Second)

	// Two issuances never share a key.
	other, err := svc.Create(context.Background(), models.CreateLicenseRequest{
		CustomerID: f.CustomerID,
		PlanID:     f.PlanID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, license.LicenseKey, other.LicenseKey)
}

func TestCreateLicenseZeroDurationIsUnlimited(t *testing.T) {
	db := newTestDB(t)
	opts := defaultFixtureOptions()
	opts.DurationDays = 0
	f := seedLicense(t, db, opts)
	svc := NewLicenseService(db, nil)

	license, err := svc.Create(context.Background(), models.CreateLicenseRequest{
		CustomerID: f.CustomerID,
		PlanID:     f.PlanID,
	})
	require.NoError(t, err)
	assert.Nil(t, license.EndDate)
}

func TestCreateLicenseWithExplicitKey(t *testing.T) {
	db := newTestDB(t)
	f := seedLicense(t, db, defaultFixtureOptions())
	svc := NewLicenseService(db, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, models.CreateLicenseRequest{
		CustomerID: f.CustomerID,
		PlanID:     f.PlanID,
		LicenseKey: "not a key",
	})
	assert.ErrorIs(t, err, ErrInvalidLicenseKey)

	// The seeded license already owns this key.
	_, err = svc.Create(ctx, models.CreateLicenseRequest{
		CustomerID: f.CustomerID,
		PlanID:     f.PlanID,
		LicenseKey: f.LicenseKey,
	})
	assert.ErrorIs(t, err, ErrLicenseKeyTaken)

	license, err := svc.Create(ctx, models.CreateLicenseRequest{
		CustomerID: f.CustomerID,
		PlanID:     f.PlanID,
		LicenseKey: "wxyz-9876-qrst-5432",
	})
	require.NoError(t, err)
	assert.Equal(t, "WXYZ-9876-QRST-5432", license.LicenseKey)
}

func TestCreateLicenseUnknownPlan(t *testing.T) {
	db := newTestDB(t)
	f := seedLicense(t, db, defaultFixtureOptions())
	svc := NewLicenseService(db, nil)

	_, err := svc.Create(context.Background(), models.CreateLicenseRequest{
		CustomerID: f.CustomerID,
		PlanID:     "pln-missing",
	})
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestGetAndList(t *testing.T) {
	db := newTestDB(t)
	f := seedLicense(t, db, defaultFixtureOptions())
	svc := NewLicenseService(db, nil)
	ctx := context.Background()

	byID, err := svc.GetByID(ctx, f.LicenseID)
	require.NoError(t, err)
	assert.Equal(t, f.LicenseKey, byID.LicenseKey)

	byKey, err := svc.GetByKey(ctx, f.LicenseKey)
	require.NoError(t, err)
	assert.Equal(t, f.LicenseID, byKey.ID)

	_, err = svc.GetByID(ctx, "lic-missing")
	assert.ErrorIs(t, err, ErrLicenseNotFound)

	licenses, total, err := svc.List(ctx, LicenseFilter{CustomerID: f.CustomerID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, licenses, 1)

	_, total, err = svc.List(ctx, LicenseFilter{Status: models.LicenseStatusExpired})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestUpdateLicenseResetsExpiryNotified(t *testing.T) {
	db := newTestDB(t)
	f := seedLicense(t, db, defaultFixtureOptions())
	svc := NewLicenseService(db, nil)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, "UPDATE licenses SET expiry_notified = 1 WHERE id = ?", f.LicenseID)
	require.NoError(t, err)

	renewed := utils.NowUTC().Add(2 * 365 * 24 * time.Hour)
	license, err := svc.Update(ctx, f.LicenseID, models.UpdateLicenseRequest{
		EndDate: utils.FormatDateTimeForDB(renewed),
	})
	require.NoError(t, err)

	assert.False(t, license.ExpiryNotified, "a renewal re-arms the expiry notice")
	assert.Equal(t, 1, countRows(t, db,
		"SELECT COUNT(*) FROM licenses WHERE id = ? AND expiry_notified = 0", f.LicenseID))
}

func TestUpdateLicenseRejectsBadStatus(t *testing.T) {
	db := newTestDB(t)
	f := seedLicense(t, db, defaultFixtureOptions())
	svc := NewLicenseService(db, nil)

	_, err := svc.Update(context.Background(), f.LicenseID, models.UpdateLicenseRequest{Status: "bogus"})
	assert.Error(t, err)
}

func TestDeleteLicenseCascades(t *testing.T) {
	db := newTestDB(t)
	f := seedLicense(t, db, defaultFixtureOptions())
	svc := NewLicenseService(db, nil)
	ctx := context.Background()

	now := utils.FormatDateTimeForDB(utils.NowUTC())
	_, err := db.ExecContext(ctx,
		`INSERT INTO license_domains (id, license_id, domain, verified, created_at) VALUES ('dom-1', ?, 'a.com', 0, ?)`,
		f.LicenseID, now)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx,
		`INSERT INTO validation_logs (license_id, domain, ip_address, client_id, is_valid, reason, created_at)
		 VALUES (?, 'a.com', '', '', 1, 'valid', ?)`,
		f.LicenseID, now)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, f.LicenseID))

	assert.Equal(t, 0, countRows(t, db, "SELECT COUNT(*) FROM licenses"))
	assert.Equal(t, 0, countRows(t, db, "SELECT COUNT(*) FROM license_domains"))
	assert.Equal(t, 0, countRows(t, db, "SELECT COUNT(*) FROM validation_logs"))

	assert.ErrorIs(t, svc.Delete(ctx, f.LicenseID), ErrLicenseNotFound)
}

func TestExpireOverdue(t *testing.T) {
	db := newTestDB(t)
	opts := defaultFixtureOptions()
	past := utils.NowUTC().Add(-48 * time.Hour)
	opts.EndDate = &past
	f := seedLicense(t, db, opts)
	svc := NewLicenseService(db, nil)
	ctx := context.Background()

	// A second, unlimited license must survive the sweep.
	now := utils.FormatDateTimeForDB(utils.NowUTC())
	_, err := db.ExecContext(ctx,
		`INSERT INTO licenses (id, license_key, customer_id, plan_id, status, start_date, end_date,
			validation_count, expiry_notified, created_at, updated_at)
		 VALUES ('lic-unltd', 'QQQQ-WWWW-EEEE-RRRR', ?, ?, 'active', ?, NULL, 0, 0, ?, ?)`,
		f.CustomerID, f.PlanID, now, now, now)
	require.NoError(t, err)

	flipped, err := svc.ExpireOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), flipped)

	assert.Equal(t, 1, countRows(t, db,
		"SELECT COUNT(*) FROM licenses WHERE id = ? AND status = 'expired'", f.LicenseID))
	assert.Equal(t, 1, countRows(t, db,
		"SELECT COUNT(*) FROM licenses WHERE id = 'lic-unltd' AND status = 'active'"))

	// Running again is a no-op.
	flipped, err = svc.ExpireOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), flipped)
}

func TestFindExpiringSoonNotifiesOnce(t *testing.T) {
	db := newTestDB(t)
	opts := defaultFixtureOptions()
	soon := utils.NowUTC().Add(3 * 24 * time.Hour)
	opts.EndDate = &soon
	f := seedLicense(t, db, opts)
	svc := NewLicenseService(db, nil)
	ctx := context.Background()

	expiring, err := svc.FindExpiringSoon(ctx, 7*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, f.LicenseID, expiring[0].ID)

	require.NoError(t, svc.MarkExpiryNotified(ctx, f.LicenseID))

	expiring, err = svc.FindExpiringSoon(ctx, 7*24*time.Hour)
	require.NoError(t, err)
	assert.Empty(t, expiring, "a notified license is not reported again")
}

func TestFindExpiringSoonIgnoresDistantAndPast(t *testing.T) {
	db := newTestDB(t)
	opts := defaultFixtureOptions()
	distant := utils.NowUTC().Add(60 * 24 * time.Hour)
	opts.EndDate = &distant
	seedLicense(t, db, opts)
	svc := NewLicenseService(db, nil)

	expiring, err := svc.FindExpiringSoon(context.Background(), 7*24*time.Hour)
	require.NoError(t, err)
	assert.Empty(t, expiring)
}
