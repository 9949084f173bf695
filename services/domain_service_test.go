package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindRespectsCap(t *testing.T) {
	db := newTestDB(t)
	opts := defaultFixtureOptions()
	opts.MaxDomains = 2
	f := seedLicense(t, db, opts)
	svc := NewDomainService(db)
	ctx := context.Background()

	require.NoError(t, svc.Bind(ctx, f.LicenseID, "a.com", 2))
	require.NoError(t, svc.Bind(ctx, f.LicenseID, "b.com", 2))

	err := svc.Bind(ctx, f.LicenseID, "c.com", 2)
	assert.ErrorIs(t, err, ErrDomainCapExceeded)

	count, err := svc.CountFor(ctx, f.LicenseID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestBindSameDomainTwiceIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	f := seedLicense(t, db, defaultFixtureOptions())
	svc := NewDomainService(db)
	ctx := context.Background()

	require.NoError(t, svc.Bind(ctx, f.LicenseID, "a.com", 1))
	// The unique constraint absorbs the duplicate.
	require.NoError(t, svc.Bind(ctx, f.LicenseID, "a.com", 1))

	count, err := svc.CountFor(ctx, f.LicenseID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUnbindFreesSlot(t *testing.T) {
	db := newTestDB(t)
	f := seedLicense(t, db, defaultFixtureOptions())
	svc := NewDomainService(db)
	ctx := context.Background()

	require.NoError(t, svc.Bind(ctx, f.LicenseID, "a.com", 1))
	assert.ErrorIs(t, svc.Bind(ctx, f.LicenseID, "b.com", 1), ErrDomainCapExceeded)

	bindings, err := svc.ListFor(ctx, f.LicenseID)
	require.NoError(t, err)
	require.Len(t, bindings, 1)

	require.NoError(t, svc.Unbind(ctx, bindings[0].ID))
	require.NoError(t, svc.Bind(ctx, f.LicenseID, "b.com", 1))

	bound, err := svc.IsBound(ctx, f.LicenseID, "b.com")
	require.NoError(t, err)
	assert.True(t, bound)

	assert.ErrorIs(t, svc.Unbind(ctx, "dom-missing"), ErrDomainNotFound)
}

func TestSetVerified(t *testing.T) {
	db := newTestDB(t)
	f := seedLicense(t, db, defaultFixtureOptions())
	svc := NewDomainService(db)
	ctx := context.Background()

	require.NoError(t, svc.Bind(ctx, f.LicenseID, "a.com", 1))

	bindings, err := svc.ListFor(ctx, f.LicenseID)
	require.NoError(t, err)
	require.Len(t, bindings, 1)
	assert.False(t, bindings[0].Verified)

	require.NoError(t, svc.SetVerified(ctx, bindings[0].ID, true))

	bindings, err = svc.ListFor(ctx, f.LicenseID)
	require.NoError(t, err)
	assert.True(t, bindings[0].Verified)

	assert.ErrorIs(t, svc.SetVerified(ctx, "dom-missing", true), ErrDomainNotFound)
}
