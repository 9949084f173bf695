package services

import (
	"context"
	"testing"

	"licenseserver/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(db)
	ctx := context.Background()

	customer, err := svc.Create(ctx, models.CreateCustomerRequest{
		Name:    "  Acme Corp  ",
		Email:   "Sales@Acme.Example",
		Company: "Acme",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", customer.Name)
	assert.Equal(t, "sales@acme.example", customer.Email)

	_, err = svc.Create(ctx, models.CreateCustomerRequest{
		Name:  "Other",
		Email: "sales@acme.example",
	})
	assert.ErrorIs(t, err, ErrCustomerEmailTaken)

	updated, err := svc.Update(ctx, customer.ID, models.UpdateCustomerRequest{Company: "Acme Holdings"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Holdings", updated.Company)

	customers, total, err := svc.List(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, customers, 1)

	require.NoError(t, svc.Delete(ctx, customer.ID))
	_, err = svc.GetByID(ctx, customer.ID)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCustomerDeleteBlockedByLicenses(t *testing.T) {
	db := newTestDB(t)
	f := seedLicense(t, db, defaultFixtureOptions())
	svc := NewCustomerService(db)

	err := svc.Delete(context.Background(), f.CustomerID)
	assert.ErrorIs(t, err, ErrCustomerHasLicenses)
}

func TestProductLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db)
	ctx := context.Background()

	product, err := svc.Create(ctx, models.CreateProductRequest{
		Name: "Studio App",
		Slug: "Studio-App",
	})
	require.NoError(t, err)
	assert.Equal(t, "studio-app", product.Slug, "slugs normalise to lowercase")

	_, err = svc.Create(ctx, models.CreateProductRequest{Name: "Dup", Slug: "studio-app"})
	assert.ErrorIs(t, err, ErrProductSlugTaken)

	_, err = svc.Create(ctx, models.CreateProductRequest{Name: "Bad", Slug: "has spaces"})
	assert.ErrorIs(t, err, ErrInvalidSlug)

	bySlug, err := svc.GetBySlug(ctx, "studio-app")
	require.NoError(t, err)
	assert.Equal(t, product.ID, bySlug.ID)

	products, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)

	require.NoError(t, svc.Delete(ctx, product.ID))
	_, err = svc.GetByID(ctx, product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductDeleteBlockedByPlans(t *testing.T) {
	db := newTestDB(t)
	f := seedLicense(t, db, defaultFixtureOptions())
	svc := NewProductService(db)

	err := svc.Delete(context.Background(), f.ProductID)
	assert.ErrorIs(t, err, ErrProductHasPlans)
}

func TestPlanLifecycle(t *testing.T) {
	db := newTestDB(t)
	f := seedLicense(t, db, defaultFixtureOptions())
	svc := NewPlanService(db)
	ctx := context.Background()

	plan, err := svc.Create(ctx, models.CreatePlanRequest{
		ProductID:    f.ProductID,
		Name:         "Enterprise",
		DurationDays: 0,
		MaxDomains:   10,
		Price:        499,
		Features:     []string{"export", "sso"},
	})
	require.NoError(t, err)
	assert.True(t, plan.HasFeature("sso"))
	assert.False(t, plan.HasFeature("missing"))

	_, err = svc.Create(ctx, models.CreatePlanRequest{
		ProductID: "prd-missing", Name: "X", MaxDomains: 1,
	})
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.Create(ctx, models.CreatePlanRequest{
		ProductID: f.ProductID, Name: "X", MaxDomains: 0,
	})
	assert.Error(t, err)

	newCap := 3
	updated, err := svc.Update(ctx, plan.ID, models.UpdatePlanRequest{MaxDomains: &newCap})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.MaxDomains)
	assert.Equal(t, []string{"export", "sso"}, updated.Features, "features survive a partial update")

	plans, err := svc.ListByProduct(ctx, f.ProductID)
	require.NoError(t, err)
	assert.Len(t, plans, 2) // seeded plan + this one

	require.NoError(t, svc.Delete(ctx, plan.ID))

	// The seeded plan has a license attached.
	assert.ErrorIs(t, svc.Delete(ctx, f.PlanID), ErrPlanHasLicenses)
}

func TestPlanFeaturesPersistAsJSON(t *testing.T) {
	db := newTestDB(t)
	f := seedLicense(t, db, defaultFixtureOptions())
	svc := NewPlanService(db)

	plan, err := svc.GetByID(context.Background(), f.PlanID)
	require.NoError(t, err)
	assert.Equal(t, []string{"export", "priority-support"}, plan.Features)
}
