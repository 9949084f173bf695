package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"licenseserver/models"
	"licenseserver/utils"
)

var (
	// ErrPlanHasLicenses blocks deletion while licenses still reference the
	// plan.
	ErrPlanHasLicenses = errors.New("plan still has licenses")
)

// PlanService manages pricing plans. Features persist as a JSON array in a
// TEXT column.
type PlanService interface {
	Create(ctx context.Context, req models.CreatePlanRequest) (*models.Plan, error)
	GetByID(ctx context.Context, id string) (*models.Plan, error)
	ListByProduct(ctx context.Context, productID string) ([]models.Plan, error)
	Update(ctx context.Context, id string, req models.UpdatePlanRequest) (*models.Plan, error)
	Delete(ctx context.Context, id string) error
}

type planService struct {
	db SQLExecutor
}

// NewPlanService creates the PlanService implementation.
func NewPlanService(db SQLExecutor) PlanService {
	return &planService{db: db}
}

func (s *planService) Create(ctx context.Context, req models.CreatePlanRequest) (*models.Plan, error) {
	if req.MaxDomains < 1 {
		return nil, fmt.Errorf("max_domains must be at least 1")
	}
	if req.DurationDays < 0 {
		return nil, fmt.Errorf("duration_days must not be negative")
	}

	// The product must exist before a plan can hang off it.
	var productCount int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM products WHERE id = ?", req.ProductID,
	).Scan(&productCount); err != nil {
		return nil, fmt.Errorf("failed to check product: %w", err)
	}
	if productCount == 0 {
		return nil, ErrProductNotFound
	}

	id, err := utils.GenerateID("pln")
	if err != nil {
		return nil, err
	}

	features := req.Features
	if features == nil {
		features = []string{}
	}
	featuresJSON, err := json.Marshal(features)
	if err != nil {
		return nil, fmt.Errorf("failed to encode features: %w", err)
	}

	now := utils.NowUTC()
	plan := &models.Plan{
		ID:           id,
		ProductID:    req.ProductID,
		Name:         strings.TrimSpace(req.Name),
		DurationDays: req.DurationDays,
		MaxDomains:   req.MaxDomains,
		Price:        req.Price,
		Features:     features,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO license_plans (id, product_id, name, duration_days, max_domains, price, features, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		plan.ID, plan.ProductID, plan.Name, plan.DurationDays, plan.MaxDomains, plan.Price,
		string(featuresJSON), utils.FormatDateTimeForDB(now), utils.FormatDateTimeForDB(now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	return plan, nil
}

func (s *planService) GetByID(ctx context.Context, id string) (*models.Plan, error) {
	var (
		plan      models.Plan
		features  string
		createdAt string
		updatedAt string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, product_id, name, duration_days, max_domains, price, features, created_at, updated_at
		FROM license_plans WHERE id = ?`, id,
	).Scan(&plan.ID, &plan.ProductID, &plan.Name, &plan.DurationDays, &plan.MaxDomains,
		&plan.Price, &features, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	if err := json.Unmarshal([]byte(features), &plan.Features); err != nil {
		plan.Features = []string{}
	}
	if ts, err := utils.ParseDBDate(createdAt); err == nil {
		plan.CreatedAt = ts
	}
	if ts, err := utils.ParseDBDate(updatedAt); err == nil {
		plan.UpdatedAt = ts
	}

	return &plan, nil
}

func (s *planService) ListByProduct(ctx context.Context, productID string) ([]models.Plan, error) {
	query := `SELECT id, product_id, name, duration_days, max_domains, price, features, created_at, updated_at
		FROM license_plans`
	args := make([]any, 0)
	if productID != "" {
		query += " WHERE product_id = ?"
		args = append(args, productID)
	}
	query += " ORDER BY price ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]models.Plan, 0)
	for rows.Next() {
		var (
			plan      models.Plan
			features  string
			createdAt string
			updatedAt string
		)
		if err := rows.Scan(&plan.ID, &plan.ProductID, &plan.Name, &plan.DurationDays,
			&plan.MaxDomains, &plan.Price, &features, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(features), &plan.Features); err != nil {
			plan.Features = []string{}
		}
		if ts, err := utils.ParseDBDate(createdAt); err == nil {
			plan.CreatedAt = ts
		}
		if ts, err := utils.ParseDBDate(updatedAt); err == nil {
			plan.UpdatedAt = ts
		}
		plans = append(plans, plan)
	}

	return plans, rows.Err()
}

func (s *planService) Update(ctx context.Context, id string, req models.UpdatePlanRequest) (*models.Plan, error) {
	plan, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		plan.Name = strings.TrimSpace(req.Name)
	}
	if req.DurationDays != nil {
		if *req.DurationDays < 0 {
			return nil, fmt.Errorf("duration_days must not be negative")
		}
		plan.DurationDays = *req.DurationDays
	}
	if req.MaxDomains != nil {
		if *req.MaxDomains < 1 {
			return nil, fmt.Errorf("max_domains must be at least 1")
		}
		// Lowering the cap does not evict existing bindings; it only gates
		// future binds.
		plan.MaxDomains = *req.MaxDomains
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}
	if req.Features != nil {
		plan.Features = req.Features
	}
	plan.UpdatedAt = utils.NowUTC()

	featuresJSON, err := json.Marshal(plan.Features)
	if err != nil {
		return nil, fmt.Errorf("failed to encode features: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE license_plans
		SET name = ?, duration_days = ?, max_domains = ?, price = ?, features = ?, updated_at = ?
		WHERE id = ?`,
		plan.Name, plan.DurationDays, plan.MaxDomains, plan.Price, string(featuresJSON),
		utils.FormatDateTimeForDB(plan.UpdatedAt), id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	return plan, nil
}

func (s *planService) Delete(ctx context.Context, id string) error {
	var licenses int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM licenses WHERE plan_id = ?", id,
	).Scan(&licenses); err != nil {
		return fmt.Errorf("failed to count plan licenses: %w", err)
	}
	if licenses > 0 {
		return ErrPlanHasLicenses
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM license_plans WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPlanNotFound
	}

	return nil
}
