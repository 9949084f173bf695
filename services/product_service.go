package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"licenseserver/models"
	"licenseserver/utils"
)

var (
	// ErrProductNotFound is returned for lookups of unknown products.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductSlugTaken is returned when the slug is already registered.
	ErrProductSlugTaken = errors.New("product slug already exists")
	// ErrInvalidSlug is returned for slugs outside [a-z0-9-].
	ErrInvalidSlug = errors.New("slug must contain only lowercase letters, digits and hyphens")
	// ErrProductHasPlans blocks deletion while plans still reference the
	// product.
	ErrProductHasPlans = errors.New("product still has plans")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ProductService manages the product catalog clients validate against.
type ProductService interface {
	Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, id string, req models.UpdateProductRequest) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

type productService struct {
	db SQLExecutor
}

// NewProductService creates the ProductService implementation.
func NewProductService(db SQLExecutor) ProductService {
	return &productService{db: db}
}

func (s *productService) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugPattern.MatchString(slug) {
		return nil, ErrInvalidSlug
	}

	id, err := utils.GenerateID("prd")
	if err != nil {
		return nil, err
	}

	now := utils.NowUTC()
	product := &models.Product{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, slug, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		product.ID, product.Name, product.Slug, product.Description,
		utils.FormatDateTimeForDB(now), utils.FormatDateTimeForDB(now),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrProductSlugTaken
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

func (s *productService) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return s.getWhere(ctx, "id = ?", id)
}

func (s *productService) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.getWhere(ctx, "slug = ?", slug)
}

func (s *productService) getWhere(ctx context.Context, where string, arg any) (*models.Product, error) {
	var (
		product     models.Product
		description sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, slug, description, created_at, updated_at FROM products WHERE "+where, arg,
	).Scan(&product.ID, &product.Name, &product.Slug, &description, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	product.Description = description.String
	if ts, err := utils.ParseDBDate(createdAt); err == nil {
		product.CreatedAt = ts
	}
	if ts, err := utils.ParseDBDate(updatedAt); err == nil {
		product.UpdatedAt = ts
	}

	return &product, nil
}

func (s *productService) List(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, slug, description, created_at, updated_at
		FROM products ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		var (
			product     models.Product
			description sql.NullString
			createdAt   string
			updatedAt   string
		)
		if err := rows.Scan(&product.ID, &product.Name, &product.Slug, &description,
			&createdAt, &updatedAt); err != nil {
			return nil, err
		}
		product.Description = description.String
		if ts, err := utils.ParseDBDate(createdAt); err == nil {
			product.CreatedAt = ts
		}
		if ts, err := utils.ParseDBDate(updatedAt); err == nil {
			product.UpdatedAt = ts
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

func (s *productService) Update(ctx context.Context, id string, req models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		product.Name = strings.TrimSpace(req.Name)
	}
	if req.Slug != "" {
		slug := strings.ToLower(strings.TrimSpace(req.Slug))
		if !slugPattern.MatchString(slug) {
			return nil, ErrInvalidSlug
		}
		product.Slug = slug
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	product.UpdatedAt = utils.NowUTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE products SET name = ?, slug = ?, description = ?, updated_at = ? WHERE id = ?`,
		product.Name, product.Slug, product.Description,
		utils.FormatDateTimeForDB(product.UpdatedAt), id,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrProductSlugTaken
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	var plans int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM license_plans WHERE product_id = ?", id,
	).Scan(&plans); err != nil {
		return fmt.Errorf("failed to count product plans: %w", err)
	}
	if plans > 0 {
		return ErrProductHasPlans
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}

	return nil
}
