package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"licenseserver/models"
	"licenseserver/utils"
)

var (
	// ErrCustomerNotFound is returned for lookups of unknown customer ids.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrCustomerEmailTaken is returned when the email is already registered.
	ErrCustomerEmailTaken = errors.New("customer email already exists")
	// ErrCustomerHasLicenses blocks deletion while licenses still reference
	// the customer.
	ErrCustomerHasLicenses = errors.New("customer still has licenses")
)

// CustomerService manages the customer directory.
type CustomerService interface {
	Create(ctx context.Context, req models.CreateCustomerRequest) (*models.Customer, error)
	GetByID(ctx context.Context, id string) (*models.Customer, error)
	List(ctx context.Context, page, pageSize int) ([]models.Customer, int64, error)
	Update(ctx context.Context, id string, req models.UpdateCustomerRequest) (*models.Customer, error)
	Delete(ctx context.Context, id string) error
}

type customerService struct {
	db SQLExecutor
}

// NewCustomerService creates the CustomerService implementation.
func NewCustomerService(db SQLExecutor) CustomerService {
	return &customerService{db: db}
}

func (s *customerService) Create(ctx context.Context, req models.CreateCustomerRequest) (*models.Customer, error) {
	id, err := utils.GenerateID("cus")
	if err != nil {
		return nil, err
	}

	now := utils.NowUTC()
	customer := &models.Customer{
		ID:        id,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Company:   strings.TrimSpace(req.Company),
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, company, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		customer.ID, customer.Name, customer.Email, customer.Company,
		utils.FormatDateTimeForDB(now), utils.FormatDateTimeForDB(now),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrCustomerEmailTaken
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return customer, nil
}

func (s *customerService) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	var (
		customer  models.Customer
		createdAt string
		updatedAt string
	)

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, company, created_at, updated_at FROM customers WHERE id = ?", id,
	).Scan(&customer.ID, &customer.Name, &customer.Email, &customer.Company, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	if ts, err := utils.ParseDBDate(createdAt); err == nil {
		customer.CreatedAt = ts
	}
	if ts, err := utils.ParseDBDate(updatedAt); err == nil {
		customer.UpdatedAt = ts
	}

	return &customer, nil
}

func (s *customerService) List(ctx context.Context, page, pageSize int) ([]models.Customer, int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM customers").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, company, created_at, updated_at
		FROM customers ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		pageSize, (page-1)*pageSize,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	customers := make([]models.Customer, 0)
	for rows.Next() {
		var (
			customer  models.Customer
			createdAt string
			updatedAt string
		)
		if err := rows.Scan(&customer.ID, &customer.Name, &customer.Email, &customer.Company,
			&createdAt, &updatedAt); err != nil {
			return nil, 0, err
		}
		if ts, err := utils.ParseDBDate(createdAt); err == nil {
			customer.CreatedAt = ts
		}
		if ts, err := utils.ParseDBDate(updatedAt); err == nil {
			customer.UpdatedAt = ts
		}
		customers = append(customers, customer)
	}

	return customers, total, rows.Err()
}

func (s *customerService) Update(ctx context.Context, id string, req models.UpdateCustomerRequest) (*models.Customer, error) {
	customer, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		customer.Name = strings.TrimSpace(req.Name)
	}
	if req.Email != "" {
		customer.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if req.Company != "" {
		customer.Company = strings.TrimSpace(req.Company)
	}
	customer.UpdatedAt = utils.NowUTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE customers SET name = ?, email = ?, company = ?, updated_at = ? WHERE id = ?`,
		customer.Name, customer.Email, customer.Company,
		utils.FormatDateTimeForDB(customer.UpdatedAt), id,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrCustomerEmailTaken
		}
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	return customer, nil
}

func (s *customerService) Delete(ctx context.Context, id string) error {
	var licenses int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM licenses WHERE customer_id = ?", id,
	).Scan(&licenses); err != nil {
		return fmt.Errorf("failed to count customer licenses: %w", err)
	}
	if licenses > 0 {
		return ErrCustomerHasLicenses
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM customers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCustomerNotFound
	}

	return nil
}
