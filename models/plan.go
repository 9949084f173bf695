package models

import "time"

// Plan belongs to exactly one product and defines what an issued license
// unlocks: validity duration, the domain cap, and the feature set.
type Plan struct {
	ID           string    `json:"id" db:"id"`
	ProductID    string    `json:"product_id" db:"product_id"`
	Name         string    `json:"name" db:"name"`
	DurationDays int       `json:"duration_days" db:"duration_days"` // 0 = unlimited
	MaxDomains   int       `json:"max_domains" db:"max_domains"`
	Price        float64   `json:"price" db:"price"`
	Features     []string  `json:"features" db:"features"` // presence-based feature gates
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// CreatePlanRequest creates a pricing plan under a product.
type CreatePlanRequest struct {
	ProductID    string   `json:"product_id" binding:"required"`
	Name         string   `json:"name" binding:"required"`
	DurationDays int      `json:"duration_days"`
	MaxDomains   int      `json:"max_domains" binding:"required,min=1"`
	Price        float64  `json:"price"`
	Features     []string `json:"features"`
}

// UpdatePlanRequest mutates a plan. A lowered domain cap is not applied
// retroactively to existing bindings.
type UpdatePlanRequest struct {
	Name         string   `json:"name"`
	DurationDays *int     `json:"duration_days"`
	MaxDomains   *int     `json:"max_domains"`
	Price        *float64 `json:"price"`
	Features     []string `json:"features"`
}

// HasFeature reports presence-based feature membership.
func (p *Plan) HasFeature(name string) bool {
	for _, f := range p.Features {
		if f == name {
			return true
		}
	}
	return false
}
