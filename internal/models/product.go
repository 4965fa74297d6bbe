package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductSearchFilter holds search and filter criteria for catalog queries
type ProductSearchFilter struct {
	Query        string   `json:"query,omitempty"`        // Name or manufacturer substring
	Manufacturer *string  `json:"manufacturer,omitempty"` // Exact manufacturer match
	MinMRP       *float64 `json:"min_mrp,omitempty"`
	MaxMRP       *float64 `json:"max_mrp,omitempty"`
	SortBy       string   `json:"sort_by,omitempty"`    // Sort field: name, mrp, created_at
	SortOrder    string   `json:"sort_order,omitempty"` // Sort order: asc, desc
	Limit        int      `json:"limit,omitempty"`      // Page size (default: 50)
	Offset       int      `json:"offset,omitempty"`     // Page offset
}

type Product struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Manufacturer *string   `json:"manufacturer" db:"manufacturer"`
	MRP          float64   `json:"mrp" db:"mrp"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
