package models

import (
	"time"

	"github.com/google/uuid"
)

// Visit anchors a set of stock adjustments recorded during one check-in.
// Immutable once created.
type Visit struct {
	ID         uuid.UUID `json:"id" db:"id"`
	SalesmanID uuid.UUID `json:"salesman_id" db:"salesman_id"`
	StoreID    uuid.UUID `json:"store_id" db:"store_id"`
	Timestamp  time.Time `json:"timestamp" db:"timestamp"`
	Latitude   *float64  `json:"latitude" db:"latitude"`
	Longitude  *float64  `json:"longitude" db:"longitude"`
	Notes      *string   `json:"notes" db:"notes"`
}

// StockCountLine is one observed count reported during a check-in. Observed
// is the absolute quantity seen on the shelf, not a delta.
type StockCountLine struct {
	ProductID   uuid.UUID         `json:"product_id"`
	Observed    int               `json:"observed"`
	BatchNumber *string           `json:"batch_number,omitempty"`
	ExpiryDate  *time.Time        `json:"expiry_date,omitempty"`
	Reason      *AdjustmentReason `json:"reason,omitempty"`
	Notes       *string           `json:"notes,omitempty"`
}
