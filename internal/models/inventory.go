package models

import (
	"time"

	"github.com/google/uuid"
)

// Inventory is the central warehouse stock count for one product, shared
// across all stores. Quantity never goes negative: decrements are guarded
// by a conditional update inside the fulfillment transaction.
type Inventory struct {
	ID                uuid.UUID `json:"id" db:"id"`
	ProductID         uuid.UUID `json:"product_id" db:"product_id"`
	Quantity          int       `json:"quantity" db:"quantity"`
	LowStockThreshold int       `json:"low_stock_threshold" db:"low_stock_threshold"`
	LastUpdated       time.Time `json:"last_updated" db:"last_updated"`
}
