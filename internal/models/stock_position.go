package models

import (
	"time"

	"github.com/google/uuid"
)

// StockPosition is a store-local, batch-specific quantity of a product.
// Several positions may coexist for the same (store, product) pair when
// batch numbers or expiry dates differ; each restock or allocation creates
// a new position instead of merging, because batch identity drives expiry
// alerting. A position that reaches quantity 0 is deleted.
type StockPosition struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	StoreID     uuid.UUID  `json:"store_id" db:"store_id"`
	ProductID   uuid.UUID  `json:"product_id" db:"product_id"`
	Quantity    int        `json:"quantity" db:"quantity"`
	BatchNumber *string    `json:"batch_number" db:"batch_number"`
	ExpiryDate  *time.Time `json:"expiry_date" db:"expiry_date"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
