package models

import (
	"time"

	"github.com/google/uuid"
)

// UnfulfilledItem records a shortfall for one under-supplied order line.
// Created only inside a fulfillment transaction, one row per affected line,
// append-only.
type UnfulfilledItem struct {
	ID           uuid.UUID `json:"id" db:"id"`
	OrderID      uuid.UUID `json:"order_id" db:"order_id"`
	StoreID      uuid.UUID `json:"store_id" db:"store_id"`
	ProductID    uuid.UUID `json:"product_id" db:"product_id"`
	RequestedQty int       `json:"requested_qty" db:"requested_qty"`
	AvailableQty int       `json:"available_qty" db:"available_qty"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Shortfall is the undersupplied amount for this line.
func (u *UnfulfilledItem) Shortfall() int {
	return u.RequestedQty - u.AvailableQty
}
