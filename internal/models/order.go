package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the closed order state enumeration. PENDING is initial;
// FULFILLED and PARTIAL are reachable only through the fulfillment
// transaction, never by direct status edits.
type OrderStatus string

const (
	OrderPending     OrderStatus = "PENDING"
	OrderFulfilled   OrderStatus = "FULFILLED"
	OrderPartial     OrderStatus = "PARTIAL"
	OrderUnfulfilled OrderStatus = "UNFULFILLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderFulfilled, OrderPartial, OrderUnfulfilled:
		return true
	}
	return false
}

// Terminal reports whether fulfillment already ran for an order in this
// state. A terminal order must never be fulfilled again: that would
// double-deduct central inventory.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderFulfilled, OrderPartial, OrderUnfulfilled:
		return true
	}
	return false
}

type Order struct {
	ID         uuid.UUID   `json:"id" db:"id"`
	StoreID    uuid.UUID   `json:"store_id" db:"store_id"`
	SalesmanID uuid.UUID   `json:"salesman_id" db:"salesman_id"`
	Status     OrderStatus `json:"status" db:"status"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`

	Items []*OrderItem `json:"items,omitempty" db:"-"`
}
