package models

import (
	"time"

	"github.com/google/uuid"
)

// AdjustmentReason classifies why a store's ledger moved. Closed set:
// transition sites switch over it exhaustively, so a new reason is a
// compile-time-visible change.
type AdjustmentReason string

const (
	ReasonRestock         AdjustmentReason = "RESTOCK"
	ReasonCountCorrection AdjustmentReason = "COUNT_CORRECTION"
	ReasonDamage          AdjustmentReason = "DAMAGE"
	ReasonReturn          AdjustmentReason = "RETURN"
)

func (r AdjustmentReason) Valid() bool {
	switch r {
	case ReasonRestock, ReasonCountCorrection, ReasonDamage, ReasonReturn:
		return true
	}
	return false
}

// StockAdjustment is an append-only audit record of one reconciling change
// to a store's ledger. Rows are never mutated or deleted.
type StockAdjustment struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	VisitID        uuid.UUID        `json:"visit_id" db:"visit_id"`
	StoreID        uuid.UUID        `json:"store_id" db:"store_id"`
	ProductID      uuid.UUID        `json:"product_id" db:"product_id"`
	QuantityChange int              `json:"quantity_change" db:"quantity_change"`
	Reason         AdjustmentReason `json:"reason" db:"reason"`
	BatchNumber    *string          `json:"batch_number" db:"batch_number"`
	ExpiryDate     *time.Time       `json:"expiry_date" db:"expiry_date"`
	Notes          *string          `json:"notes" db:"notes"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
}
