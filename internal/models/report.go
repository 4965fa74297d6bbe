package models

import (
	"time"

	"github.com/google/uuid"
)

// Reporting read models. These are computed by SQL aggregates and never
// written back, so they carry json tags only.

// StoreShortfall summarizes unmet demand for one store over a window.
type StoreShortfall struct {
	StoreID           uuid.UUID `json:"store_id"`
	StoreName         string    `json:"store_name"`
	PartialOrders     int       `json:"partial_orders"`
	UnfulfilledOrders int       `json:"unfulfilled_orders"`
	ShortfallItems    int       `json:"shortfall_items"`
	ShortfallQty      int       `json:"shortfall_qty"`
}

// ProductShortage ranks products by demand and shows how much of it was met.
type ProductShortage struct {
	ProductID       uuid.UUID `json:"product_id"`
	ProductName     string    `json:"product_name"`
	RequestedQty    int       `json:"requested_qty"`
	FulfilledQty    int       `json:"fulfilled_qty"`
	ShortfallQty    int       `json:"shortfall_qty"`
	FulfillmentRate float64   `json:"fulfillment_rate"`
}

type FulfillmentStats struct {
	TotalOrders      int     `json:"total_orders"`
	FulfilledCount   int     `json:"fulfilled_count"`
	PartialCount     int     `json:"partial_count"`
	UnfulfilledCount int     `json:"unfulfilled_count"`
	PendingCount     int     `json:"pending_count"`
	FulfilledRate    float64 `json:"fulfilled_rate"`
	PartialRate      float64 `json:"partial_rate"`
	UnfulfilledRate  float64 `json:"unfulfilled_rate"`
}

// DemandTrendPoint is one day of demand versus what fulfillment delivered.
type DemandTrendPoint struct {
	Day          time.Time `json:"day"`
	RequestedQty int       `json:"requested_qty"`
	FulfilledQty int       `json:"fulfilled_qty"`
	ShortfallQty int       `json:"shortfall_qty"`
}

type DashboardStats struct {
	VisitsToday    int `json:"visits_today"`
	OrdersToday    int `json:"orders_today"`
	PendingOrders  int `json:"pending_orders"`
	ActiveSalesmen int `json:"active_salesmen"`
	TotalStores    int `json:"total_stores"`
	TotalProducts  int `json:"total_products"`
}

// Activity is one row of the recent-activity feed: either a visit or an
// order, normalized for display.
type Activity struct {
	Kind      string    `json:"kind"`
	StoreName string    `json:"store_name"`
	Detail    string    `json:"detail"`
	Timestamp time.Time `json:"timestamp"`
}
