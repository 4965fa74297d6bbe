package repositories

import (
	"context"
	"time"

	"fieldtrack/internal/models"
)

// ReportRepository is read-only: every method aggregates over rows the
// write paths produced.
type ReportRepository interface {
	StoreShortfalls(ctx context.Context, since time.Time) ([]*models.StoreShortfall, error)
	ProductShortages(ctx context.Context, since time.Time, limit int) ([]*models.ProductShortage, error)
	FulfillmentStats(ctx context.Context, since time.Time) (*models.FulfillmentStats, error)
	DemandTrends(ctx context.Context, since time.Time) ([]*models.DemandTrendPoint, error)
	DashboardStats(ctx context.Context, dayStart time.Time) (*models.DashboardStats, error)
	RecentActivity(ctx context.Context, limit int) ([]*models.Activity, error)
}

type reportRepo struct {
	db DBTX
}

func NewReportRepo(db DBTX) ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) StoreShortfalls(ctx context.Context, since time.Time) ([]*models.StoreShortfall, error) {
	query := `
		SELECT s.id, s.name,
		       COUNT(DISTINCT o.id) FILTER (WHERE o.status = 'PARTIAL') AS partial_orders,
		       COUNT(DISTINCT o.id) FILTER (WHERE o.status = 'UNFULFILLED') AS unfulfilled_orders,
		       COUNT(u.id) AS shortfall_items,
		       COALESCE(SUM(u.requested_qty - u.available_qty), 0) AS shortfall_qty
		FROM stores s
		JOIN orders o ON o.store_id = s.id
		LEFT JOIN unfulfilled_items u ON u.order_id = o.id
		WHERE o.status IN ('PARTIAL', 'UNFULFILLED') AND o.updated_at >= $1
		GROUP BY s.id, s.name
		ORDER BY shortfall_qty DESC
	`
	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shortfalls []*models.StoreShortfall
	for rows.Next() {
		sf := &models.StoreShortfall{}
		if err := rows.Scan(&sf.StoreID, &sf.StoreName, &sf.PartialOrders, &sf.UnfulfilledOrders, &sf.ShortfallItems, &sf.ShortfallQty); err != nil {
			return nil, err
		}
		shortfalls = append(shortfalls, sf)
	}
	return shortfalls, rows.Err()
}

func (r *reportRepo) ProductShortages(ctx context.Context, since time.Time, limit int) ([]*models.ProductShortage, error) {
	// Fulfilled quantity is requested minus the recorded shortfall; orders
	// with no unfulfilled rows were met in full.
	query := `
		SELECT p.id, p.name,
		       COALESCE(SUM(oi.quantity), 0) AS requested_qty,
		       COALESCE(SUM(oi.quantity), 0) - COALESCE(SUM(u.requested_qty - u.available_qty), 0) AS fulfilled_qty,
		       COALESCE(SUM(u.requested_qty - u.available_qty), 0) AS shortfall_qty
		FROM products p
		JOIN order_items oi ON oi.product_id = p.id
		JOIN orders o ON o.id = oi.order_id
		LEFT JOIN unfulfilled_items u ON u.order_id = o.id AND u.product_id = p.id
		WHERE o.status IN ('FULFILLED', 'PARTIAL', 'UNFULFILLED') AND o.updated_at >= $1
		GROUP BY p.id, p.name
		ORDER BY requested_qty DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shortages []*models.ProductShortage
	for rows.Next() {
		ps := &models.ProductShortage{}
		if err := rows.Scan(&ps.ProductID, &ps.ProductName, &ps.RequestedQty, &ps.FulfilledQty, &ps.ShortfallQty); err != nil {
			return nil, err
		}
		if ps.RequestedQty > 0 {
			ps.FulfillmentRate = float64(ps.FulfilledQty) / float64(ps.RequestedQty)
		}
		shortages = append(shortages, ps)
	}
	return shortages, rows.Err()
}

func (r *reportRepo) FulfillmentStats(ctx context.Context, since time.Time) (*models.FulfillmentStats, error) {
	stats := &models.FulfillmentStats{}
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'FULFILLED'),
		       COUNT(*) FILTER (WHERE status = 'PARTIAL'),
		       COUNT(*) FILTER (WHERE status = 'UNFULFILLED'),
		       COUNT(*) FILTER (WHERE status = 'PENDING')
		FROM orders
		WHERE created_at >= $1
	`
	err := r.db.QueryRow(ctx, query, since).Scan(&stats.TotalOrders, &stats.FulfilledCount, &stats.PartialCount, &stats.UnfulfilledCount, &stats.PendingCount)
	if err != nil {
		return nil, err
	}
	processed := stats.FulfilledCount + stats.PartialCount + stats.UnfulfilledCount
	if processed > 0 {
		stats.FulfilledRate = float64(stats.FulfilledCount) / float64(processed)
		stats.PartialRate = float64(stats.PartialCount) / float64(processed)
		stats.UnfulfilledRate = float64(stats.UnfulfilledCount) / float64(processed)
	}
	return stats, nil
}

func (r *reportRepo) DemandTrends(ctx context.Context, since time.Time) ([]*models.DemandTrendPoint, error) {
	query := `
		SELECT date_trunc('day', o.created_at) AS day,
		       COALESCE(SUM(oi.quantity), 0) AS requested_qty,
		       COALESCE(SUM(oi.quantity), 0) - COALESCE(SUM(u.requested_qty - u.available_qty), 0) AS fulfilled_qty,
		       COALESCE(SUM(u.requested_qty - u.available_qty), 0) AS shortfall_qty
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		LEFT JOIN unfulfilled_items u ON u.order_id = o.id AND u.product_id = oi.product_id
		WHERE o.created_at >= $1
		GROUP BY day
		ORDER BY day ASC
	`
	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []*models.DemandTrendPoint
	for rows.Next() {
		pt := &models.DemandTrendPoint{}
		if err := rows.Scan(&pt.Day, &pt.RequestedQty, &pt.FulfilledQty, &pt.ShortfallQty); err != nil {
			return nil, err
		}
		points = append(points, pt)
	}
	return points, rows.Err()
}

func (r *reportRepo) DashboardStats(ctx context.Context, dayStart time.Time) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}
	query := `
		SELECT (SELECT COUNT(*) FROM visits WHERE timestamp >= $1),
		       (SELECT COUNT(*) FROM orders WHERE created_at >= $1),
		       (SELECT COUNT(*) FROM orders WHERE status = 'PENDING'),
		       (SELECT COUNT(DISTINCT salesman_id) FROM visits WHERE timestamp >= $1),
		       (SELECT COUNT(*) FROM stores),
		       (SELECT COUNT(*) FROM products)
	`
	err := r.db.QueryRow(ctx, query, dayStart).Scan(&stats.VisitsToday, &stats.OrdersToday, &stats.PendingOrders, &stats.ActiveSalesmen, &stats.TotalStores, &stats.TotalProducts)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *reportRepo) RecentActivity(ctx context.Context, limit int) ([]*models.Activity, error) {
	query := `
		SELECT kind, store_name, detail, ts FROM (
			SELECT 'visit' AS kind, s.name AS store_name, 'store visit' AS detail, v.timestamp AS ts
			FROM visits v JOIN stores s ON s.id = v.store_id
			UNION ALL
			SELECT 'order' AS kind, s.name AS store_name, 'order ' || lower(o.status::text) AS detail, o.updated_at AS ts
			FROM orders o JOIN stores s ON s.id = o.store_id
		) activity
		ORDER BY ts DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		a := &models.Activity{}
		if err := rows.Scan(&a.Kind, &a.StoreName, &a.Detail, &a.Timestamp); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
