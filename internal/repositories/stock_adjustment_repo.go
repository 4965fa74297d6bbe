package repositories

import (
	"context"

	"fieldtrack/internal/models"

	"github.com/google/uuid"
)

// StockAdjustmentRepository is append-only: adjustments are never updated
// or deleted once written.
type StockAdjustmentRepository interface {
	Append(ctx context.Context, adjustment *models.StockAdjustment) error
	ListByVisit(ctx context.Context, visitID uuid.UUID) ([]*models.StockAdjustment, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]*models.StockAdjustment, error)
}

type stockAdjustmentRepo struct {
	db DBTX
}

func NewStockAdjustmentRepo(db DBTX) StockAdjustmentRepository {
	return &stockAdjustmentRepo{db: db}
}

func (r *stockAdjustmentRepo) Append(ctx context.Context, adjustment *models.StockAdjustment) error {
	query := `
		INSERT INTO stock_adjustments (id, visit_id, store_id, product_id, quantity_change, reason, batch_number, expiry_date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`
	_, err := r.db.Exec(ctx, query, adjustment.ID, adjustment.VisitID, adjustment.StoreID, adjustment.ProductID, adjustment.QuantityChange, adjustment.Reason, adjustment.BatchNumber, adjustment.ExpiryDate, adjustment.Notes)
	return err
}

func (r *stockAdjustmentRepo) ListByVisit(ctx context.Context, visitID uuid.UUID) ([]*models.StockAdjustment, error) {
	query := `
		SELECT id, visit_id, store_id, product_id, quantity_change, reason, batch_number, expiry_date, notes, created_at
		FROM stock_adjustments
		WHERE visit_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, visitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var adjustments []*models.StockAdjustment
	for rows.Next() {
		adjustment := &models.StockAdjustment{}
		if err := rows.Scan(&adjustment.ID, &adjustment.VisitID, &adjustment.StoreID, &adjustment.ProductID, &adjustment.QuantityChange, &adjustment.Reason, &adjustment.BatchNumber, &adjustment.ExpiryDate, &adjustment.Notes, &adjustment.CreatedAt); err != nil {
			return nil, err
		}
		adjustments = append(adjustments, adjustment)
	}
	return adjustments, rows.Err()
}

func (r *stockAdjustmentRepo) ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]*models.StockAdjustment, error) {
	query := `
		SELECT id, visit_id, store_id, product_id, quantity_change, reason, batch_number, expiry_date, notes, created_at
		FROM stock_adjustments
		WHERE store_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, storeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var adjustments []*models.StockAdjustment
	for rows.Next() {
		adjustment := &models.StockAdjustment{}
		if err := rows.Scan(&adjustment.ID, &adjustment.VisitID, &adjustment.StoreID, &adjustment.ProductID, &adjustment.QuantityChange, &adjustment.Reason, &adjustment.BatchNumber, &adjustment.ExpiryDate, &adjustment.Notes, &adjustment.CreatedAt); err != nil {
			return nil, err
		}
		adjustments = append(adjustments, adjustment)
	}
	return adjustments, rows.Err()
}
