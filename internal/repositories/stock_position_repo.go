package repositories

import (
	"context"
	"errors"
	"time"

	"fieldtrack/internal/common"
	"fieldtrack/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type StockPositionRepository interface {
	// Create always inserts a fresh position row, even when one exists for
	// the same (store, product). Allocation and restock events preserve
	// batch identity instead of merging.
	Create(ctx context.Context, position *models.StockPosition) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.StockPosition, error)
	// Find matches the exact (store, product, batch, expiry) combination;
	// nil batch/expiry match only rows where the column is NULL.
	Find(ctx context.Context, storeID, productID uuid.UUID, batchNumber *string, expiryDate *time.Time) (*models.StockPosition, error)
	SetQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]*models.StockPosition, error)
	ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]*models.StockPosition, error)
}

type stockPositionRepo struct {
	db DBTX
}

func NewStockPositionRepo(db DBTX) StockPositionRepository {
	return &stockPositionRepo{db: db}
}

func (r *stockPositionRepo) Create(ctx context.Context, position *models.StockPosition) error {
	query := `
		INSERT INTO stock_positions (id, store_id, product_id, quantity, batch_number, expiry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, position.ID, position.StoreID, position.ProductID, position.Quantity, position.BatchNumber, position.ExpiryDate)
	return err
}

func (r *stockPositionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.StockPosition, error) {
	position := &models.StockPosition{}
	query := `
		SELECT id, store_id, product_id, quantity, batch_number, expiry_date, created_at, updated_at
		FROM stock_positions
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&position.ID, &position.StoreID, &position.ProductID, &position.Quantity, &position.BatchNumber, &position.ExpiryDate, &position.CreatedAt, &position.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewNotFoundError("stock position", id.String())
	}
	if err != nil {
		return nil, err
	}
	return position, nil
}

func (r *stockPositionRepo) Find(ctx context.Context, storeID, productID uuid.UUID, batchNumber *string, expiryDate *time.Time) (*models.StockPosition, error) {
	position := &models.StockPosition{}
	query := `
		SELECT id, store_id, product_id, quantity, batch_number, expiry_date, created_at, updated_at
		FROM stock_positions
		WHERE store_id = $1 AND product_id = $2
		  AND batch_number IS NOT DISTINCT FROM $3
		  AND expiry_date IS NOT DISTINCT FROM $4
	`
	err := r.db.QueryRow(ctx, query, storeID, productID, batchNumber, expiryDate).Scan(&position.ID, &position.StoreID, &position.ProductID, &position.Quantity, &position.BatchNumber, &position.ExpiryDate, &position.CreatedAt, &position.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewNotFoundError("stock position", "")
	}
	if err != nil {
		return nil, err
	}
	return position, nil
}

func (r *stockPositionRepo) SetQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	query := `
		UPDATE stock_positions
		SET quantity = $2, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, id, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("stock position", id.String())
	}
	return nil
}

func (r *stockPositionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM stock_positions WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("stock position", id.String())
	}
	return nil
}

func (r *stockPositionRepo) ListByStore(ctx context.Context, storeID uuid.UUID) ([]*models.StockPosition, error) {
	query := `
		SELECT id, store_id, product_id, quantity, batch_number, expiry_date, created_at, updated_at
		FROM stock_positions
		WHERE store_id = $1
		ORDER BY product_id, expiry_date NULLS LAST
	`
	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPositions(rows)
}

func (r *stockPositionRepo) ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]*models.StockPosition, error) {
	query := `
		SELECT id, store_id, product_id, quantity, batch_number, expiry_date, created_at, updated_at
		FROM stock_positions
		WHERE expiry_date IS NOT NULL AND expiry_date <= $1 AND quantity > 0
		ORDER BY expiry_date ASC
	`
	rows, err := r.db.Query(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPositions(rows)
}

func scanPositions(rows pgx.Rows) ([]*models.StockPosition, error) {
	var positions []*models.StockPosition
	for rows.Next() {
		position := &models.StockPosition{}
		if err := rows.Scan(&position.ID, &position.StoreID, &position.ProductID, &position.Quantity, &position.BatchNumber, &position.ExpiryDate, &position.CreatedAt, &position.UpdatedAt); err != nil {
			return nil, err
		}
		positions = append(positions, position)
	}
	return positions, rows.Err()
}
