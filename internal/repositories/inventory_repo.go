package repositories

import (
	"context"
	"errors"

	"fieldtrack/internal/common"
	"fieldtrack/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type InventoryRepository interface {
	Upsert(ctx context.Context, inventory *models.Inventory) error
	GetByProductID(ctx context.Context, productID uuid.UUID) (*models.Inventory, error)
	// GetByProductIDForUpdate locks the inventory row for the duration of
	// the enclosing transaction. Only meaningful on a tx-bound repo.
	GetByProductIDForUpdate(ctx context.Context, productID uuid.UUID) (*models.Inventory, error)
	SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) error
	// Decrement performs the atomic decrement-if-sufficient update. It
	// never reads then writes: the availability check and the decrement
	// are one statement, so concurrent fulfillments cannot interleave a
	// lost update between them.
	Decrement(ctx context.Context, productID uuid.UUID, amount int) error
	List(ctx context.Context, limit, offset int) ([]*models.Inventory, error)
	ListBelowThreshold(ctx context.Context) ([]*models.Inventory, error)
}

type inventoryRepo struct {
	db DBTX
}

func NewInventoryRepo(db DBTX) InventoryRepository {
	return &inventoryRepo{db: db}
}

func (r *inventoryRepo) Upsert(ctx context.Context, inventory *models.Inventory) error {
	query := `
		INSERT INTO inventory (id, product_id, quantity, low_stock_threshold, last_updated)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (product_id) DO UPDATE SET quantity = EXCLUDED.quantity, low_stock_threshold = EXCLUDED.low_stock_threshold, last_updated = NOW()
	`
	_, err := r.db.Exec(ctx, query, inventory.ID, inventory.ProductID, inventory.Quantity, inventory.LowStockThreshold)
	return err
}

func (r *inventoryRepo) GetByProductID(ctx context.Context, productID uuid.UUID) (*models.Inventory, error) {
	inventory := &models.Inventory{}
	query := `
		SELECT id, product_id, quantity, low_stock_threshold, last_updated
		FROM inventory
		WHERE product_id = $1
	`
	err := r.db.QueryRow(ctx, query, productID).Scan(&inventory.ID, &inventory.ProductID, &inventory.Quantity, &inventory.LowStockThreshold, &inventory.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewNotFoundError("inventory", productID.String())
	}
	if err != nil {
		return nil, err
	}
	return inventory, nil
}

func (r *inventoryRepo) GetByProductIDForUpdate(ctx context.Context, productID uuid.UUID) (*models.Inventory, error) {
	inventory := &models.Inventory{}
	query := `
		SELECT id, product_id, quantity, low_stock_threshold, last_updated
		FROM inventory
		WHERE product_id = $1
		FOR UPDATE
	`
	err := r.db.QueryRow(ctx, query, productID).Scan(&inventory.ID, &inventory.ProductID, &inventory.Quantity, &inventory.LowStockThreshold, &inventory.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewNotFoundError("inventory", productID.String())
	}
	if err != nil {
		return nil, err
	}
	return inventory, nil
}

func (r *inventoryRepo) SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) error {
	query := `
		UPDATE inventory
		SET quantity = $2, last_updated = NOW()
		WHERE product_id = $1
	`
	tag, err := r.db.Exec(ctx, query, productID, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("inventory", productID.String())
	}
	return nil
}

func (r *inventoryRepo) Decrement(ctx context.Context, productID uuid.UUID, amount int) error {
	query := `
		UPDATE inventory
		SET quantity = quantity - $2, last_updated = NOW()
		WHERE product_id = $1 AND quantity >= $2
	`
	tag, err := r.db.Exec(ctx, query, productID, amount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &common.InsufficientStockError{ProductID: productID, Requested: amount}
	}
	return nil
}

func (r *inventoryRepo) List(ctx context.Context, limit, offset int) ([]*models.Inventory, error) {
	query := `
		SELECT id, product_id, quantity, low_stock_threshold, last_updated
		FROM inventory
		ORDER BY last_updated DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inventories []*models.Inventory
	for rows.Next() {
		inventory := &models.Inventory{}
		if err := rows.Scan(&inventory.ID, &inventory.ProductID, &inventory.Quantity, &inventory.LowStockThreshold, &inventory.LastUpdated); err != nil {
			return nil, err
		}
		inventories = append(inventories, inventory)
	}
	return inventories, rows.Err()
}

func (r *inventoryRepo) ListBelowThreshold(ctx context.Context) ([]*models.Inventory, error) {
	query := `
		SELECT id, product_id, quantity, low_stock_threshold, last_updated
		FROM inventory
		WHERE quantity <= low_stock_threshold
		ORDER BY quantity ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inventories []*models.Inventory
	for rows.Next() {
		inventory := &models.Inventory{}
		if err := rows.Scan(&inventory.ID, &inventory.ProductID, &inventory.Quantity, &inventory.LowStockThreshold, &inventory.LastUpdated); err != nil {
			return nil, err
		}
		inventories = append(inventories, inventory)
	}
	return inventories, rows.Err()
}
