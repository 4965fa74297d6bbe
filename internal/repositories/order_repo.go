package repositories

import (
	"context"
	"errors"

	"fieldtrack/internal/common"
	"fieldtrack/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	// Create persists the order and all its items. Callers run it inside a
	// transaction so the order never exists without its lines.
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// GetByIDForUpdate locks the order row until the enclosing transaction
	// ends. The fulfillment engine uses it to re-check the status inside
	// the transaction, closing the race between check and act.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
	ListByStore(ctx context.Context, storeID uuid.UUID, excludeFulfilled bool, limit, offset int) ([]*models.Order, error)
	AppendUnfulfilledItem(ctx context.Context, item *models.UnfulfilledItem) error
	ListUnfulfilledByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.UnfulfilledItem, error)
}

type orderRepo struct {
	db DBTX
}

func NewOrderRepo(db DBTX) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, store_id, salesman_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	if _, err := r.db.Exec(ctx, query, order.ID, order.StoreID, order.SalesmanID, order.Status); err != nil {
		return err
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	for _, item := range order.Items {
		if _, err := r.db.Exec(ctx, itemQuery, item.ID, item.OrderID, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order := &models.Order{}
	query := `
		SELECT id, store_id, salesman_id, status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&order.ID, &order.StoreID, &order.SalesmanID, &order.Status, &order.CreatedAt, &order.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewNotFoundError("order", id.String())
	}
	if err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *orderRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order := &models.Order{}
	query := `
		SELECT id, store_id, salesman_id, status, created_at, updated_at
		FROM orders
		WHERE id = $1
		FOR UPDATE
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&order.ID, &order.StoreID, &order.SalesmanID, &order.Status, &order.CreatedAt, &order.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewNotFoundError("order", id.String())
	}
	if err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *orderRepo) listItems(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("order", id.String())
	}
	return nil
}

func (r *orderRepo) ListByStore(ctx context.Context, storeID uuid.UUID, excludeFulfilled bool, limit, offset int) ([]*models.Order, error) {
	query := `
		SELECT id, store_id, salesman_id, status, created_at, updated_at
		FROM orders
		WHERE store_id = $1
	`
	if excludeFulfilled {
		query += ` AND status <> 'FULFILLED'`
	}
	query += `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, storeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.StoreID, &order.SalesmanID, &order.Status, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range orders {
		items, err := r.listItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}
	return orders, nil
}

func (r *orderRepo) AppendUnfulfilledItem(ctx context.Context, item *models.UnfulfilledItem) error {
	query := `
		INSERT INTO unfulfilled_items (id, order_id, store_id, product_id, requested_qty, available_qty, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.OrderID, item.StoreID, item.ProductID, item.RequestedQty, item.AvailableQty)
	return err
}

func (r *orderRepo) ListUnfulfilledByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.UnfulfilledItem, error) {
	query := `
		SELECT id, order_id, store_id, product_id, requested_qty, available_qty, created_at
		FROM unfulfilled_items
		WHERE order_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.UnfulfilledItem
	for rows.Next() {
		item := &models.UnfulfilledItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.StoreID, &item.ProductID, &item.RequestedQty, &item.AvailableQty, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
