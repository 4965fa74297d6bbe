package services

import (
	"context"

	"fieldtrack/internal/caching"
	"fieldtrack/internal/common"
	"fieldtrack/internal/models"
	"fieldtrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FulfillmentService runs the allocation transaction that moves stock from
// central inventory to store positions. It is the only writer of FULFILLED
// and PARTIAL statuses.
type FulfillmentService interface {
	// Fulfill allocates stock to a pending order inside one transaction.
	// plan maps productID to the quantity to allocate; order items absent
	// from the plan get zero. strict requires every item to be allocated in
	// full, otherwise the whole attempt is rejected. Any error rolls back
	// every write: inventory, positions, shortfall rows and status.
	Fulfill(ctx context.Context, orderID uuid.UUID, plan map[uuid.UUID]int, strict bool) (*models.Order, error)
}

type fulfillmentService struct {
	tx           repositories.TxManager
	cacheService caching.CacheService
}

func NewFulfillmentService(tx repositories.TxManager, cacheService caching.CacheService) FulfillmentService {
	return &fulfillmentService{
		tx:           tx,
		cacheService: cacheService,
	}
}

func (s *fulfillmentService) Fulfill(ctx context.Context, orderID uuid.UUID, plan map[uuid.UUID]int, strict bool) (*models.Order, error) {
	var order *models.Order
	var touched []uuid.UUID

	err := s.tx.WithTx(ctx, func(ctx context.Context, r *repositories.TxRepos) error {
		var err error
		// Status is re-checked under the row lock: two concurrent attempts
		// serialize here and the second sees a terminal status.
		order, err = r.Orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status != models.OrderPending {
			return common.NewInvalidStateError("can only fulfill pending orders")
		}

		onOrder := make(map[uuid.UUID]bool, len(order.Items))
		for _, item := range order.Items {
			onOrder[item.ProductID] = true
		}
		for productID := range plan {
			if !onOrder[productID] {
				return common.NewValidationError("product %s is not on the order", productID)
			}
		}

		fullCount := 0
		zeroCount := 0
		for _, item := range order.Items {
			allocated := plan[item.ProductID]
			if allocated < 0 {
				return common.NewValidationError("allocation for product %s must not be negative", item.ProductID)
			}
			if allocated > item.Quantity {
				return common.NewValidationError("allocation %d exceeds requested %d for product %s", allocated, item.Quantity, item.ProductID)
			}

			if allocated > 0 {
				available := 0
				inventory, err := r.Inventory.GetByProductIDForUpdate(ctx, item.ProductID)
				if err == nil {
					available = inventory.Quantity
				} else if !common.IsNotFound(err) {
					return err
				}
				if allocated > available {
					return common.NewValidationError("allocation %d exceeds available %d for product %s", allocated, available, item.ProductID)
				}
			}
			if strict && allocated != item.Quantity {
				return common.NewInvalidStateError("cannot mark fulfilled: not all items satisfied")
			}

			if allocated > 0 {
				if err := r.Inventory.Decrement(ctx, item.ProductID, allocated); err != nil {
					return err
				}
				position := &models.StockPosition{
					ID:        uuid.New(),
					StoreID:   order.StoreID,
					ProductID: item.ProductID,
					Quantity:  allocated,
				}
				if err := r.Positions.Create(ctx, position); err != nil {
					return err
				}
				touched = append(touched, item.ProductID)
			}

			if allocated < item.Quantity {
				shortfall := &models.UnfulfilledItem{
					ID:           uuid.New(),
					OrderID:      order.ID,
					StoreID:      order.StoreID,
					ProductID:    item.ProductID,
					RequestedQty: item.Quantity,
					AvailableQty: allocated,
				}
				if err := r.Orders.AppendUnfulfilledItem(ctx, shortfall); err != nil {
					return err
				}
			}

			switch allocated {
			case item.Quantity:
				fullCount++
			case 0:
				zeroCount++
			}
		}

		status := models.OrderPartial
		switch {
		case fullCount == len(order.Items):
			status = models.OrderFulfilled
		case zeroCount == len(order.Items):
			status = models.OrderUnfulfilled
		}
		if err := r.Orders.UpdateStatus(ctx, order.ID, status); err != nil {
			return err
		}
		order.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, productID := range touched {
		if cacheErr := s.cacheService.DeleteInventory(ctx, productID); cacheErr != nil {
			log.Warn().Err(cacheErr).Str("product_id", productID.String()).Msg("failed to invalidate inventory cache")
		}
	}
	return order, nil
}
