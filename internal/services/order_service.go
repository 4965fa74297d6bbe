package services

import (
	"context"

	"fieldtrack/internal/common"
	"fieldtrack/internal/models"
	"fieldtrack/internal/repositories"

	"github.com/google/uuid"
)

type OrderService interface {
	// Create persists the order and its items atomically with PENDING status.
	Create(ctx context.Context, storeID, salesmanID uuid.UUID, items []models.OrderItemRequest) (*models.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, excludeFulfilled bool, limit, offset int) ([]*models.Order, error)
	ListUnfulfilledItems(ctx context.Context, orderID uuid.UUID) ([]*models.UnfulfilledItem, error)
	// ChangeStatus moves an order between PENDING and UNFULFILLED by hand.
	// FULFILLED and PARTIAL are reachable only through fulfillment, which is
	// the only path that touches inventory.
	ChangeStatus(ctx context.Context, orderID uuid.UUID, newStatus models.OrderStatus) (*models.Order, error)
}

type orderService struct {
	tx          repositories.TxManager
	orderRepo   repositories.OrderRepository
	storeRepo   repositories.StoreRepository
	productRepo repositories.ProductRepository
}

func NewOrderService(tx repositories.TxManager, orderRepo repositories.OrderRepository, storeRepo repositories.StoreRepository, productRepo repositories.ProductRepository) OrderService {
	return &orderService{
		tx:          tx,
		orderRepo:   orderRepo,
		storeRepo:   storeRepo,
		productRepo: productRepo,
	}
}

func (s *orderService) Create(ctx context.Context, storeID, salesmanID uuid.UUID, items []models.OrderItemRequest) (*models.Order, error) {
	if len(items) == 0 {
		return nil, common.NewValidationError("order must contain at least one item")
	}
	seen := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, common.NewValidationError("item quantity must be positive")
		}
		if seen[item.ProductID] {
			return nil, common.NewValidationError("duplicate product %s in order", item.ProductID)
		}
		seen[item.ProductID] = true
		if _, err := s.productRepo.GetByID(ctx, item.ProductID); err != nil {
			return nil, err
		}
	}
	if _, err := s.storeRepo.GetByID(ctx, storeID); err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:         uuid.New(),
		StoreID:    storeID,
		SalesmanID: salesmanID,
		Status:     models.OrderPending,
	}
	for _, item := range items {
		order.Items = append(order.Items, &models.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context, r *repositories.TxRepos) error {
		return r.Orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

func (s *orderService) ListByStore(ctx context.Context, storeID uuid.UUID, excludeFulfilled bool, limit, offset int) ([]*models.Order, error) {
	return s.orderRepo.ListByStore(ctx, storeID, excludeFulfilled, limit, offset)
}

func (s *orderService) ListUnfulfilledItems(ctx context.Context, orderID uuid.UUID) ([]*models.UnfulfilledItem, error) {
	if _, err := s.orderRepo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.orderRepo.ListUnfulfilledByOrder(ctx, orderID)
}

func (s *orderService) ChangeStatus(ctx context.Context, orderID uuid.UUID, newStatus models.OrderStatus) (*models.Order, error) {
	if newStatus != models.OrderPending && newStatus != models.OrderUnfulfilled {
		return nil, common.NewValidationError("use fulfillment operation for FULFILLED or PARTIAL")
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(ctx context.Context, r *repositories.TxRepos) error {
		var err error
		order, err = r.Orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status != models.OrderPending && order.Status != models.OrderUnfulfilled {
			return common.NewInvalidStateError("cannot change status of %s order by hand", order.Status)
		}
		if err := r.Orders.UpdateStatus(ctx, orderID, newStatus); err != nil {
			return err
		}
		order.Status = newStatus
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
