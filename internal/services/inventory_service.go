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

// InventoryService manages the central warehouse counts. Fulfillment
// decrements go through the FulfillmentService transaction, not here.
type InventoryService interface {
	GetByProductID(ctx context.Context, productID uuid.UUID) (*models.Inventory, error)
	SetQuantity(ctx context.Context, productID uuid.UUID, quantity, lowStockThreshold int) error
	List(ctx context.Context, limit, offset int) ([]*models.Inventory, error)
	LowStock(ctx context.Context) ([]*models.Inventory, error)
}

type inventoryService struct {
	inventoryRepo repositories.InventoryRepository
	productRepo   repositories.ProductRepository
	cacheService  caching.CacheService
}

func NewInventoryService(inventoryRepo repositories.InventoryRepository, productRepo repositories.ProductRepository, cacheService caching.CacheService) InventoryService {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
		cacheService:  cacheService,
	}
}

func (s *inventoryService) GetByProductID(ctx context.Context, productID uuid.UUID) (*models.Inventory, error) {
	if cached, err := s.cacheService.GetInventory(ctx, productID); err == nil && cached != nil {
		return cached, nil
	}

	inventory, err := s.inventoryRepo.GetByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cacheService.SetInventory(ctx, inventory, catalogCacheTTL); cacheErr != nil {
		log.Warn().Err(cacheErr).Str("product_id", productID.String()).Msg("failed to cache inventory")
	}
	return inventory, nil
}

func (s *inventoryService) SetQuantity(ctx context.Context, productID uuid.UUID, quantity, lowStockThreshold int) error {
	if quantity < 0 {
		return common.NewValidationError("quantity must not be negative")
	}
	if lowStockThreshold < 0 {
		return common.NewValidationError("low stock threshold must not be negative")
	}
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return err
	}

	inventory := &models.Inventory{
		ID:                uuid.New(),
		ProductID:         productID,
		Quantity:          quantity,
		LowStockThreshold: lowStockThreshold,
	}
	if err := s.inventoryRepo.Upsert(ctx, inventory); err != nil {
		return err
	}

	if cacheErr := s.cacheService.DeleteInventory(ctx, productID); cacheErr != nil {
		log.Warn().Err(cacheErr).Str("product_id", productID.String()).Msg("failed to invalidate inventory cache")
	}
	return nil
}

func (s *inventoryService) List(ctx context.Context, limit, offset int) ([]*models.Inventory, error) {
	return s.inventoryRepo.List(ctx, limit, offset)
}

func (s *inventoryService) LowStock(ctx context.Context) ([]*models.Inventory, error) {
	return s.inventoryRepo.ListBelowThreshold(ctx)
}
