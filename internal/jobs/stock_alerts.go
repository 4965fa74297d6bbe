package jobs

import (
	"context"
	"time"

	"fieldtrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// StockAlertService scans for central inventory running low and store
// batches approaching expiry. Findings are logged; nothing is mutated.
type StockAlertService struct {
	inventoryRepo repositories.InventoryRepository
	positionRepo  repositories.StockPositionRepository
	productRepo   repositories.ProductRepository
}

type LowStockAlert struct {
	ProductID    uuid.UUID
	ProductName  string
	CurrentStock int
	Threshold    int
}

type ExpiryAlert struct {
	PositionID  uuid.UUID
	StoreID     uuid.UUID
	ProductID   uuid.UUID
	BatchNumber *string
	ExpiryDate  time.Time
	Quantity    int
}

func NewStockAlertService(inventoryRepo repositories.InventoryRepository, positionRepo repositories.StockPositionRepository, productRepo repositories.ProductRepository) *StockAlertService {
	return &StockAlertService{
		inventoryRepo: inventoryRepo,
		positionRepo:  positionRepo,
		productRepo:   productRepo,
	}
}

// CheckLowStock returns one alert per inventory row at or below its
// configured threshold.
func (a *StockAlertService) CheckLowStock(ctx context.Context) ([]LowStockAlert, error) {
	inventories, err := a.inventoryRepo.ListBelowThreshold(ctx)
	if err != nil {
		return nil, err
	}

	var alerts []LowStockAlert
	for _, inv := range inventories {
		name := inv.ProductID.String()
		if product, err := a.productRepo.GetByID(ctx, inv.ProductID); err == nil {
			name = product.Name
		}
		alerts = append(alerts, LowStockAlert{
			ProductID:    inv.ProductID,
			ProductName:  name,
			CurrentStock: inv.Quantity,
			Threshold:    inv.LowStockThreshold,
		})
	}
	return alerts, nil
}

// CheckExpiringBatches returns positions whose expiry falls inside the
// window. Positions without an expiry date are never flagged.
func (a *StockAlertService) CheckExpiringBatches(ctx context.Context, window time.Duration) ([]ExpiryAlert, error) {
	cutoff := time.Now().UTC().Add(window)
	positions, err := a.positionRepo.ListExpiringBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	alerts := make([]ExpiryAlert, 0, len(positions))
	for _, position := range positions {
		alerts = append(alerts, ExpiryAlert{
			PositionID:  position.ID,
			StoreID:     position.StoreID,
			ProductID:   position.ProductID,
			BatchNumber: position.BatchNumber,
			ExpiryDate:  *position.ExpiryDate,
			Quantity:    position.Quantity,
		})
	}
	return alerts, nil
}

// RunScheduledScan is the gocron entrypoint: both scans, results logged.
func (a *StockAlertService) RunScheduledScan(ctx context.Context, expiryWindow time.Duration) error {
	lowStock, err := a.CheckLowStock(ctx)
	if err != nil {
		log.Error().Err(err).Msg("low stock scan failed")
		return err
	}
	for _, alert := range lowStock {
		log.Warn().
			Str("product_id", alert.ProductID.String()).
			Str("product", alert.ProductName).
			Int("quantity", alert.CurrentStock).
			Int("threshold", alert.Threshold).
			Msg("low central stock")
	}

	expiring, err := a.CheckExpiringBatches(ctx, expiryWindow)
	if err != nil {
		log.Error().Err(err).Msg("expiry scan failed")
		return err
	}
	for _, alert := range expiring {
		log.Warn().
			Str("position_id", alert.PositionID.String()).
			Str("store_id", alert.StoreID.String()).
			Str("product_id", alert.ProductID.String()).
			Str("batch", batchLabel(alert.BatchNumber)).
			Time("expiry", alert.ExpiryDate).
			Int("quantity", alert.Quantity).
			Msg("batch approaching expiry")
	}

	log.Info().
		Int("low_stock", len(lowStock)).
		Int("expiring", len(expiring)).
		Msg("stock alert scan completed")
	return nil
}

func batchLabel(batch *string) string {
	if batch == nil {
		return "(none)"
	}
	return *batch
}
