package services

import (
	"context"
	"time"

	"fieldtrack/internal/common"
	"fieldtrack/internal/models"
	"fieldtrack/internal/repositories"

	"github.com/google/uuid"
)

// VisitService records store visits and reconciles store ledgers against
// observed counts. It never touches central inventory: field observations
// correct the store's own books only.
type VisitService interface {
	// CheckIn verifies the salesman's position against the store fence,
	// then records the visit and applies every stock line in one
	// transaction. A failed fence check writes nothing.
	CheckIn(ctx context.Context, salesmanID, storeID uuid.UUID, lat, lon float64, notes *string, lines []models.StockCountLine) (*models.Visit, error)
	// Reconcile is the single-line variant without a position report. It
	// creates its own visit.
	Reconcile(ctx context.Context, salesmanID, storeID uuid.UUID, line models.StockCountLine) (*models.Visit, error)
	// RestockNewBatch registers freshly delivered stock as a new position,
	// preserving batch identity even when an identical batch already sits
	// on the shelf.
	RestockNewBatch(ctx context.Context, salesmanID, storeID, productID uuid.UUID, quantity int, batchNumber *string, expiryDate *time.Time) (*models.Visit, error)
	GetVisit(ctx context.Context, id uuid.UUID) (*models.Visit, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]*models.Visit, error)
	ListAdjustments(ctx context.Context, visitID uuid.UUID) ([]*models.StockAdjustment, error)
}

type visitService struct {
	tx             repositories.TxManager
	storeRepo      repositories.StoreRepository
	visitRepo      repositories.VisitRepository
	adjustmentRepo repositories.StockAdjustmentRepository
	radiusMeters   float64
}

func NewVisitService(tx repositories.TxManager, storeRepo repositories.StoreRepository, visitRepo repositories.VisitRepository, adjustmentRepo repositories.StockAdjustmentRepository, radiusMeters float64) VisitService {
	return &visitService{
		tx:             tx,
		storeRepo:      storeRepo,
		visitRepo:      visitRepo,
		adjustmentRepo: adjustmentRepo,
		radiusMeters:   radiusMeters,
	}
}

func (s *visitService) CheckIn(ctx context.Context, salesmanID, storeID uuid.UUID, lat, lon float64, notes *string, lines []models.StockCountLine) (*models.Visit, error) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	// The fence is checked before any write. Stores without registered
	// coordinates accept check-ins from anywhere.
	if store.HasLocation() {
		distance := common.HaversineMeters(lat, lon, *store.Latitude, *store.Longitude)
		if distance > s.radiusMeters {
			return nil, &common.LocationError{DistanceMeters: distance, RadiusMeters: s.radiusMeters}
		}
	}
	for _, line := range lines {
		if line.Observed < 0 {
			return nil, common.NewValidationError("observed quantity must not be negative")
		}
		if line.Reason != nil && !line.Reason.Valid() {
			return nil, common.NewValidationError("unknown adjustment reason %q", *line.Reason)
		}
	}

	visit := &models.Visit{
		ID:         uuid.New(),
		SalesmanID: salesmanID,
		StoreID:    storeID,
		Timestamp:  time.Now().UTC(),
		Latitude:   &lat,
		Longitude:  &lon,
		Notes:      notes,
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context, r *repositories.TxRepos) error {
		if err := r.Visits.Create(ctx, visit); err != nil {
			return err
		}
		for _, line := range lines {
			if err := applyStockLine(ctx, r, visit, line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return visit, nil
}

func (s *visitService) Reconcile(ctx context.Context, salesmanID, storeID uuid.UUID, line models.StockCountLine) (*models.Visit, error) {
	if line.Observed < 0 {
		return nil, common.NewValidationError("observed quantity must not be negative")
	}
	if line.Reason != nil && !line.Reason.Valid() {
		return nil, common.NewValidationError("unknown adjustment reason %q", *line.Reason)
	}
	if _, err := s.storeRepo.GetByID(ctx, storeID); err != nil {
		return nil, err
	}

	visit := &models.Visit{
		ID:         uuid.New(),
		SalesmanID: salesmanID,
		StoreID:    storeID,
		Timestamp:  time.Now().UTC(),
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context, r *repositories.TxRepos) error {
		if err := r.Visits.Create(ctx, visit); err != nil {
			return err
		}
		return applyStockLine(ctx, r, visit, line)
	})
	if err != nil {
		return nil, err
	}
	return visit, nil
}

func (s *visitService) RestockNewBatch(ctx context.Context, salesmanID, storeID, productID uuid.UUID, quantity int, batchNumber *string, expiryDate *time.Time) (*models.Visit, error) {
	if quantity <= 0 {
		return nil, common.NewValidationError("restock quantity must be positive")
	}
	if _, err := s.storeRepo.GetByID(ctx, storeID); err != nil {
		return nil, err
	}

	visit := &models.Visit{
		ID:         uuid.New(),
		SalesmanID: salesmanID,
		StoreID:    storeID,
		Timestamp:  time.Now().UTC(),
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context, r *repositories.TxRepos) error {
		if err := r.Visits.Create(ctx, visit); err != nil {
			return err
		}
		position := &models.StockPosition{
			ID:          uuid.New(),
			StoreID:     storeID,
			ProductID:   productID,
			Quantity:    quantity,
			BatchNumber: batchNumber,
			ExpiryDate:  expiryDate,
		}
		if err := r.Positions.Create(ctx, position); err != nil {
			return err
		}
		adjustment := &models.StockAdjustment{
			ID:             uuid.New(),
			VisitID:        visit.ID,
			StoreID:        storeID,
			ProductID:      productID,
			QuantityChange: quantity,
			Reason:         models.ReasonRestock,
			BatchNumber:    batchNumber,
			ExpiryDate:     expiryDate,
		}
		return r.Adjustments.Append(ctx, adjustment)
	})
	if err != nil {
		return nil, err
	}
	return visit, nil
}

// applyStockLine reconciles one observed count: delta against the current
// exact-match position, an audit row when the delta is nonzero, and the
// position upserted to the observed value or deleted at zero.
func applyStockLine(ctx context.Context, r *repositories.TxRepos, visit *models.Visit, line models.StockCountLine) error {
	current := 0
	position, err := r.Positions.Find(ctx, visit.StoreID, line.ProductID, line.BatchNumber, line.ExpiryDate)
	if err != nil && !common.IsNotFound(err) {
		return err
	}
	if position != nil {
		current = position.Quantity
	}

	delta := line.Observed - current
	if delta != 0 {
		reason := models.ReasonCountCorrection
		if line.Reason != nil {
			reason = *line.Reason
		}
		adjustment := &models.StockAdjustment{
			ID:             uuid.New(),
			VisitID:        visit.ID,
			StoreID:        visit.StoreID,
			ProductID:      line.ProductID,
			QuantityChange: delta,
			Reason:         reason,
			BatchNumber:    line.BatchNumber,
			ExpiryDate:     line.ExpiryDate,
			Notes:          line.Notes,
		}
		if err := r.Adjustments.Append(ctx, adjustment); err != nil {
			return err
		}
	}

	switch {
	case line.Observed == 0 && position != nil:
		return r.Positions.Delete(ctx, position.ID)
	case line.Observed == 0:
		return nil
	case position != nil:
		if delta == 0 {
			return nil
		}
		return r.Positions.SetQuantity(ctx, position.ID, line.Observed)
	default:
		fresh := &models.StockPosition{
			ID:          uuid.New(),
			StoreID:     visit.StoreID,
			ProductID:   line.ProductID,
			Quantity:    line.Observed,
			BatchNumber: line.BatchNumber,
			ExpiryDate:  line.ExpiryDate,
		}
		return r.Positions.Create(ctx, fresh)
	}
}

func (s *visitService) GetVisit(ctx context.Context, id uuid.UUID) (*models.Visit, error) {
	return s.visitRepo.GetByID(ctx, id)
}

func (s *visitService) ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]*models.Visit, error) {
	return s.visitRepo.ListByStore(ctx, storeID, limit, offset)
}

func (s *visitService) ListAdjustments(ctx context.Context, visitID uuid.UUID) ([]*models.StockAdjustment, error) {
	if _, err := s.visitRepo.GetByID(ctx, visitID); err != nil {
		return nil, err
	}
	return s.adjustmentRepo.ListByVisit(ctx, visitID)
}
