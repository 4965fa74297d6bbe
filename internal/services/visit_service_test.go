package services

import (
	"context"
	"testing"
	"time"

	"fieldtrack/internal/common"
	"fieldtrack/internal/models"
	"fieldtrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type VisitServiceTestSuite struct {
	suite.Suite
	storeRepo      *MockStoreRepository
	visitRepo      *MockVisitRepository
	adjustmentRepo *MockStockAdjustmentRepository
	positionRepo   *MockStockPositionRepository
	txVisitRepo    *MockVisitRepository
	tx             *stubTxManager
	service        VisitService
	ctx            context.Context

	storeID    uuid.UUID
	salesmanID uuid.UUID
	productID  uuid.UUID
}

// Kochi, well inside and well outside a 200m fence.
const (
	storeLat = 9.9312
	storeLon = 76.2673
)

func (suite *VisitServiceTestSuite) SetupTest() {
	suite.storeRepo = new(MockStoreRepository)
	suite.visitRepo = new(MockVisitRepository)
	suite.adjustmentRepo = new(MockStockAdjustmentRepository)
	suite.positionRepo = new(MockStockPositionRepository)
	suite.txVisitRepo = new(MockVisitRepository)
	suite.tx = newStubTxManager(&repositories.TxRepos{
		Orders:      new(MockOrderRepository),
		Inventory:   new(MockInventoryRepository),
		Positions:   suite.positionRepo,
		Adjustments: suite.adjustmentRepo,
		Visits:      suite.txVisitRepo,
	})
	suite.service = NewVisitService(suite.tx, suite.storeRepo, suite.visitRepo, suite.adjustmentRepo, 200)
	suite.ctx = context.Background()

	suite.storeID = uuid.New()
	suite.salesmanID = uuid.New()
	suite.productID = uuid.New()
}

func TestVisitServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VisitServiceTestSuite))
}

func nilTime() *time.Time {
	return nil
}

func (suite *VisitServiceTestSuite) fencedStore() *models.Store {
	lat, lon := storeLat, storeLon
	return &models.Store{ID: suite.storeID, Name: "Fort Kochi General", Latitude: &lat, Longitude: &lon}
}

func (suite *VisitServiceTestSuite) unfencedStore() *models.Store {
	return &models.Store{ID: suite.storeID, Name: "Pop-up Stall"}
}

func (suite *VisitServiceTestSuite) TestCheckIn_InsideFence() {
	suite.storeRepo.On("GetByID", suite.ctx, suite.storeID).Return(suite.fencedStore(), nil)
	suite.txVisitRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Visit")).Return(nil)

	// ~55m east of the store.
	visit, err := suite.service.CheckIn(suite.ctx, suite.salesmanID, suite.storeID, storeLat, storeLon+0.0005, nil, nil)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.storeID, visit.StoreID)
	assert.Equal(suite.T(), suite.salesmanID, visit.SalesmanID)
	assert.NotNil(suite.T(), visit.Latitude)
}

func (suite *VisitServiceTestSuite) TestCheckIn_OutsideFenceWritesNothing() {
	suite.storeRepo.On("GetByID", suite.ctx, suite.storeID).Return(suite.fencedStore(), nil)

	// ~1.1km north of the store.
	_, err := suite.service.CheckIn(suite.ctx, suite.salesmanID, suite.storeID, storeLat+0.01, storeLon, nil, nil)

	var locErr *common.LocationError
	if assert.ErrorAs(suite.T(), err, &locErr) {
		assert.Greater(suite.T(), locErr.DistanceMeters, 200.0)
		assert.Equal(suite.T(), 200.0, locErr.RadiusMeters)
	}
	assert.Equal(suite.T(), 0, suite.tx.calls)
	suite.txVisitRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *VisitServiceTestSuite) TestCheckIn_StoreWithoutCoordinatesAcceptsAnywhere() {
	suite.storeRepo.On("GetByID", suite.ctx, suite.storeID).Return(suite.unfencedStore(), nil)
	suite.txVisitRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Visit")).Return(nil)

	_, err := suite.service.CheckIn(suite.ctx, suite.salesmanID, suite.storeID, 48.8566, 2.3522, nil, nil)

	assert.NoError(suite.T(), err)
}

func (suite *VisitServiceTestSuite) TestCheckIn_NegativeObservedRejected() {
	suite.storeRepo.On("GetByID", suite.ctx, suite.storeID).Return(suite.unfencedStore(), nil)

	lines := []models.StockCountLine{{ProductID: suite.productID, Observed: -1}}
	_, err := suite.service.CheckIn(suite.ctx, suite.salesmanID, suite.storeID, storeLat, storeLon, nil, lines)

	assert.True(suite.T(), common.IsValidation(err))
	assert.Equal(suite.T(), 0, suite.tx.calls)
}

func (suite *VisitServiceTestSuite) TestCheckIn_AppliesStockLines() {
	suite.storeRepo.On("GetByID", suite.ctx, suite.storeID).Return(suite.unfencedStore(), nil)
	suite.txVisitRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Visit")).Return(nil)

	existing := &models.StockPosition{ID: uuid.New(), StoreID: suite.storeID, ProductID: suite.productID, Quantity: 10}
	suite.positionRepo.On("Find", suite.ctx, suite.storeID, suite.productID, (*string)(nil), nilTime()).Return(existing, nil)

	var adjustment *models.StockAdjustment
	suite.adjustmentRepo.On("Append", suite.ctx, mock.AnythingOfType("*models.StockAdjustment")).
		Run(func(args mock.Arguments) {
			adjustment = args.Get(1).(*models.StockAdjustment)
		}).Return(nil)
	suite.positionRepo.On("SetQuantity", suite.ctx, existing.ID, 7).Return(nil)

	lines := []models.StockCountLine{{ProductID: suite.productID, Observed: 7}}
	_, err := suite.service.CheckIn(suite.ctx, suite.salesmanID, suite.storeID, storeLat, storeLon, nil, lines)

	assert.NoError(suite.T(), err)
	if assert.NotNil(suite.T(), adjustment) {
		assert.Equal(suite.T(), -3, adjustment.QuantityChange)
		assert.Equal(suite.T(), models.ReasonCountCorrection, adjustment.Reason)
	}
}

func (suite *VisitServiceTestSuite) TestReconcile_MatchingCountLeavesPositionAlone() {
	suite.storeRepo.On("GetByID", suite.ctx, suite.storeID).Return(suite.unfencedStore(), nil)
	suite.txVisitRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Visit")).Return(nil)

	existing := &models.StockPosition{ID: uuid.New(), StoreID: suite.storeID, ProductID: suite.productID, Quantity: 5}
	suite.positionRepo.On("Find", suite.ctx, suite.storeID, suite.productID, (*string)(nil), nilTime()).Return(existing, nil)

	_, err := suite.service.Reconcile(suite.ctx, suite.salesmanID, suite.storeID, models.StockCountLine{ProductID: suite.productID, Observed: 5})

	assert.NoError(suite.T(), err)
	suite.adjustmentRepo.AssertNotCalled(suite.T(), "Append", mock.Anything, mock.Anything)
	suite.positionRepo.AssertNotCalled(suite.T(), "SetQuantity", mock.Anything, mock.Anything, mock.Anything)
	suite.positionRepo.AssertNotCalled(suite.T(), "Delete", mock.Anything, mock.Anything)
}

func (suite *VisitServiceTestSuite) TestReconcile_ZeroObservedDeletesPosition() {
	suite.storeRepo.On("GetByID", suite.ctx, suite.storeID).Return(suite.unfencedStore(), nil)
	suite.txVisitRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Visit")).Return(nil)

	existing := &models.StockPosition{ID: uuid.New(), StoreID: suite.storeID, ProductID: suite.productID, Quantity: 4}
	suite.positionRepo.On("Find", suite.ctx, suite.storeID, suite.productID, (*string)(nil), nilTime()).Return(existing, nil)
	suite.adjustmentRepo.On("Append", suite.ctx, mock.AnythingOfType("*models.StockAdjustment")).Return(nil)
	suite.positionRepo.On("Delete", suite.ctx, existing.ID).Return(nil)

	_, err := suite.service.Reconcile(suite.ctx, suite.salesmanID, suite.storeID, models.StockCountLine{ProductID: suite.productID, Observed: 0})

	assert.NoError(suite.T(), err)
	suite.positionRepo.AssertCalled(suite.T(), "Delete", suite.ctx, existing.ID)
}

func (suite *VisitServiceTestSuite) TestReconcile_NewPositionCreatedWhenNoneMatches() {
	suite.storeRepo.On("GetByID", suite.ctx, suite.storeID).Return(suite.unfencedStore(), nil)
	suite.txVisitRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Visit")).Return(nil)
	suite.positionRepo.On("Find", suite.ctx, suite.storeID, suite.productID, (*string)(nil), nilTime()).
		Return(nil, common.NewNotFoundError("stock position", ""))

	reason := models.ReasonReturn
	var adjustment *models.StockAdjustment
	suite.adjustmentRepo.On("Append", suite.ctx, mock.AnythingOfType("*models.StockAdjustment")).
		Run(func(args mock.Arguments) {
			adjustment = args.Get(1).(*models.StockAdjustment)
		}).Return(nil)

	var created *models.StockPosition
	suite.positionRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.StockPosition")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.StockPosition)
		}).Return(nil)

	_, err := suite.service.Reconcile(suite.ctx, suite.salesmanID, suite.storeID, models.StockCountLine{ProductID: suite.productID, Observed: 6, Reason: &reason})

	assert.NoError(suite.T(), err)
	if assert.NotNil(suite.T(), adjustment) {
		assert.Equal(suite.T(), 6, adjustment.QuantityChange)
		assert.Equal(suite.T(), models.ReasonReturn, adjustment.Reason)
	}
	if assert.NotNil(suite.T(), created) {
		assert.Equal(suite.T(), 6, created.Quantity)
	}
}

func (suite *VisitServiceTestSuite) TestRestockNewBatch_AlwaysCreatesFreshPosition() {
	suite.storeRepo.On("GetByID", suite.ctx, suite.storeID).Return(suite.unfencedStore(), nil)
	suite.txVisitRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Visit")).Return(nil)

	var created *models.StockPosition
	suite.positionRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.StockPosition")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.StockPosition)
		}).Return(nil)

	var adjustment *models.StockAdjustment
	suite.adjustmentRepo.On("Append", suite.ctx, mock.AnythingOfType("*models.StockAdjustment")).
		Run(func(args mock.Arguments) {
			adjustment = args.Get(1).(*models.StockAdjustment)
		}).Return(nil)

	batch := "B-2026-08"
	visit, err := suite.service.RestockNewBatch(suite.ctx, suite.salesmanID, suite.storeID, suite.productID, 24, &batch, nil)

	assert.NoError(suite.T(), err)
	// No Find: identical batches on the shelf still get their own position.
	suite.positionRepo.AssertNotCalled(suite.T(), "Find", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	if assert.NotNil(suite.T(), created) {
		assert.Equal(suite.T(), 24, created.Quantity)
		assert.Equal(suite.T(), &batch, created.BatchNumber)
	}
	if assert.NotNil(suite.T(), adjustment) {
		assert.Equal(suite.T(), models.ReasonRestock, adjustment.Reason)
		assert.Equal(suite.T(), visit.ID, adjustment.VisitID)
	}
}

func (suite *VisitServiceTestSuite) TestRestockNewBatch_NonPositiveQuantityRejected() {
	_, err := suite.service.RestockNewBatch(suite.ctx, suite.salesmanID, suite.storeID, suite.productID, 0, nil, nil)

	assert.True(suite.T(), common.IsValidation(err))
	suite.storeRepo.AssertNotCalled(suite.T(), "GetByID", mock.Anything, mock.Anything)
}

func (suite *VisitServiceTestSuite) TestListAdjustments_UnknownVisit() {
	visitID := uuid.New()
	suite.visitRepo.On("GetByID", suite.ctx, visitID).Return(nil, common.NewNotFoundError("visit", visitID.String()))

	_, err := suite.service.ListAdjustments(suite.ctx, visitID)

	assert.True(suite.T(), common.IsNotFound(err))
	suite.adjustmentRepo.AssertNotCalled(suite.T(), "ListByVisit", mock.Anything, mock.Anything)
}
