package jobs

import (
	"context"
	"testing"
	"time"

	"fieldtrack/internal/common"
	"fieldtrack/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type mockInventoryRepo struct {
	mock.Mock
}

func (m *mockInventoryRepo) Upsert(ctx context.Context, inventory *models.Inventory) error {
	args := m.Called(ctx, inventory)
	return args.Error(0)
}

func (m *mockInventoryRepo) GetByProductID(ctx context.Context, productID uuid.UUID) (*models.Inventory, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inventory), args.Error(1)
}

func (m *mockInventoryRepo) GetByProductIDForUpdate(ctx context.Context, productID uuid.UUID) (*models.Inventory, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inventory), args.Error(1)
}

func (m *mockInventoryRepo) SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) error {
	args := m.Called(ctx, productID, quantity)
	return args.Error(0)
}

func (m *mockInventoryRepo) Decrement(ctx context.Context, productID uuid.UUID, amount int) error {
	args := m.Called(ctx, productID, amount)
	return args.Error(0)
}

func (m *mockInventoryRepo) List(ctx context.Context, limit, offset int) ([]*models.Inventory, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Inventory), args.Error(1)
}

func (m *mockInventoryRepo) ListBelowThreshold(ctx context.Context) ([]*models.Inventory, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Inventory), args.Error(1)
}

type mockPositionRepo struct {
	mock.Mock
}

func (m *mockPositionRepo) Create(ctx context.Context, position *models.StockPosition) error {
	args := m.Called(ctx, position)
	return args.Error(0)
}

func (m *mockPositionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.StockPosition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockPosition), args.Error(1)
}

func (m *mockPositionRepo) Find(ctx context.Context, storeID, productID uuid.UUID, batchNumber *string, expiryDate *time.Time) (*models.StockPosition, error) {
	args := m.Called(ctx, storeID, productID, batchNumber, expiryDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockPosition), args.Error(1)
}

func (m *mockPositionRepo) SetQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *mockPositionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPositionRepo) ListByStore(ctx context.Context, storeID uuid.UUID) ([]*models.StockPosition, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]*models.StockPosition), args.Error(1)
}

func (m *mockPositionRepo) ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]*models.StockPosition, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]*models.StockPosition), args.Error(1)
}

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *mockProductRepo) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductRepo) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *mockProductRepo) Search(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Product), args.Error(1)
}

type StockAlertServiceTestSuite struct {
	suite.Suite
	inventoryRepo *mockInventoryRepo
	positionRepo  *mockPositionRepo
	productRepo   *mockProductRepo
	service       *StockAlertService
	ctx           context.Context
}

func (suite *StockAlertServiceTestSuite) SetupTest() {
	suite.inventoryRepo = new(mockInventoryRepo)
	suite.positionRepo = new(mockPositionRepo)
	suite.productRepo = new(mockProductRepo)
	suite.service = NewStockAlertService(suite.inventoryRepo, suite.positionRepo, suite.productRepo)
	suite.ctx = context.Background()
}

func TestStockAlertServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StockAlertServiceTestSuite))
}

func (suite *StockAlertServiceTestSuite) TestCheckLowStock_EnrichesProductName() {
	productID := uuid.New()
	suite.inventoryRepo.On("ListBelowThreshold", suite.ctx).Return([]*models.Inventory{
		{ProductID: productID, Quantity: 3, LowStockThreshold: 10},
	}, nil)
	suite.productRepo.On("GetByID", suite.ctx, productID).Return(&models.Product{ID: productID, Name: "Tea Dust 500g"}, nil)

	alerts, err := suite.service.CheckLowStock(suite.ctx)

	assert.NoError(suite.T(), err)
	if assert.Len(suite.T(), alerts, 1) {
		assert.Equal(suite.T(), "Tea Dust 500g", alerts[0].ProductName)
		assert.Equal(suite.T(), 3, alerts[0].CurrentStock)
		assert.Equal(suite.T(), 10, alerts[0].Threshold)
	}
}

func (suite *StockAlertServiceTestSuite) TestCheckLowStock_MissingProductFallsBackToID() {
	productID := uuid.New()
	suite.inventoryRepo.On("ListBelowThreshold", suite.ctx).Return([]*models.Inventory{
		{ProductID: productID, Quantity: 0, LowStockThreshold: 5},
	}, nil)
	suite.productRepo.On("GetByID", suite.ctx, productID).Return(nil, common.NewNotFoundError("product", productID.String()))

	alerts, err := suite.service.CheckLowStock(suite.ctx)

	assert.NoError(suite.T(), err)
	if assert.Len(suite.T(), alerts, 1) {
		assert.Equal(suite.T(), productID.String(), alerts[0].ProductName)
	}
}

func (suite *StockAlertServiceTestSuite) TestCheckExpiringBatches() {
	expiry := time.Now().UTC().Add(10 * 24 * time.Hour)
	batch := "B-0042"
	suite.positionRepo.On("ListExpiringBefore", suite.ctx, mock.AnythingOfType("time.Time")).Return([]*models.StockPosition{
		{ID: uuid.New(), StoreID: uuid.New(), ProductID: uuid.New(), Quantity: 8, BatchNumber: &batch, ExpiryDate: &expiry},
	}, nil)

	alerts, err := suite.service.CheckExpiringBatches(suite.ctx, 30*24*time.Hour)

	assert.NoError(suite.T(), err)
	if assert.Len(suite.T(), alerts, 1) {
		assert.Equal(suite.T(), expiry, alerts[0].ExpiryDate)
		assert.Equal(suite.T(), &batch, alerts[0].BatchNumber)
	}
}

func (suite *StockAlertServiceTestSuite) TestRunScheduledScan() {
	suite.inventoryRepo.On("ListBelowThreshold", suite.ctx).Return([]*models.Inventory{}, nil)
	suite.positionRepo.On("ListExpiringBefore", suite.ctx, mock.AnythingOfType("time.Time")).Return([]*models.StockPosition{}, nil)

	err := suite.service.RunScheduledScan(suite.ctx, 30*24*time.Hour)

	assert.NoError(suite.T(), err)
}
