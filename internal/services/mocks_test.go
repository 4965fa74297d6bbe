package services

import (
	"context"
	"io"
	"time"

	"fieldtrack/internal/models"
	"fieldtrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock repositories and services shared across the service tests.

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) Search(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Product), args.Error(1)
}

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) Upsert(ctx context.Context, inventory *models.Inventory) error {
	args := m.Called(ctx, inventory)
	return args.Error(0)
}

func (m *MockInventoryRepository) GetByProductID(ctx context.Context, productID uuid.UUID) (*models.Inventory, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) GetByProductIDForUpdate(ctx context.Context, productID uuid.UUID) (*models.Inventory, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) error {
	args := m.Called(ctx, productID, quantity)
	return args.Error(0)
}

func (m *MockInventoryRepository) Decrement(ctx context.Context, productID uuid.UUID, amount int) error {
	args := m.Called(ctx, productID, amount)
	return args.Error(0)
}

func (m *MockInventoryRepository) List(ctx context.Context, limit, offset int) ([]*models.Inventory, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) ListBelowThreshold(ctx context.Context) ([]*models.Inventory, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Inventory), args.Error(1)
}

type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) Create(ctx context.Context, store *models.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

func (m *MockStoreRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Store), args.Error(1)
}

func (m *MockStoreRepository) Update(ctx context.Context, store *models.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

func (m *MockStoreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStoreRepository) List(ctx context.Context, limit, offset int) ([]*models.Store, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Store), args.Error(1)
}

type MockStockPositionRepository struct {
	mock.Mock
}

func (m *MockStockPositionRepository) Create(ctx context.Context, position *models.StockPosition) error {
	args := m.Called(ctx, position)
	return args.Error(0)
}

func (m *MockStockPositionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.StockPosition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockPosition), args.Error(1)
}

func (m *MockStockPositionRepository) Find(ctx context.Context, storeID, productID uuid.UUID, batchNumber *string, expiryDate *time.Time) (*models.StockPosition, error) {
	args := m.Called(ctx, storeID, productID, batchNumber, expiryDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockPosition), args.Error(1)
}

func (m *MockStockPositionRepository) SetQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *MockStockPositionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStockPositionRepository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]*models.StockPosition, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]*models.StockPosition), args.Error(1)
}

func (m *MockStockPositionRepository) ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]*models.StockPosition, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]*models.StockPosition), args.Error(1)
}

type MockStockAdjustmentRepository struct {
	mock.Mock
}

func (m *MockStockAdjustmentRepository) Append(ctx context.Context, adjustment *models.StockAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

func (m *MockStockAdjustmentRepository) ListByVisit(ctx context.Context, visitID uuid.UUID) ([]*models.StockAdjustment, error) {
	args := m.Called(ctx, visitID)
	return args.Get(0).([]*models.StockAdjustment), args.Error(1)
}

func (m *MockStockAdjustmentRepository) ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]*models.StockAdjustment, error) {
	args := m.Called(ctx, storeID, limit, offset)
	return args.Get(0).([]*models.StockAdjustment), args.Error(1)
}

type MockVisitRepository struct {
	mock.Mock
}

func (m *MockVisitRepository) Create(ctx context.Context, visit *models.Visit) error {
	args := m.Called(ctx, visit)
	return args.Error(0)
}

func (m *MockVisitRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Visit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Visit), args.Error(1)
}

func (m *MockVisitRepository) ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]*models.Visit, error) {
	args := m.Called(ctx, storeID, limit, offset)
	return args.Get(0).([]*models.Visit), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) ListByStore(ctx context.Context, storeID uuid.UUID, excludeFulfilled bool, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, storeID, excludeFulfilled, limit, offset)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) AppendUnfulfilledItem(ctx context.Context, item *models.UnfulfilledItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockOrderRepository) ListUnfulfilledByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.UnfulfilledItem, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]*models.UnfulfilledItem), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Upsert(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.User), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	args := m.Called(ctx, product, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *MockCacheService) GetInventory(ctx context.Context, productID uuid.UUID) (*models.Inventory, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inventory), args.Error(1)
}

func (m *MockCacheService) SetInventory(ctx context.Context, inventory *models.Inventory, ttl time.Duration) error {
	args := m.Called(ctx, inventory, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteInventory(ctx context.Context, productID uuid.UUID) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) UploadReport(ctx context.Context, objectName string, reader io.Reader, objectSize int64) error {
	args := m.Called(ctx, objectName, reader, objectSize)
	return args.Error(0)
}

func (m *MockStorageService) GetPresignedURL(objectName string, expiry time.Duration) (string, error) {
	args := m.Called(objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockStorageService) EnsureBucketExists(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) StoreShortfalls(ctx context.Context, since time.Time) ([]*models.StoreShortfall, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]*models.StoreShortfall), args.Error(1)
}

func (m *MockReportRepository) ProductShortages(ctx context.Context, since time.Time, limit int) ([]*models.ProductShortage, error) {
	args := m.Called(ctx, since, limit)
	return args.Get(0).([]*models.ProductShortage), args.Error(1)
}

func (m *MockReportRepository) FulfillmentStats(ctx context.Context, since time.Time) (*models.FulfillmentStats, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FulfillmentStats), args.Error(1)
}

func (m *MockReportRepository) DemandTrends(ctx context.Context, since time.Time) ([]*models.DemandTrendPoint, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]*models.DemandTrendPoint), args.Error(1)
}

func (m *MockReportRepository) DashboardStats(ctx context.Context, dayStart time.Time) (*models.DashboardStats, error) {
	args := m.Called(ctx, dayStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardStats), args.Error(1)
}

func (m *MockReportRepository) RecentActivity(ctx context.Context, limit int) ([]*models.Activity, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*models.Activity), args.Error(1)
}

// stubTxManager runs the transaction function directly against a fixed set
// of mock repositories, recording whether a rollback happened.
type stubTxManager struct {
	repos      *repositories.TxRepos
	calls      int
	lastFailed bool
}

func newStubTxManager(repos *repositories.TxRepos) *stubTxManager {
	return &stubTxManager{repos: repos}
}

func (m *stubTxManager) WithTx(ctx context.Context, fn repositories.TxFn) error {
	m.calls++
	err := fn(ctx, m.repos)
	m.lastFailed = err != nil
	return err
}
