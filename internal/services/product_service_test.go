package services

import (
	"context"
	"testing"

	"fieldtrack/internal/common"
	"fieldtrack/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ProductServiceTestSuite struct {
	suite.Suite
	productRepo *MockProductRepository
	cache       *MockCacheService
	service     ProductService
	ctx         context.Context
}

func (suite *ProductServiceTestSuite) SetupTest() {
	suite.productRepo = new(MockProductRepository)
	suite.cache = new(MockCacheService)
	suite.service = NewProductService(suite.productRepo, suite.cache)
	suite.ctx = context.Background()
}

func TestProductServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}

func (suite *ProductServiceTestSuite) TestCreate_Success() {
	product := &models.Product{Name: "Coconut Oil 1L", MRP: 220}
	suite.productRepo.On("Create", suite.ctx, product).Return(nil)

	err := suite.service.Create(suite.ctx, product)

	assert.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), uuid.Nil, product.ID)
}

func (suite *ProductServiceTestSuite) TestCreate_MissingNameRejected() {
	err := suite.service.Create(suite.ctx, &models.Product{Name: "  ", MRP: 100})

	assert.True(suite.T(), common.IsValidation(err))
	suite.productRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *ProductServiceTestSuite) TestCreate_NonPositiveMRPRejected() {
	err := suite.service.Create(suite.ctx, &models.Product{Name: "Free Sample", MRP: 0})

	assert.True(suite.T(), common.IsValidation(err))
}

func (suite *ProductServiceTestSuite) TestGetByID_CacheHitSkipsRepo() {
	id := uuid.New()
	cached := &models.Product{ID: id, Name: "Rice Flour 1kg", MRP: 60}
	suite.cache.On("GetProduct", suite.ctx, id).Return(cached, nil)

	product, err := suite.service.GetByID(suite.ctx, id)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), cached, product)
	suite.productRepo.AssertNotCalled(suite.T(), "GetByID", mock.Anything, mock.Anything)
}

func (suite *ProductServiceTestSuite) TestGetByID_CacheMissFillsCache() {
	id := uuid.New()
	product := &models.Product{ID: id, Name: "Jaggery 500g", MRP: 85}
	suite.cache.On("GetProduct", suite.ctx, id).Return(nil, nil)
	suite.productRepo.On("GetByID", suite.ctx, id).Return(product, nil)
	suite.cache.On("SetProduct", suite.ctx, product, catalogCacheTTL).Return(nil)

	got, err := suite.service.GetByID(suite.ctx, id)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), product, got)
	suite.cache.AssertCalled(suite.T(), "SetProduct", suite.ctx, product, catalogCacheTTL)
}

func (suite *ProductServiceTestSuite) TestUpdate_InvalidatesCache() {
	product := &models.Product{ID: uuid.New(), Name: "Banana Chips 250g", MRP: 90}
	suite.productRepo.On("Update", suite.ctx, product).Return(nil)
	suite.cache.On("DeleteProduct", suite.ctx, product.ID).Return(nil)

	err := suite.service.Update(suite.ctx, product)

	assert.NoError(suite.T(), err)
	suite.cache.AssertCalled(suite.T(), "DeleteProduct", suite.ctx, product.ID)
}

func (suite *ProductServiceTestSuite) TestDelete_InvalidatesCache() {
	id := uuid.New()
	suite.productRepo.On("Delete", suite.ctx, id).Return(nil)
	suite.cache.On("DeleteProduct", suite.ctx, id).Return(nil)

	err := suite.service.Delete(suite.ctx, id)

	assert.NoError(suite.T(), err)
	suite.cache.AssertCalled(suite.T(), "DeleteProduct", suite.ctx, id)
}

func (suite *ProductServiceTestSuite) TestSearch_DefaultsLimit() {
	filter := &models.ProductSearchFilter{Query: "tea"}
	suite.productRepo.On("Search", suite.ctx, filter).Return([]*models.Product{}, nil)

	_, err := suite.service.Search(suite.ctx, filter)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 50, filter.Limit)
}
