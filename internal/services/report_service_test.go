package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"fieldtrack/internal/common"
	"fieldtrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReportServiceTestSuite struct {
	suite.Suite
	reportRepo *MockReportRepository
	storage    *MockStorageService
	service    ReportService
	ctx        context.Context
}

func (suite *ReportServiceTestSuite) SetupTest() {
	suite.reportRepo = new(MockReportRepository)
	suite.storage = new(MockStorageService)
	suite.service = NewReportService(suite.reportRepo, suite.storage)
	suite.ctx = context.Background()
}

func TestReportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}

func (suite *ReportServiceTestSuite) TestStoreShortfalls_WindowStart() {
	var since time.Time
	suite.reportRepo.On("StoreShortfalls", suite.ctx, mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			since = args.Get(1).(time.Time)
		}).Return([]*models.StoreShortfall{}, nil)

	_, err := suite.service.StoreShortfalls(suite.ctx, 7)

	assert.NoError(suite.T(), err)
	expected := time.Now().UTC().AddDate(0, 0, -7)
	assert.WithinDuration(suite.T(), expected, since, time.Minute)
}

func (suite *ReportServiceTestSuite) TestStoreShortfalls_NonPositiveDaysRejected() {
	_, err := suite.service.StoreShortfalls(suite.ctx, 0)

	assert.True(suite.T(), common.IsValidation(err))
	suite.reportRepo.AssertNotCalled(suite.T(), "StoreShortfalls", mock.Anything, mock.Anything)
}

func (suite *ReportServiceTestSuite) TestProductShortages_CapsRows() {
	suite.reportRepo.On("ProductShortages", suite.ctx, mock.AnythingOfType("time.Time"), maxShortageRows).
		Return([]*models.ProductShortage{}, nil)

	_, err := suite.service.ProductShortages(suite.ctx, 30)

	assert.NoError(suite.T(), err)
	suite.reportRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestRecentActivity_DefaultsLimit() {
	suite.reportRepo.On("RecentActivity", suite.ctx, 10).Return([]*models.Activity{}, nil)

	_, err := suite.service.RecentActivity(suite.ctx, 0)

	assert.NoError(suite.T(), err)
	suite.reportRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestExportShortageReport_UploadsPDF() {
	stats := &models.FulfillmentStats{
		TotalOrders:      40,
		FulfilledCount:   25,
		PartialCount:     10,
		UnfulfilledCount: 5,
		FulfilledRate:    0.625,
		PartialRate:      0.25,
		UnfulfilledRate:  0.125,
	}
	shortages := []*models.ProductShortage{
		{ProductName: "Tea Dust 500g", RequestedQty: 120, FulfilledQty: 80, ShortfallQty: 40},
	}
	suite.reportRepo.On("FulfillmentStats", suite.ctx, mock.AnythingOfType("time.Time")).Return(stats, nil)
	suite.reportRepo.On("ProductShortages", suite.ctx, mock.AnythingOfType("time.Time"), maxShortageRows).Return(shortages, nil)

	var uploadedSize int64
	suite.storage.On("UploadReport", suite.ctx, mock.AnythingOfType("string"), mock.Anything, mock.AnythingOfType("int64")).
		Run(func(args mock.Arguments) {
			uploadedSize = args.Get(3).(int64)
		}).Return(nil)

	key, err := suite.service.ExportShortageReport(suite.ctx, 30)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), strings.HasPrefix(key, "shortage-reports/"))
	assert.True(suite.T(), strings.HasSuffix(key, "-30d.pdf"))
	assert.Greater(suite.T(), uploadedSize, int64(0))
}

func (suite *ReportServiceTestSuite) TestExportShortageReport_StatsErrorStopsExport() {
	suite.reportRepo.On("FulfillmentStats", suite.ctx, mock.AnythingOfType("time.Time")).
		Return(nil, assert.AnError)

	_, err := suite.service.ExportShortageReport(suite.ctx, 30)

	assert.Error(suite.T(), err)
	suite.storage.AssertNotCalled(suite.T(), "UploadReport", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
