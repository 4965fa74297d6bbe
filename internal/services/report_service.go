package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"fieldtrack/internal/common"
	"fieldtrack/internal/models"
	"fieldtrack/internal/repositories"

	"github.com/jung-kurt/gofpdf"
)

const maxShortageRows = 20

// ReportService exposes read-only aggregates over fulfillment outcomes and
// field activity, plus a PDF export archived to object storage.
type ReportService interface {
	StoreShortfalls(ctx context.Context, days int) ([]*models.StoreShortfall, error)
	ProductShortages(ctx context.Context, days int) ([]*models.ProductShortage, error)
	FulfillmentStats(ctx context.Context, days int) (*models.FulfillmentStats, error)
	DemandTrends(ctx context.Context, days int) ([]*models.DemandTrendPoint, error)
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
	RecentActivity(ctx context.Context, limit int) ([]*models.Activity, error)
	// ExportShortageReport renders the shortage summary as a PDF, stores it
	// and returns the object key.
	ExportShortageReport(ctx context.Context, days int) (string, error)
}

type reportService struct {
	reportRepo repositories.ReportRepository
	storage    StorageService
}

func NewReportService(reportRepo repositories.ReportRepository, storage StorageService) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		storage:    storage,
	}
}

func windowStart(days int) (time.Time, error) {
	if days <= 0 {
		return time.Time{}, common.NewValidationError("days must be positive")
	}
	return time.Now().UTC().AddDate(0, 0, -days), nil
}

func (s *reportService) StoreShortfalls(ctx context.Context, days int) ([]*models.StoreShortfall, error) {
	since, err := windowStart(days)
	if err != nil {
		return nil, err
	}
	return s.reportRepo.StoreShortfalls(ctx, since)
}

func (s *reportService) ProductShortages(ctx context.Context, days int) ([]*models.ProductShortage, error) {
	since, err := windowStart(days)
	if err != nil {
		return nil, err
	}
	return s.reportRepo.ProductShortages(ctx, since, maxShortageRows)
}

func (s *reportService) FulfillmentStats(ctx context.Context, days int) (*models.FulfillmentStats, error) {
	since, err := windowStart(days)
	if err != nil {
		return nil, err
	}
	return s.reportRepo.FulfillmentStats(ctx, since)
}

func (s *reportService) DemandTrends(ctx context.Context, days int) ([]*models.DemandTrendPoint, error) {
	since, err := windowStart(days)
	if err != nil {
		return nil, err
	}
	return s.reportRepo.DemandTrends(ctx, since)
}

func (s *reportService) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.reportRepo.DashboardStats(ctx, dayStart)
}

func (s *reportService) RecentActivity(ctx context.Context, limit int) ([]*models.Activity, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.reportRepo.RecentActivity(ctx, limit)
}

func (s *reportService) ExportShortageReport(ctx context.Context, days int) (string, error) {
	stats, err := s.FulfillmentStats(ctx, days)
	if err != nil {
		return "", err
	}
	shortages, err := s.ProductShortages(ctx, days)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 10, "SHORTAGE REPORT")
	pdf.Ln(15)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Window: last %d days", days))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", time.Now().UTC().Format("02-Jan-2006 15:04")))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "FULFILLMENT OVERVIEW")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Total orders: %d", stats.TotalOrders))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Fulfilled: %d (%.1f%%)", stats.FulfilledCount, stats.FulfilledRate*100))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Partial: %d (%.1f%%)", stats.PartialCount, stats.PartialRate*100))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Unfulfilled: %d (%.1f%%)", stats.UnfulfilledCount, stats.UnfulfilledRate*100))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "TOP PRODUCT SHORTAGES")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 8, "Product", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Requested", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Fulfilled", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Shortfall", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, shortage := range shortages {
		pdf.CellFormat(70, 8, shortage.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%d", shortage.RequestedQty), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%d", shortage.FulfilledQty), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%d", shortage.ShortfallQty), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("shortage-reports/%s-%dd.pdf", time.Now().UTC().Format("2006-01-02-150405"), days)
	if err := s.storage.UploadReport(ctx, objectName, &buf, int64(buf.Len())); err != nil {
		return "", err
	}
	return objectName, nil
}
