package handlers

import (
	"net/http"
	"strconv"

	"fieldtrack/internal/common"
	"fieldtrack/internal/services"

	"github.com/labstack/echo/v4"
)

type ReportHandlers struct {
	reportService services.ReportService
}

func NewReportHandlers(reportService services.ReportService) *ReportHandlers {
	return &ReportHandlers{reportService: reportService}
}

func parseDays(c echo.Context) int {
	days := 30
	if v := c.QueryParam("days"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			days = parsed
		}
	}
	return days
}

// StoreShortfalls handles GET /reports/store-shortfalls
func (h *ReportHandlers) StoreShortfalls(c echo.Context) error {
	shortfalls, err := h.reportService.StoreShortfalls(c.Request().Context(), parseDays(c))
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, shortfalls)
}

// ProductShortages handles GET /reports/product-shortages
func (h *ReportHandlers) ProductShortages(c echo.Context) error {
	shortages, err := h.reportService.ProductShortages(c.Request().Context(), parseDays(c))
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, shortages)
}

// FulfillmentStats handles GET /reports/fulfillment-stats
func (h *ReportHandlers) FulfillmentStats(c echo.Context) error {
	stats, err := h.reportService.FulfillmentStats(c.Request().Context(), parseDays(c))
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// DemandTrends handles GET /reports/demand-trends
func (h *ReportHandlers) DemandTrends(c echo.Context) error {
	trends, err := h.reportService.DemandTrends(c.Request().Context(), parseDays(c))
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, trends)
}

// Dashboard handles GET /reports/dashboard
func (h *ReportHandlers) Dashboard(c echo.Context) error {
	stats, err := h.reportService.DashboardStats(c.Request().Context())
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// RecentActivity handles GET /reports/activity
func (h *ReportHandlers) RecentActivity(c echo.Context) error {
	limit, _ := parsePagination(c)
	activity, err := h.reportService.RecentActivity(c.Request().Context(), limit)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, activity)
}

// ExportShortageReport handles POST /reports/shortage-export
func (h *ReportHandlers) ExportShortageReport(c echo.Context) error {
	objectKey, err := h.reportService.ExportShortageReport(c.Request().Context(), parseDays(c))
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"object_key": objectKey})
}
