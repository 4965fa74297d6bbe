package handlers

import (
	"net/http"
	"time"

	"fieldtrack/internal/common"
	"fieldtrack/internal/models"
	"fieldtrack/internal/services"

	"github.com/labstack/echo/v4"
)

type VisitHandlers struct {
	visitService services.VisitService
}

func NewVisitHandlers(visitService services.VisitService) *VisitHandlers {
	return &VisitHandlers{visitService: visitService}
}

type stockLineRequest struct {
	ProductID   string  `json:"product_id" validate:"required"`
	Observed    int     `json:"observed" validate:"gte=0"`
	BatchNumber *string `json:"batch_number"`
	ExpiryDate  *string `json:"expiry_date"`
	Reason      *string `json:"reason"`
	Notes       *string `json:"notes"`
}

func (r *stockLineRequest) toLine() (models.StockCountLine, error) {
	productID, err := common.ValidateUUID(r.ProductID, "product id")
	if err != nil {
		return models.StockCountLine{}, err
	}

	line := models.StockCountLine{
		ProductID:   productID,
		Observed:    r.Observed,
		BatchNumber: r.BatchNumber,
		Notes:       r.Notes,
	}
	if r.ExpiryDate != nil && *r.ExpiryDate != "" {
		expiry, err := time.Parse("2006-01-02", *r.ExpiryDate)
		if err != nil {
			return models.StockCountLine{}, common.NewValidationError("expiry date must be YYYY-MM-DD")
		}
		line.ExpiryDate = &expiry
	}
	if r.Reason != nil && *r.Reason != "" {
		reason := models.AdjustmentReason(*r.Reason)
		line.Reason = &reason
	}
	return line, nil
}

// CheckIn handles POST /visits/check-in
func (h *VisitHandlers) CheckIn(c echo.Context) error {
	ctx := c.Request().Context()

	actor, ok := common.GetActorFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		StoreID   string             `json:"store_id" validate:"required"`
		Latitude  float64            `json:"latitude" validate:"gte=-90,lte=90"`
		Longitude float64            `json:"longitude" validate:"gte=-180,lte=180"`
		Notes     *string            `json:"notes"`
		Lines     []stockLineRequest `json:"lines" validate:"dive"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	storeID, err := common.ValidateUUID(req.StoreID, "store id")
	if err != nil {
		return common.RespondError(c, err)
	}

	lines := make([]models.StockCountLine, 0, len(req.Lines))
	for i := range req.Lines {
		line, err := req.Lines[i].toLine()
		if err != nil {
			return common.RespondError(c, err)
		}
		lines = append(lines, line)
	}

	visit, err := h.visitService.CheckIn(ctx, actor.UserID, storeID, req.Latitude, req.Longitude, req.Notes, lines)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, visit)
}

// Reconcile handles POST /visits/reconcile
func (h *VisitHandlers) Reconcile(c echo.Context) error {
	ctx := c.Request().Context()

	actor, ok := common.GetActorFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		StoreID string `json:"store_id" validate:"required"`
		stockLineRequest
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	storeID, err := common.ValidateUUID(req.StoreID, "store id")
	if err != nil {
		return common.RespondError(c, err)
	}
	line, err := req.toLine()
	if err != nil {
		return common.RespondError(c, err)
	}

	visit, err := h.visitService.Reconcile(ctx, actor.UserID, storeID, line)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, visit)
}

// RestockNewBatch handles POST /visits/restock
func (h *VisitHandlers) RestockNewBatch(c echo.Context) error {
	ctx := c.Request().Context()

	actor, ok := common.GetActorFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		StoreID     string  `json:"store_id" validate:"required"`
		ProductID   string  `json:"product_id" validate:"required"`
		Quantity    int     `json:"quantity" validate:"required,gt=0"`
		BatchNumber *string `json:"batch_number"`
		ExpiryDate  *string `json:"expiry_date"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	storeID, err := common.ValidateUUID(req.StoreID, "store id")
	if err != nil {
		return common.RespondError(c, err)
	}
	productID, err := common.ValidateUUID(req.ProductID, "product id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var expiry *time.Time
	if req.ExpiryDate != nil && *req.ExpiryDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.ExpiryDate)
		if err != nil {
			return common.SendValidationError(c, "expiry_date", "must be YYYY-MM-DD")
		}
		expiry = &parsed
	}

	visit, err := h.visitService.RestockNewBatch(ctx, actor.UserID, storeID, productID, req.Quantity, req.BatchNumber, expiry)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, visit)
}

// GetVisit handles GET /visits/:id
func (h *VisitHandlers) GetVisit(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "visit id")
	if err != nil {
		return common.RespondError(c, err)
	}

	visit, err := h.visitService.GetVisit(ctx, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, visit)
}

// ListVisitsByStore handles GET /stores/:id/visits
func (h *VisitHandlers) ListVisitsByStore(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, err := common.ValidateUUID(c.Param("id"), "store id")
	if err != nil {
		return common.RespondError(c, err)
	}

	limit, offset := parsePagination(c)
	visits, err := h.visitService.ListByStore(ctx, storeID, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, visits)
}

// ListVisitAdjustments handles GET /visits/:id/adjustments
func (h *VisitHandlers) ListVisitAdjustments(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "visit id")
	if err != nil {
		return common.RespondError(c, err)
	}

	adjustments, err := h.visitService.ListAdjustments(ctx, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, adjustments)
}
