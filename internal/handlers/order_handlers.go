package handlers

import (
	"net/http"

	"fieldtrack/internal/common"
	"fieldtrack/internal/models"
	"fieldtrack/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type OrderHandlers struct {
	orderService       services.OrderService
	fulfillmentService services.FulfillmentService
}

func NewOrderHandlers(orderService services.OrderService, fulfillmentService services.FulfillmentService) *OrderHandlers {
	return &OrderHandlers{
		orderService:       orderService,
		fulfillmentService: fulfillmentService,
	}
}

// CreateOrder handles POST /orders
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	actor, ok := common.GetActorFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		StoreID string `json:"store_id" validate:"required"`
		Items   []struct {
			ProductID string `json:"product_id" validate:"required"`
			Quantity  int    `json:"quantity" validate:"required,gt=0"`
		} `json:"items" validate:"required,min=1,dive"`
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

	items := make([]models.OrderItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := common.ValidateUUID(item.ProductID, "product id")
		if err != nil {
			return common.RespondError(c, err)
		}
		items = append(items, models.OrderItemRequest{ProductID: productID, Quantity: item.Quantity})
	}

	order, err := h.orderService.Create(ctx, storeID, actor.UserID, items)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.RespondError(c, err)
	}

	order, err := h.orderService.GetByID(ctx, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// FulfillOrder handles POST /orders/:id/fulfill
func (h *OrderHandlers) FulfillOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		Allocations map[string]int `json:"allocations"`
		Strict      bool           `json:"strict"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	plan := make(map[uuid.UUID]int, len(req.Allocations))
	for productIDStr, qty := range req.Allocations {
		productID, err := common.ValidateUUID(productIDStr, "product id")
		if err != nil {
			return common.RespondError(c, err)
		}
		plan[productID] = qty
	}

	order, err := h.fulfillmentService.Fulfill(ctx, id, plan, req.Strict)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// ChangeOrderStatus handles PATCH /orders/:id/status
func (h *OrderHandlers) ChangeOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	status := models.OrderStatus(req.Status)
	if !status.Valid() {
		return common.SendValidationError(c, "status", "unknown order status")
	}

	order, err := h.orderService.ChangeStatus(ctx, id, status)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// ListOrdersByStore handles GET /stores/:id/orders
func (h *OrderHandlers) ListOrdersByStore(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, err := common.ValidateUUID(c.Param("id"), "store id")
	if err != nil {
		return common.RespondError(c, err)
	}

	excludeFulfilled := c.QueryParam("pending") == "true"
	limit, offset := parsePagination(c)

	orders, err := h.orderService.ListByStore(ctx, storeID, excludeFulfilled, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// ListUnfulfilledItems handles GET /orders/:id/unfulfilled
func (h *OrderHandlers) ListUnfulfilledItems(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.RespondError(c, err)
	}

	items, err := h.orderService.ListUnfulfilledItems(ctx, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}
