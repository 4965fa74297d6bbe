package handlers

import (
	"net/http"

	"fieldtrack/internal/common"
	"fieldtrack/internal/services"

	"github.com/labstack/echo/v4"
)

type InventoryHandlers struct {
	inventoryService services.InventoryService
}

func NewInventoryHandlers(inventoryService services.InventoryService) *InventoryHandlers {
	return &InventoryHandlers{inventoryService: inventoryService}
}

// GetInventory handles GET /inventory/:productId
func (h *InventoryHandlers) GetInventory(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := common.ValidateUUID(c.Param("productId"), "product id")
	if err != nil {
		return common.RespondError(c, err)
	}

	inventory, err := h.inventoryService.GetByProductID(ctx, productID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, inventory)
}

// SetInventory handles PUT /inventory/:productId
func (h *InventoryHandlers) SetInventory(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := common.ValidateUUID(c.Param("productId"), "product id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		Quantity          int `json:"quantity" validate:"gte=0"`
		LowStockThreshold int `json:"low_stock_threshold" validate:"gte=0"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.inventoryService.SetQuantity(ctx, productID, req.Quantity, req.LowStockThreshold); err != nil {
		return common.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListInventory handles GET /inventory
func (h *InventoryHandlers) ListInventory(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset := parsePagination(c)
	inventories, err := h.inventoryService.List(ctx, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, inventories)
}

// ListLowStock handles GET /inventory/low-stock
func (h *InventoryHandlers) ListLowStock(c echo.Context) error {
	ctx := c.Request().Context()

	inventories, err := h.inventoryService.LowStock(ctx)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, inventories)
}
