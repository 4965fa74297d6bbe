package handlers

import (
	"net/http"

	"fieldtrack/internal/common"
	"fieldtrack/internal/models"
	"fieldtrack/internal/services"

	"github.com/labstack/echo/v4"
)

type StoreHandlers struct {
	storeService services.StoreService
}

func NewStoreHandlers(storeService services.StoreService) *StoreHandlers {
	return &StoreHandlers{storeService: storeService}
}

type storeRequest struct {
	Name      string   `json:"name" validate:"required"`
	Address   *string  `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// CreateStore handles POST /stores
func (h *StoreHandlers) CreateStore(c echo.Context) error {
	ctx := c.Request().Context()

	var req storeRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	store := &models.Store{
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if err := h.storeService.Create(ctx, store); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, store)
}

// GetStore handles GET /stores/:id
func (h *StoreHandlers) GetStore(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "store id")
	if err != nil {
		return common.RespondError(c, err)
	}

	store, err := h.storeService.GetByID(ctx, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, store)
}

// UpdateStore handles PUT /stores/:id
func (h *StoreHandlers) UpdateStore(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "store id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req storeRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	store := &models.Store{
		ID:        id,
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if err := h.storeService.Update(ctx, store); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, store)
}

// DeleteStore handles DELETE /stores/:id
func (h *StoreHandlers) DeleteStore(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "store id")
	if err != nil {
		return common.RespondError(c, err)
	}

	if err := h.storeService.Delete(ctx, id); err != nil {
		return common.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListStores handles GET /stores
func (h *StoreHandlers) ListStores(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset := parsePagination(c)
	stores, err := h.storeService.List(ctx, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, stores)
}
