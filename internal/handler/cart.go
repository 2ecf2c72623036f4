package handler

import (
	"log/slog"
	"marketplace-api/internal/dto"
	"marketplace-api/internal/middleware"
	"marketplace-api/internal/service"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService service.CartService
	logger      *slog.Logger
}

func NewCartHandler(cartService service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

func customerID(c echo.Context) *string {
	id, ok := middleware.UserID(c)
	if !ok {
		return nil
	}
	return &id
}

func parseUint(raw string) (uint, bool) {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	cart, err := h.cartService.GetCurrent(ctx, c.QueryParam("cart_id"), customerID(c))
	if err != nil {
		return httpError(ctx, h.logger, err)
	}

	return c.JSON(http.StatusOK, dto.NewCartResponse(cart))
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid req body")
	}

	cart, err := h.cartService.AddItem(ctx, customerID(c), &req)
	if err != nil {
		return httpError(ctx, h.logger, err)
	}

	return c.JSON(http.StatusOK, dto.NewCartResponse(cart))
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	productID, ok := parseUint(c.Param("product_id"))
	if !ok {
		return badRequest("invalid product_id")
	}

	var variationOptionID *uint
	if raw := c.QueryParam("variation_option_id"); raw != "" {
		id, ok := parseUint(raw)
		if !ok {
			return badRequest("invalid variation_option_id")
		}
		variationOptionID = &id
	}

	cart, err := h.cartService.RemoveItem(ctx, c.Param("cart_id"), customerID(c), productID, variationOptionID)
	if err != nil {
		return httpError(ctx, h.logger, err)
	}

	return c.JSON(http.StatusOK, dto.NewCartResponse(cart))
}

func (h *CartHandler) ClearItems(c echo.Context) error {
	ctx := c.Request().Context()

	cart, err := h.cartService.ClearItems(ctx, c.Param("cart_id"), customerID(c))
	if err != nil {
		return httpError(ctx, h.logger, err)
	}

	return c.JSON(http.StatusOK, dto.NewCartResponse(cart))
}
