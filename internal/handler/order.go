package handler

import (
	"log/slog"
	"marketplace-api/internal/dto"
	"marketplace-api/internal/middleware"
	"marketplace-api/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

const headerIdempotencyKey = "Idempotency-Key"

type OrderHandler struct {
	checkoutService service.CheckoutService
	orderService    service.OrderService
	logger          *slog.Logger
}

func NewOrderHandler(checkoutService service.CheckoutService, orderService service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
		logger:          logger,
	}
}

// CreateOrder is mounted behind the required auth middleware.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	buyerID, ok := middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid req body")
	}

	result, err := h.checkoutService.CreateOrder(ctx, buyerID, c.Request().Header.Get(headerIdempotencyKey), &req)
	if err != nil {
		return checkoutError(ctx, h.logger, req.CartID, err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	buyerID, ok := middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	orders, err := h.orderService.GetForBuyer(ctx, buyerID, c.QueryParam("buyer_type"))
	if err != nil {
		return httpError(ctx, h.logger, err)
	}

	return c.JSON(http.StatusOK, dto.OrdersResponse{
		Success: true,
		Orders:  orders,
	})
}
