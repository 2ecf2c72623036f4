package handler

import (
	"log/slog"
	"marketplace-api/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	productService service.ProductService
	logger         *slog.Logger
}

func NewProductHandler(productService service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	productID, ok := parseUint(c.Param("id"))
	if !ok {
		return badRequest("invalid product id")
	}

	product, err := h.productService.GetActive(ctx, productID)
	if err != nil {
		return httpError(ctx, h.logger, err)
	}

	return c.JSON(http.StatusOK, product)
}
